package cmd

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardfan/internal/asset"
	"github.com/arcanaland/cardfan/internal/config"
	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/session"
	"github.com/arcanaland/cardfan/internal/view"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Deal the deck on screen and drag cards with the mouse",
	Long: `Play fans the four hands around the terminal. Drag a card with the left
mouse button: release it slowly to send it back, flick it to throw it away.

Keys: r deals again, q or Esc quits.

The screen belongs to the game while it runs, so logs go to log_file or
$XDG_STATE_HOME/cardfan/play.log.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if sound, _ := cmd.Flags().GetBool("sound"); cmd.Flags().Changed("sound") {
			cfg.Sound = sound
		}

		logFile := cfg.LogFile
		if logFile == "" {
			logFile = config.GetDefaultLogPath()
		}
		logger, done, err := newLogger(cfg, logFile)
		if err != nil {
			return err
		}
		defer done()

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()
		screen.EnableMouse()
		screen.HideCursor()

		var cue session.Cue = session.Silent{}
		if cfg.Sound {
			tone := session.NewTone()
			if err := tone.Init(); err != nil {
				// Non-fatal, play continues without sound
				logger.WithError(err).Warn("audio initialization failed")
			} else {
				cue = tone
			}
		}
		defer cue.Close()

		g := &game{
			cfg:    cfg,
			log:    logger,
			cue:    cue,
			screen: screen,
			view:   view.NewTerminal(screen, asset.Refs{}, layout.Seat(cfg.MySeat)),
		}
		if err := g.deal(); err != nil {
			return err
		}
		return g.run()
	},
}

func init() {
	RootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("sound", false, "play a blip when a card is dismissed")
}

type game struct {
	cfg    config.Config
	log    logrus.FieldLogger
	cue    session.Cue
	screen tcell.Screen
	view   *view.Terminal
	s      *session.Session
}

func (g *game) deal() error {
	opts, err := sessionOptions(g.cfg, g.view.Viewport(), g.log)
	if err != nil {
		return err
	}
	opts.Cue = g.cue

	s, err := session.New(opts)
	if err != nil {
		return err
	}
	g.s = s
	return nil
}

func (g *game) run() error {
	ticker := time.NewTicker(g.cfg.Step())
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			quit, err := g.handle(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case now := <-ticker.C:
			g.s.Tick(now.Sub(last))
			last = now
			g.draw()
		}
	}
}

func (g *game) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return true, nil
		case ev.Rune() == 'r':
			g.log.WithField("session", g.s.ID).Info("redeal")
			return false, g.deal()
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := view.ToPixels(col, row, g.view.Viewport())
		at := ev.When()
		_, holding := g.s.Holding()

		switch down := ev.Buttons()&tcell.Button1 != 0; {
		case down && !holding:
			_, _, err := g.s.Press(x, y, at)
			return false, err
		case down && holding:
			return false, g.s.Move(x, y, at)
		case !down && holding:
			return false, g.s.Release(x, y, at)
		}

	case *tcell.EventResize:
		g.screen.Sync()
		return false, g.s.Resize(g.view.Viewport())
	}

	return false, nil
}

func (g *game) draw() {
	status := fmt.Sprintf(" seat %s  dismissed %d/%d  drag a card, flick to throw  r redeal  q quit",
		layout.Seat(g.cfg.MySeat), g.s.DismissedCount(), g.s.Deck.Len())
	g.view.Draw(g.s.States(), g.s.Deck, status)
}
