package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardfan/internal/config"
	"github.com/arcanaland/cardfan/internal/deck"
	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/logging"
	"github.com/arcanaland/cardfan/internal/session"
	"github.com/arcanaland/cardfan/internal/view"
)

// fallbackViewport is used when no terminal size is available
var fallbackViewport = layout.Viewport{Width: 800, Height: 600}

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardfan",
	Short: "Deal a deck around four seats and flick cards away",
	Long: `Cardfan deals 52 playing cards into four fanned hands around the screen.
Drag any card with the mouse: let go slowly and it springs back to its seat,
flick it and it flies off the table for good.

Configuration is read from $XDG_CONFIG_HOME/cardfan/config.toml and can be
overridden with CARDFAN_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cardfan/config.toml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().Int("seat", 0, "seat shown face up (0 bottom, 1 right, 2 top, 3 left)")
	RootCmd.PersistentFlags().String("rng", "", "shuffle source (default, crypto)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("seat") {
		cfg.MySeat, _ = flags.GetInt("seat")
	}
	if flags.Changed("rng") {
		cfg.RNG, _ = flags.GetString("rng")
	}

	return cfg, cfg.Validate()
}

// newLogger builds a logger writing to stderr unless file is set
func newLogger(cfg config.Config, file string) (*logrus.Logger, func(), error) {
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   file,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closer.Close() }, nil
}

// sessionOptions maps the config onto a new session
func sessionOptions(cfg config.Config, vp layout.Viewport, logger logrus.FieldLogger) (session.Options, error) {
	rng, err := deck.NewRNG(cfg.RNG)
	if err != nil {
		return session.Options{}, err
	}

	opts := session.DefaultOptions(vp)
	opts.Layout.Turn = cfg.Turn
	opts.Mine = layout.Seat(cfg.MySeat)
	opts.RNG = rng
	opts.Springs = cfg.Springs
	opts.Step = cfg.Step()
	opts.Threshold = cfg.Threshold
	opts.Logger = logger
	return opts, nil
}

// terminalViewport returns the card area of the attached terminal
func terminalViewport() layout.Viewport {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 1 {
		return fallbackViewport
	}
	return view.ViewportFor(cols, rows-1)
}

// viewportFlag reads --width and --height, filling gaps from the terminal
func viewportFlag(cmd *cobra.Command) (layout.Viewport, error) {
	vp := terminalViewport()
	if w, _ := cmd.Flags().GetFloat64("width"); w != 0 {
		vp.Width = w
	}
	if h, _ := cmd.Flags().GetFloat64("height"); h != 0 {
		vp.Height = h
	}
	return vp, vp.Validate()
}

func addViewportFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("width", 0, "viewport width in pixels (default from terminal)")
	cmd.Flags().Float64("height", 0, "viewport height in pixels (default from terminal)")
}
