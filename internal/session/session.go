// Package session ties one deal, its motion controller and the pointer
// together. A Session is driven from a single loop.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arcanaland/cardfan/internal/asset"
	"github.com/arcanaland/cardfan/internal/card"
	"github.com/arcanaland/cardfan/internal/deck"
	"github.com/arcanaland/cardfan/internal/gesture"
	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/motion"
)

// Options configures a new session
type Options struct {
	Layout   layout.Layout
	Viewport layout.Viewport
	Mine     layout.Seat
	RNG      deck.RNG
	Springs  motion.Springs
	Step     time.Duration
	// Threshold overrides the dismissal speed when positive
	Threshold float64

	Logger logrus.FieldLogger
	Cue    Cue
}

// DefaultOptions returns options for a stock four seat deal
func DefaultOptions(vp layout.Viewport) Options {
	return Options{
		Layout:   layout.New(),
		Viewport: vp,
		Mine:     layout.Bottom,
		RNG:      deck.Default{},
		Springs:  motion.DefaultSprings(),
		Step:     motion.DefaultStep,
	}
}

// Session is one dealt deck on screen
type Session struct {
	ID         string
	Deck       *deck.Deck
	Controller *motion.Controller

	mine   layout.Seat
	step   time.Duration
	log    logrus.FieldLogger
	cue    Cue
	active *gesture.Interpreter

	dismissed int
}

// New deals a fresh deck and starts every card entering
func New(opts Options) (*Session, error) {
	if opts.Layout.Turn != 0 {
		return nil, fmt.Errorf("%w: %d", layout.ErrUnsupportedTurn, opts.Layout.Turn)
	}
	if opts.RNG == nil {
		opts.RNG = deck.Default{}
	}
	if opts.Cue == nil {
		opts.Cue = Silent{}
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		opts.Logger = l
	}

	id := uuid.New().String()
	s := &Session{
		ID:   id,
		mine: opts.Mine,
		log:  opts.Logger.WithField("session", id),
		cue:  opts.Cue,
	}

	d, err := deck.Deal(card.Pool(), opts.Layout, opts.RNG)
	if err != nil {
		return nil, err
	}
	s.Deck = d

	cfg := motion.DefaultConfig(opts.Viewport)
	cfg.Layout = opts.Layout
	cfg.Springs = opts.Springs
	if opts.Step > 0 {
		cfg.Step = opts.Step
	}
	if opts.Threshold > 0 {
		cfg.Threshold = opts.Threshold
	}
	cfg.Logger = s.log
	cfg.OnTransition = s.onTransition

	c, err := motion.New(cfg)
	if err != nil {
		return nil, err
	}
	s.Controller = c
	s.step = cfg.Step

	s.log.WithFields(logrus.Fields{
		"mine":  opts.Mine,
		"cards": d.Len(),
	}).Info("deck dealt")

	return s, nil
}

func (s *Session) onTransition(t motion.Transition) {
	if t.From == motion.Dragging && t.Dismissed {
		s.dismissed++
		s.cue.Play()
		s.log.WithFields(logrus.Fields{
			"slot":      t.Slot,
			"remaining": s.Deck.Len() - s.dismissed,
		}).Debug("dismiss cue")
	}
}

// Mine returns the seat whose cards are revealed
func (s *Session) Mine() layout.Seat {
	return s.mine
}

// Revealed reports whether a slot is shown face up
func (s *Session) Revealed(slot int) bool {
	return s.Deck.Revealed(slot, s.mine)
}

// Resolve returns the image reference shown for slot
func (s *Session) Resolve(r asset.Resolver, slot int) (string, error) {
	c, err := s.Deck.Card(slot)
	if err != nil {
		return "", err
	}
	return r.Resolve(c, s.Revealed(slot)), nil
}

// Step returns the animation integration step
func (s *Session) Step() time.Duration {
	return s.step
}

// DismissedCount returns how many cards have been flicked away
func (s *Session) DismissedCount() int {
	return s.dismissed
}

// Holding returns the slot under the pointer, if a drag is open
func (s *Session) Holding() (int, bool) {
	if s.active == nil {
		return 0, false
	}
	return s.active.Slot(), true
}

// States returns every slot's motion state
func (s *Session) States() []motion.State {
	return s.Controller.States()
}

// Tick advances the animation clock
func (s *Session) Tick(d time.Duration) {
	s.Controller.Tick(d)
}

// Resize moves every resting card to its seat in the new viewport
func (s *Session) Resize(vp layout.Viewport) error {
	return s.Controller.Resize(vp)
}

// Press starts a drag on whichever card lies under the pointer. It
// reports the slot picked up, if any.
func (s *Session) Press(x, y float64, at time.Time) (int, bool, error) {
	if s.active != nil {
		if err := s.Release(x, y, at); err != nil {
			return 0, false, err
		}
	}

	slot, ok := s.Controller.SlotAt(x, y)
	if !ok {
		return 0, false, nil
	}
	return slot, true, s.grab(slot, x, y, at)
}

// Grab starts a drag on slot at its current position, skipping the hit test
func (s *Session) Grab(slot int, at time.Time) error {
	p, err := s.Controller.Pose(slot)
	if err != nil {
		return err
	}
	if s.active != nil {
		if err := s.Release(p.X, p.Y, at); err != nil {
			return err
		}
	}
	return s.grab(slot, p.X, p.Y, at)
}

func (s *Session) grab(slot int, x, y float64, at time.Time) error {
	s.active = gesture.NewInterpreter(slot)
	return s.feed(gesture.RawSample{X: x, Y: y, Active: true, At: at})
}

// Move updates the open drag, if any
func (s *Session) Move(x, y float64, at time.Time) error {
	if s.active == nil {
		return nil
	}
	return s.feed(gesture.RawSample{X: x, Y: y, Active: true, At: at})
}

// Release ends the open drag, if any
func (s *Session) Release(x, y float64, at time.Time) error {
	if s.active == nil {
		return nil
	}
	err := s.feed(gesture.RawSample{X: x, Y: y, Active: false, At: at})
	s.active = nil
	return err
}

func (s *Session) feed(raw gesture.RawSample) error {
	sample, ok := s.active.Feed(raw)
	if !ok {
		return nil
	}
	if err := s.Controller.Apply(sample); err != nil {
		s.log.WithError(err).WithField("slot", sample.Slot).Error("could not apply gesture")
		return err
	}
	return nil
}
