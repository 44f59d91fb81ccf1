package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/arcanaland/cardfan/internal/layout"
	"github.com/arcanaland/cardfan/internal/motion"
)

// ErrInvalidScript is returned for scripts that cannot be run
var ErrInvalidScript = errors.New("invalid script")

// MaxSettle bounds every wait for the deck to come to rest
const MaxSettle = 30 * time.Second

// Drag is one scripted pointer gesture
type Drag struct {
	// Slot is picked up at its current position
	Slot int     `yaml:"slot" json:"slot"`
	DX   float64 `yaml:"dx" json:"dx"`
	DY   float64 `yaml:"dy" json:"dy"`
	// Duration is how long the pointer takes to cover dx, dy
	Duration time.Duration `yaml:"duration" json:"duration"`
	// Steps is the number of move samples sent
	Steps int `yaml:"steps" json:"steps"`
	// Hold keeps the pointer still this long before release
	Hold time.Duration `yaml:"hold" json:"hold"`
}

// Script describes a headless run
type Script struct {
	Viewport layout.Viewport `yaml:"viewport" json:"viewport"`
	Drags    []Drag          `yaml:"drags" json:"drags"`
	// Every records a frame at this interval; zero records every step
	Every time.Duration `yaml:"every" json:"every"`
}

// ParseScript reads a YAML (or JSON) script
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("error decoding script: %w", err)
	}
	for i := range s.Drags {
		d := &s.Drags[i]
		if d.Steps <= 0 {
			d.Steps = 1
		}
		if d.Duration <= 0 {
			return nil, fmt.Errorf("%w: drag %d has no duration", ErrInvalidScript, i)
		}
	}
	return &s, nil
}

// Frame is the pose of the dragged slot at one instant
type Frame struct {
	At        time.Duration `yaml:"at" json:"at"`
	Slot      int           `yaml:"slot" json:"slot"`
	Phase     motion.Phase  `yaml:"phase" json:"phase"`
	Dismissed bool          `yaml:"dismissed" json:"dismissed"`
	Pose      layout.Pose   `yaml:"pose" json:"pose"`
}

// Outcome summarizes one drag once its card has come to rest
type Outcome struct {
	Slot      int         `yaml:"slot" json:"slot"`
	Dismissed bool        `yaml:"dismissed" json:"dismissed"`
	Final     layout.Pose `yaml:"final" json:"final"`
}

// Trajectory is the result of running a script
type Trajectory struct {
	Session  string          `yaml:"session" json:"session"`
	Viewport layout.Viewport `yaml:"viewport" json:"viewport"`
	Outcomes []Outcome       `yaml:"outcomes" json:"outcomes"`
	Frames   []Frame         `yaml:"frames" json:"frames"`
}

type runner struct {
	s     *Session
	every time.Duration
	step  time.Duration
	epoch time.Time
	now   time.Duration
	last  time.Duration
	out   *Trajectory
}

// Run plays script against s on a simulated clock. The deck is left to
// finish entering before the first drag.
func Run(s *Session, script *Script) (*Trajectory, error) {
	r := &runner{
		s:     s,
		every: script.Every,
		step:  s.Step(),
		epoch: time.Unix(0, 0),
		last:  -1,
		out: &Trajectory{
			Session:  s.ID,
			Viewport: s.Controller.Viewport(),
		},
	}

	if !r.settle(-1) {
		return nil, fmt.Errorf("%w: deck did not settle within %s", ErrInvalidScript, MaxSettle)
	}

	for i, d := range script.Drags {
		if s.Controller.Dismissed(d.Slot) {
			return nil, fmt.Errorf("%w: drag %d picks up dismissed slot %d", ErrInvalidScript, i, d.Slot)
		}
		if err := r.drag(d); err != nil {
			return nil, fmt.Errorf("drag %d: %w", i, err)
		}
		if !r.settle(d.Slot) {
			return nil, fmt.Errorf("%w: slot %d did not settle within %s", ErrInvalidScript, d.Slot, MaxSettle)
		}

		st, err := s.Controller.State(d.Slot)
		if err != nil {
			return nil, err
		}
		r.out.Outcomes = append(r.out.Outcomes, Outcome{Slot: d.Slot, Dismissed: st.Dismissed, Final: st.Pose})
	}

	return r.out, nil
}

func (r *runner) at() time.Time {
	return r.epoch.Add(r.now)
}

func (r *runner) advance(d time.Duration, slot int) {
	end := r.now + d
	for r.now+r.step <= end {
		r.s.Tick(r.step)
		r.now += r.step
		r.record(slot)
	}
	if rest := end - r.now; rest > 0 {
		r.s.Tick(rest)
		r.now = end
	}
}

func (r *runner) record(slot int) {
	if slot < 0 {
		return
	}
	if r.every > 0 && r.last >= 0 && r.now-r.last < r.every {
		return
	}
	st, err := r.s.Controller.State(slot)
	if err != nil {
		return
	}
	r.last = r.now
	r.out.Frames = append(r.out.Frames, Frame{
		At:        r.now,
		Slot:      slot,
		Phase:     st.Phase,
		Dismissed: st.Dismissed,
		Pose:      st.Pose,
	})
}

// settle advances until the deck (or, for slot >= 0, that slot) is at rest
func (r *runner) settle(slot int) bool {
	for elapsed := time.Duration(0); elapsed < MaxSettle; elapsed += r.step {
		if r.resting(slot) {
			return true
		}
		r.advance(r.step, slot)
	}
	return r.resting(slot)
}

func (r *runner) resting(slot int) bool {
	if slot < 0 {
		return r.s.Controller.Settled()
	}
	st, err := r.s.Controller.State(slot)
	return err == nil && !st.Moving && st.Phase == motion.Settled
}

func (r *runner) drag(d Drag) error {
	start, err := r.s.Controller.Pose(d.Slot)
	if err != nil {
		return err
	}
	if err := r.s.Grab(d.Slot, r.at()); err != nil {
		return err
	}
	r.record(d.Slot)

	interval := d.Duration / time.Duration(d.Steps)
	var x, y float64
	for i := 1; i <= d.Steps; i++ {
		r.advance(interval, d.Slot)
		f := float64(i) / float64(d.Steps)
		x, y = start.X+d.DX*f, start.Y+d.DY*f
		if err := r.s.Move(x, y, r.at()); err != nil {
			return err
		}
	}

	if d.Hold > 0 {
		r.advance(d.Hold, d.Slot)
		if err := r.s.Move(x, y, r.at()); err != nil {
			return err
		}
	}

	return r.s.Release(x, y, r.at())
}
