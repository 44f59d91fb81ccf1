// Package motion owns the pose and dismissal state of every deck slot.
//
// A slot enters from a stacked pose, rests in its seat, follows the
// pointer 1:1 while dragged and, on release, either springs back to its
// seat or flies away for good. The Controller is the only writer of that
// state. It is driven from a single loop and is not safe for concurrent use.
package motion

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/sirupsen/logrus"

	"github.com/arcanaland/cardfan/internal/gesture"
	"github.com/arcanaland/cardfan/internal/layout"
)

// Phase is where a slot is in its lifecycle
type Phase int

// phases
const (
	Entering Phase = iota
	Settled
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Entering:
		return "entering"
	case Settled:
		return "settled"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	for _, q := range []Phase{Entering, Settled, Dragging} {
		if q.String() == string(text) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// tuning defaults
const (
	DefaultThreshold     = 0.2
	DefaultStagger       = 100 * time.Millisecond
	DefaultStep          = time.Second / 60
	DefaultFlingDistance = 200
	DefaultCardWidth     = 60
	DefaultCardHeight    = 90

	// LiftScale is the scale of a card held under the pointer
	LiftScale = 1.1
	// FlyLift is how far a dismissed card is pushed up from where it was let go
	FlyLift = -40
	// TiltDivisor converts horizontal drag distance to degrees of tilt
	TiltDivisor = 100
	// SpinFactor converts release speed to degrees of spin
	SpinFactor = 10
)

// StackedPose is where every card starts before it is dealt out
var StackedPose = layout.Pose{X: 0, Y: 0, Rotation: 0, Scale: 0.8}

// State is the observable state of one slot
type State struct {
	Slot      int         `json:"slot" yaml:"slot"`
	Phase     Phase       `json:"phase" yaml:"phase"`
	Dismissed bool        `json:"dismissed" yaml:"dismissed"`
	Pose      layout.Pose `json:"pose" yaml:"pose"`
	Target    layout.Pose `json:"target" yaml:"target"`
	Moving    bool        `json:"moving" yaml:"moving"`
}

// Transition describes a phase change reported to observers
type Transition struct {
	Slot      int
	From, To  Phase
	Dismissed bool
}

// Config configures a Controller
type Config struct {
	Layout   layout.Layout
	Viewport layout.Viewport
	Springs  Springs

	// Step is the fixed integration step
	Step time.Duration
	// Stagger is the entrance delay per slot counted back from the last
	Stagger time.Duration
	// Threshold is the release speed, in px/ms, above which a card is dismissed
	Threshold float64
	// FlingDistance is how far past the viewport edge a dismissed card parks
	FlingDistance float64

	CardWidth  float64
	CardHeight float64

	Logger logrus.FieldLogger
	// OnTransition is called after every phase change or dismissal
	OnTransition func(Transition)
}

// DefaultConfig returns the stock configuration for a viewport
func DefaultConfig(vp layout.Viewport) Config {
	return Config{
		Layout:        layout.New(),
		Viewport:      vp,
		Springs:       DefaultSprings(),
		Step:          DefaultStep,
		Stagger:       DefaultStagger,
		Threshold:     DefaultThreshold,
		FlingDistance: DefaultFlingDistance,
		CardWidth:     DefaultCardWidth,
		CardHeight:    DefaultCardHeight,
	}
}

type slotState struct {
	phase     Phase
	dismissed bool

	pose   layout.Pose
	vel    velocity
	target layout.Pose
	spring *harmonica.Spring
	delay  time.Duration
	moving bool

	// drag bookkeeping, valid while phase == Dragging
	origin    layout.Pose
	dx        float64
	triggered bool
	peak      float64
}

// Controller animates every slot of the deck
type Controller struct {
	cfg   Config
	log   logrus.FieldLogger
	slots []slotState

	entrance harmonica.Spring
	drag     harmonica.Spring
	settle   harmonica.Spring
	dismiss  harmonica.Spring

	pending time.Duration
	elapsed time.Duration
}

// New builds a controller with every slot entering from the stacked pose
func New(cfg Config) (*Controller, error) {
	if err := cfg.Springs.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Viewport.Validate(); err != nil {
		return nil, err
	}
	if cfg.Step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %s", cfg.Step)
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		cfg.Logger = l
	}

	c := &Controller{
		cfg:      cfg,
		log:      cfg.Logger.WithField("component", "motion"),
		slots:    make([]slotState, cfg.Layout.Slots()),
		entrance: cfg.Springs.Entrance.build(cfg.Step),
		drag:     cfg.Springs.Drag.build(cfg.Step),
		settle:   cfg.Springs.Settle.build(cfg.Step),
		dismiss:  cfg.Springs.Dismiss.build(cfg.Step),
	}

	total := len(c.slots)
	for i := range c.slots {
		rest, err := cfg.Layout.RestPose(i, cfg.Viewport)
		if err != nil {
			return nil, err
		}
		c.slots[i] = slotState{
			phase:  Entering,
			pose:   StackedPose,
			target: rest,
			spring: &c.entrance,
			delay:  time.Duration(total-i) * cfg.Stagger,
			moving: true,
		}
	}

	c.log.WithFields(logrus.Fields{
		"slots":    total,
		"viewport": fmt.Sprintf("%gx%g", cfg.Viewport.Width, cfg.Viewport.Height),
	}).Debug("controller ready")

	return c, nil
}

// Len returns the number of slots
func (c *Controller) Len() int {
	return len(c.slots)
}

// Viewport returns the viewport rest poses are computed against
func (c *Controller) Viewport() layout.Viewport {
	return c.cfg.Viewport
}

// Elapsed returns the simulated time advanced so far
func (c *Controller) Elapsed() time.Duration {
	return c.elapsed
}

func (c *Controller) check(slot int) error {
	if slot < 0 || slot >= len(c.slots) {
		return fmt.Errorf("%w: %d not in 0..%d", layout.ErrSlotOutOfRange, slot, len(c.slots)-1)
	}
	return nil
}

// State returns the current state of a slot
func (c *Controller) State(slot int) (State, error) {
	if err := c.check(slot); err != nil {
		return State{}, err
	}
	return c.snapshot(slot), nil
}

// States returns the state of every slot in slot order
func (c *Controller) States() []State {
	out := make([]State, len(c.slots))
	for i := range c.slots {
		out[i] = c.snapshot(i)
	}
	return out
}

func (c *Controller) snapshot(i int) State {
	s := &c.slots[i]
	return State{
		Slot:      i,
		Phase:     s.phase,
		Dismissed: s.dismissed,
		Pose:      s.pose,
		Target:    s.target,
		Moving:    s.moving || s.delay > 0,
	}
}

// Pose returns the current pose of a slot
func (c *Controller) Pose(slot int) (layout.Pose, error) {
	if err := c.check(slot); err != nil {
		return layout.Pose{}, err
	}
	return c.slots[slot].pose, nil
}

// Dismissed reports whether a slot has been flicked away
func (c *Controller) Dismissed(slot int) bool {
	if c.check(slot) != nil {
		return false
	}
	return c.slots[slot].dismissed
}

// Settled reports whether no slot is moving, waiting or being dragged
func (c *Controller) Settled() bool {
	for i := range c.slots {
		s := &c.slots[i]
		if s.moving || s.delay > 0 || s.phase != Settled {
			return false
		}
	}
	return true
}

// Tick advances the animation by d, integrating in fixed steps and
// carrying any remainder to the next call
func (c *Controller) Tick(d time.Duration) {
	c.pending += d
	for c.pending >= c.cfg.Step {
		c.pending -= c.cfg.Step
		c.step()
	}
}

// Step advances the animation by exactly one integration step
func (c *Controller) Step() {
	c.step()
}

func (c *Controller) step() {
	c.elapsed += c.cfg.Step
	for i := range c.slots {
		s := &c.slots[i]

		if s.phase == Dragging {
			// x, y and tilt follow the pointer; only the lift is eased
			s.pose.Scale, s.vel.Scale = c.drag.Update(s.pose.Scale, s.vel.Scale, LiftScale)
			continue
		}

		if s.delay > 0 {
			s.delay -= c.cfg.Step
			if s.delay > 0 {
				continue
			}
			s.delay = 0
		}

		if !s.moving {
			continue
		}

		if ease(*s.spring, &s.pose, &s.vel, s.target) {
			s.moving = false
			if s.phase == Entering {
				c.transition(i, Settled)
			}
		}
	}
}

func (c *Controller) transition(slot int, to Phase) {
	s := &c.slots[slot]
	from := s.phase
	s.phase = to

	c.log.WithFields(logrus.Fields{
		"slot":      slot,
		"from":      from,
		"to":        to,
		"dismissed": s.dismissed,
	}).Debug("slot transition")

	if c.cfg.OnTransition != nil {
		c.cfg.OnTransition(Transition{Slot: slot, From: from, To: to, Dismissed: s.dismissed})
	}
}

// Apply feeds one gesture sample into the slot it names. Samples for a
// dismissed slot are ignored.
func (c *Controller) Apply(g gesture.Sample) error {
	if err := c.check(g.Slot); err != nil {
		return err
	}

	s := &c.slots[g.Slot]
	if s.dismissed {
		c.log.WithField("slot", g.Slot).Debug("ignoring gesture on dismissed slot")
		return nil
	}

	if g.Down {
		if s.phase != Dragging {
			c.pickUp(g.Slot)
		}
		c.follow(s, g)
		return nil
	}

	if s.phase != Dragging {
		return nil
	}

	c.follow(s, g)
	c.release(g.Slot, g.Direction)
	return nil
}

func (c *Controller) pickUp(slot int) {
	s := &c.slots[slot]
	s.origin = s.pose
	s.dx = 0
	s.triggered = false
	s.peak = 0
	s.delay = 0
	s.moving = false
	s.vel = velocity{Scale: s.vel.Scale}
	c.transition(slot, Dragging)
}

func (c *Controller) follow(s *slotState, g gesture.Sample) {
	s.pose.X = s.origin.X + g.DX
	s.pose.Y = s.origin.Y + g.DY
	s.pose.Rotation = g.DX / TiltDivisor
	s.dx = g.DX

	if g.Velocity > c.cfg.Threshold {
		s.triggered = true
	}
	s.peak = math.Max(s.peak, g.Velocity)
}

func (c *Controller) release(slot int, dir int) {
	s := &c.slots[slot]
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}

	s.vel = velocity{}
	s.moving = true

	if s.triggered {
		s.dismissed = true
		s.spring = &c.dismiss
		s.target = layout.Pose{
			X:        s.pose.X + float64(dir)*(c.cfg.Viewport.Width/2+c.cfg.FlingDistance),
			Y:        s.pose.Y + FlyLift,
			Rotation: s.dx/TiltDivisor + float64(dir)*SpinFactor*s.peak,
			Scale:    1,
		}
		c.log.WithFields(logrus.Fields{
			"slot":     slot,
			"velocity": s.peak,
			"dir":      dir,
		}).Info("card dismissed")
	} else {
		rest, err := c.cfg.Layout.RestPose(slot, c.cfg.Viewport)
		if err != nil {
			// slot was range checked in Apply and the layout was valid at New
			panic(fmt.Sprintf("rest pose for slot %d: %v", slot, err))
		}
		s.spring = &c.settle
		s.target = rest
	}

	c.transition(slot, Settled)
}

// Resize recomputes rest poses for a new viewport. Entering and settled
// slots ease toward their new seats; dragged and dismissed slots are left alone.
func (c *Controller) Resize(vp layout.Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	c.cfg.Viewport = vp

	for i := range c.slots {
		s := &c.slots[i]
		if s.dismissed || s.phase == Dragging {
			continue
		}
		rest, err := c.cfg.Layout.RestPose(i, vp)
		if err != nil {
			return err
		}
		if rest != s.target {
			s.target = rest
			s.moving = true
		}
	}

	c.log.WithField("viewport", fmt.Sprintf("%gx%g", vp.Width, vp.Height)).Debug("viewport resized")
	return nil
}

// SlotAt returns the topmost slot whose card contains the point, skipping
// dismissed slots. The held card, if any, is on top of every other.
func (c *Controller) SlotAt(x, y float64) (int, bool) {
	for i := range c.slots {
		if c.slots[i].phase == Dragging && !c.slots[i].dismissed && c.contains(i, x, y) {
			return i, true
		}
	}
	for i := len(c.slots) - 1; i >= 0; i-- {
		if c.slots[i].dismissed {
			continue
		}
		if c.contains(i, x, y) {
			return i, true
		}
	}
	return 0, false
}

func (c *Controller) contains(slot int, x, y float64) bool {
	p := c.slots[slot].pose
	rad := -p.Rotation * math.Pi / 180
	dx, dy := x-p.X, y-p.Y
	lx := dx*math.Cos(rad) - dy*math.Sin(rad)
	ly := dx*math.Sin(rad) + dy*math.Cos(rad)

	hw := c.cfg.CardWidth * p.Scale / 2
	hh := c.cfg.CardHeight * p.Scale / 2
	return math.Abs(lx) <= hw && math.Abs(ly) <= hh
}
