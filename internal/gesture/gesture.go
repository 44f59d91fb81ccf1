// Package gesture turns a raw pointer stream into drag samples for one slot.
package gesture

import (
	"math"
	"time"
)

// StillWindow is how long the pointer may rest before its velocity drops to zero
const StillWindow = 32 * time.Millisecond

// RawSample is one reading from the pointer source
type RawSample struct {
	X, Y   float64
	Active bool
	At     time.Time
}

// Sample is the interpreted state of a drag at one instant.
// DX and DY are measured from the point where the pointer went down;
// Velocity is the instantaneous speed in pixels per millisecond.
type Sample struct {
	Slot      int     `json:"slot" yaml:"slot"`
	DX        float64 `json:"dx" yaml:"dx"`
	DY        float64 `json:"dy" yaml:"dy"`
	Velocity  float64 `json:"velocity" yaml:"velocity"`
	Direction int     `json:"direction" yaml:"direction"`
	Down      bool    `json:"down" yaml:"down"`
}

// Interpreter tracks a single drag gesture on one slot
type Interpreter struct {
	slot int

	active   bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	lastAt   time.Time
	velocity float64
	dir      int
}

// NewInterpreter returns an interpreter bound to slot
func NewInterpreter(slot int) *Interpreter {
	return &Interpreter{slot: slot, dir: 1}
}

// Slot returns the slot this interpreter reports for
func (g *Interpreter) Slot() int {
	return g.slot
}

// Active reports whether a drag is in progress
func (g *Interpreter) Active() bool {
	return g.active
}

// Feed consumes a raw sample. It returns false when the sample does not
// belong to a gesture (pointer movement with no press).
func (g *Interpreter) Feed(raw RawSample) (Sample, bool) {
	if !g.active {
		if !raw.Active {
			return Sample{}, false
		}
		g.begin(raw)
		return g.sample(true), true
	}

	g.track(raw)

	if !raw.Active {
		s := g.sample(false)
		g.reset()
		return s, true
	}

	return g.sample(true), true
}

func (g *Interpreter) begin(raw RawSample) {
	g.active = true
	g.startX, g.startY = raw.X, raw.Y
	g.lastX, g.lastY = raw.X, raw.Y
	g.lastAt = raw.At
	g.velocity = 0
	g.dir = 1
}

func (g *Interpreter) track(raw RawSample) {
	stepX := raw.X - g.lastX
	stepY := raw.Y - g.lastY
	elapsed := raw.At.Sub(g.lastAt)

	switch {
	case stepX < 0:
		g.dir = -1
	case stepX > 0:
		g.dir = 1
	}

	moved := stepX != 0 || stepY != 0
	switch {
	case moved && elapsed > 0:
		g.velocity = math.Hypot(stepX, stepY) / (float64(elapsed) / float64(time.Millisecond))
	case !moved && elapsed > StillWindow:
		g.velocity = 0
	}

	// lastAt marks the last movement so a resting pointer decays to zero
	g.lastX, g.lastY = raw.X, raw.Y
	if moved && elapsed > 0 {
		g.lastAt = raw.At
	}
}

func (g *Interpreter) sample(down bool) Sample {
	return Sample{
		Slot:      g.slot,
		DX:        g.lastX - g.startX,
		DY:        g.lastY - g.startY,
		Velocity:  g.velocity,
		Direction: g.dir,
		Down:      down,
	}
}

func (g *Interpreter) reset() {
	*g = Interpreter{slot: g.slot, dir: 1}
}
