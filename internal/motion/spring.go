package motion

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/arcanaland/cardfan/internal/layout"
)

// ErrInvalidSpring is returned when spring settings are unusable
var ErrInvalidSpring = errors.New("invalid spring config")

// SpringConfig is a tension/friction pair on a unit mass
type SpringConfig struct {
	Tension  float64 `toml:"tension" yaml:"tension"`
	Friction float64 `toml:"friction" yaml:"friction"`
}

// Springs holds the spring used for each kind of transition
type Springs struct {
	Entrance SpringConfig `toml:"entrance" yaml:"entrance"`
	Drag     SpringConfig `toml:"drag" yaml:"drag"`
	Settle   SpringConfig `toml:"settle" yaml:"settle"`
	Dismiss  SpringConfig `toml:"dismiss" yaml:"dismiss"`
}

// DefaultSprings returns the stock tuning
func DefaultSprings() Springs {
	return Springs{
		Entrance: SpringConfig{Tension: 170, Friction: 26},
		Drag:     SpringConfig{Tension: 800, Friction: 50},
		Settle:   SpringConfig{Tension: 500, Friction: 50},
		Dismiss:  SpringConfig{Tension: 200, Friction: 50},
	}
}

// Validate checks every spring is positive and that a drag responds faster
// than a dismissed card drifts away
func (s Springs) Validate() error {
	named := []struct {
		name string
		cfg  SpringConfig
	}{
		{"entrance", s.Entrance},
		{"drag", s.Drag},
		{"settle", s.Settle},
		{"dismiss", s.Dismiss},
	}
	for _, n := range named {
		if n.cfg.Tension <= 0 || n.cfg.Friction <= 0 {
			return fmt.Errorf("%w: %s spring needs positive tension and friction, got %+v",
				ErrInvalidSpring, n.name, n.cfg)
		}
	}
	if s.Drag.Tension <= s.Dismiss.Tension {
		return fmt.Errorf("%w: drag tension %g must exceed dismiss tension %g",
			ErrInvalidSpring, s.Drag.Tension, s.Dismiss.Tension)
	}
	return nil
}

// AngularFrequency is sqrt(k/m) for a unit mass
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Tension)
}

// DampingRatio is c / (2*sqrt(k*m)) for a unit mass
func (c SpringConfig) DampingRatio() float64 {
	return c.Friction / (2 * math.Sqrt(c.Tension))
}

func (c SpringConfig) build(step time.Duration) harmonica.Spring {
	return harmonica.NewSpring(step.Seconds(), c.AngularFrequency(), c.DampingRatio())
}

// precision below which a channel counts as settled
const (
	positionPrecision = 0.01
	scalePrecision    = 0.001
)

// velocity of each pose channel
type velocity struct {
	X, Y, Rotation, Scale float64
}

// ease advances pose one step toward target; it reports true once every
// channel has come to rest, in which case pose is snapped onto target
func ease(s harmonica.Spring, pose *layout.Pose, vel *velocity, target layout.Pose) bool {
	pose.X, vel.X = s.Update(pose.X, vel.X, target.X)
	pose.Y, vel.Y = s.Update(pose.Y, vel.Y, target.Y)
	pose.Rotation, vel.Rotation = s.Update(pose.Rotation, vel.Rotation, target.Rotation)
	pose.Scale, vel.Scale = s.Update(pose.Scale, vel.Scale, target.Scale)

	if !near(pose.X, target.X, vel.X, positionPrecision) ||
		!near(pose.Y, target.Y, vel.Y, positionPrecision) ||
		!near(pose.Rotation, target.Rotation, vel.Rotation, positionPrecision) ||
		!near(pose.Scale, target.Scale, vel.Scale, scalePrecision) {
		return false
	}

	*pose = target
	*vel = velocity{}
	return true
}

func near(pos, target, vel, precision float64) bool {
	return math.Abs(pos-target) < precision && math.Abs(vel) < precision
}
