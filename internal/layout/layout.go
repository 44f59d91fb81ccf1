// Package layout computes where each deck slot rests around the table.
//
// Coordinates are pixels relative to the viewport centre, y pointing down.
package layout

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSlotOutOfRange is returned for a slot index outside the deck
	ErrSlotOutOfRange = errors.New("slot out of range")
	// ErrUnsupportedTurn is returned for a seat rotation that has no formula yet
	ErrUnsupportedTurn = errors.New("unsupported turn")
	// ErrInvalidViewport is returned when the viewport has no area
	ErrInvalidViewport = errors.New("invalid viewport")
)

// default table shape
const (
	DefaultSeats   = 4
	DefaultPerSeat = 13

	// ScreenMargin lifts the bottom fan off the screen edge
	ScreenMargin = 80
	// FanAngle is the rotation step between neighbouring cards, in degrees
	FanAngle = 5
)

// Pose is a slot's visual placement at an instant
type Pose struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	Scale    float64 `json:"scale" yaml:"scale"`
}

// Viewport is the drawable area in pixels
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Validate returns ErrInvalidViewport if either dimension is not positive
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, v.Width, v.Height)
	}
	return nil
}

// Seat identifies a screen edge
type Seat int

// seats in deal order
const (
	Bottom Seat = iota
	Right
	Top
	Left
)

func (s Seat) String() string {
	switch s {
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Top:
		return "top"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("seat(%d)", int(s))
	}
}

// axis along which a seat's fan spreads
type axis int

const (
	horizontal axis = iota
	vertical
)

// geometry is the affine rule for one seat. The fan spreads along the
// axis by spread*d; the other coordinate sits at edge*half-dimension minus
// margin; rotation is spin*d*FanAngle + base.
type geometry struct {
	along  axis
	spread float64
	edge   float64
	margin float64
	spin   float64
	base   float64
}

// seatTable is indexed by Seat
var seatTable = [...]geometry{
	Bottom: {along: horizontal, spread: 35, edge: 1, margin: ScreenMargin, spin: 1, base: 0},
	Right:  {along: vertical, spread: 15, edge: 1, spin: -1, base: -90},
	Top:    {along: horizontal, spread: 25, edge: -1, spin: -1, base: -180},
	Left:   {along: vertical, spread: 15, edge: -1, spin: 1, base: -90},
}

func (g geometry) pose(diff float64, vp Viewport) Pose {
	p := Pose{
		Rotation: g.spin*diff*FanAngle + g.base,
		Scale:    1,
	}
	if g.along == horizontal {
		p.X = diff * g.spread
		p.Y = g.edge*vp.Height/2 - g.margin
	} else {
		p.X = g.edge*vp.Width/2 - g.margin
		p.Y = diff * g.spread
	}
	return p
}

// Layout maps slots to rest poses
type Layout struct {
	Seats   int
	PerSeat int
	// Turn rotates which seat is dealt the first bucket. Only 0 is defined.
	Turn int
}

// New returns the standard four-seat, thirteen-card layout
func New() Layout {
	return Layout{Seats: DefaultSeats, PerSeat: DefaultPerSeat}
}

// Slots returns the number of slots the layout places
func (l Layout) Slots() int {
	return l.Seats * l.PerSeat
}

// SeatOf returns a slot's seat bucket and its position within that seat
func (l Layout) SeatOf(slot int) (Seat, int, error) {
	if slot < 0 || slot >= l.Slots() {
		return 0, 0, fmt.Errorf("%w: %d not in 0..%d", ErrSlotOutOfRange, slot, l.Slots()-1)
	}
	return Seat(slot / l.PerSeat), slot % l.PerSeat, nil
}

// DiffFromCenter returns how far a position sits from the centre of its fan
func (l Layout) DiffFromCenter(position int) int {
	return position - int(math.Ceil(float64(l.PerSeat)/2))
}

// RestPose returns the settled placement of a slot for the given viewport
func (l Layout) RestPose(slot int, vp Viewport) (Pose, error) {
	if l.Turn != 0 {
		return Pose{}, fmt.Errorf("%w: %d", ErrUnsupportedTurn, l.Turn)
	}
	if l.Seats > len(seatTable) {
		return Pose{}, fmt.Errorf("%w: layout has %d seats, only %d are defined",
			ErrSlotOutOfRange, l.Seats, len(seatTable))
	}

	seat, position, err := l.SeatOf(slot)
	if err != nil {
		return Pose{}, err
	}

	diff := float64(l.DiffFromCenter(position))
	return seatTable[seat].pose(diff, vp), nil
}

// RestPoses returns the rest pose of every slot in slot order
func (l Layout) RestPoses(vp Viewport) ([]Pose, error) {
	poses := make([]Pose, l.Slots())
	for i := range poses {
		p, err := l.RestPose(i, vp)
		if err != nil {
			return nil, err
		}
		poses[i] = p
	}
	return poses, nil
}
