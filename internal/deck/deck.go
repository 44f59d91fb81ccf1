package deck

import (
	"errors"
	"fmt"

	"github.com/arcanaland/cardfan/internal/card"
	"github.com/arcanaland/cardfan/internal/layout"
)

var (
	// ErrInvariantViolation is returned when dealing cannot partition the pool exactly
	ErrInvariantViolation = errors.New("deal invariant violated")
	// ErrUnknownRNG is returned for an unregistered random source name
	ErrUnknownRNG = errors.New("unknown random source")
)

// Hand is the ordered set of cards dealt to one seat
type Hand []card.Card

// Slot is one fixed position of the deck layout and its occupant
type Slot struct {
	Card  card.Card   `json:"card" yaml:"card"`
	Owner layout.Seat `json:"owner" yaml:"owner"`
}

// Deck is the fixed, dealt collection of slots. It is never mutated after Deal.
type Deck struct {
	slots   []Slot
	hands   []Hand
	perSeat int
}

// Deal partitions pool into l.Seats hands of l.PerSeat cards.
// Each draw removes a uniformly random card from the remaining pool.
func Deal(pool []card.Card, l layout.Layout, rng RNG) (*Deck, error) {
	want := l.Slots()
	if len(pool) != want {
		return nil, fmt.Errorf("%w: pool has %d cards, need %d", ErrInvariantViolation, len(pool), want)
	}

	seen := make(map[card.Card]bool, len(pool))
	for _, c := range pool {
		if seen[c] {
			return nil, fmt.Errorf("%w: duplicate card %s in pool", ErrInvariantViolation, c)
		}
		seen[c] = true
	}

	remaining := make([]card.Card, len(pool))
	copy(remaining, pool)

	d := &Deck{
		slots:   make([]Slot, 0, want),
		hands:   make([]Hand, l.Seats),
		perSeat: l.PerSeat,
	}

	for seat := 0; seat < l.Seats; seat++ {
		hand := make(Hand, 0, l.PerSeat)
		for i := 0; i < l.PerSeat; i++ {
			if len(remaining) == 0 {
				return nil, fmt.Errorf("%w: pool exhausted at seat %d card %d", ErrInvariantViolation, seat, i)
			}

			idx := rng.Intn(len(remaining))
			c := remaining[idx]
			remaining = append(remaining[:idx], remaining[idx+1:]...)

			hand = append(hand, c)
			d.slots = append(d.slots, Slot{Card: c, Owner: layout.Seat(seat)})
		}

		if len(hand) != l.PerSeat {
			return nil, fmt.Errorf("%w: seat %d has %d cards", ErrInvariantViolation, seat, len(hand))
		}
		d.hands[seat] = hand
	}

	if len(remaining) != 0 {
		return nil, fmt.Errorf("%w: %d cards left undealt", ErrInvariantViolation, len(remaining))
	}

	return d, nil
}

// Len returns the number of slots
func (d *Deck) Len() int {
	return len(d.slots)
}

// Slot returns the occupant of a slot
func (d *Deck) Slot(i int) (Slot, error) {
	if i < 0 || i >= len(d.slots) {
		return Slot{}, fmt.Errorf("%w: %d not in 0..%d", layout.ErrSlotOutOfRange, i, len(d.slots)-1)
	}
	return d.slots[i], nil
}

// Card returns the card occupying a slot
func (d *Deck) Card(i int) (card.Card, error) {
	s, err := d.Slot(i)
	if err != nil {
		return card.Card{}, err
	}
	return s.Card, nil
}

// Owner returns the seat a slot was dealt to
func (d *Deck) Owner(i int) (layout.Seat, error) {
	s, err := d.Slot(i)
	if err != nil {
		return 0, err
	}
	return s.Owner, nil
}

// Revealed reports whether a slot shows its face to the player sitting at mine
func (d *Deck) Revealed(i int, mine layout.Seat) bool {
	owner, err := d.Owner(i)
	if err != nil {
		return false
	}
	return owner == mine
}

// Hand returns a copy of the hand dealt to a seat
func (d *Deck) Hand(seat layout.Seat) Hand {
	if int(seat) < 0 || int(seat) >= len(d.hands) {
		return nil
	}
	h := make(Hand, len(d.hands[seat]))
	copy(h, d.hands[seat])
	return h
}

// Hands returns a copy of every hand in seat order
func (d *Deck) Hands() []Hand {
	hands := make([]Hand, len(d.hands))
	for i := range d.hands {
		hands[i] = d.Hand(layout.Seat(i))
	}
	return hands
}
