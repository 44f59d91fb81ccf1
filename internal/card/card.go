package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
)

// Suits lists the four suits in pool order
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// rank bounds and face cards
const (
	Ace   = 1
	Jack  = 11
	Queen = 12
	King  = 13

	MinRank = Ace
	MaxRank = King
)

// PoolSize is the number of distinct cards in a standard deck
const PoolSize = 52

// Card is an immutable playing card identity
type Card struct {
	Suit Suit `json:"suit" yaml:"suit"`
	Rank int  `json:"rank" yaml:"rank"`
}

// Symbol returns the suit's glyph
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "•"
	}
}

// Red reports whether the suit is printed in red
func (s Suit) Red() bool {
	return s == Diamonds || s == Hearts
}

// Valid reports whether the card has a known suit and a rank in 1..13
func (c Card) Valid() bool {
	switch c.Suit {
	case Clubs, Diamonds, Hearts, Spades:
	default:
		return false
	}
	return c.Rank >= MinRank && c.Rank <= MaxRank
}

// RankLabel returns the short rank label (A, 2..10, J, Q, K)
func (c Card) RankLabel() string {
	switch c.Rank {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(c.Rank)
	}
}

func (c Card) String() string {
	return c.RankLabel() + c.Suit.Symbol()
}

// Pool returns the 52 distinct cards, ordered by suit then rank
func Pool() []Card {
	cards := make([]Card, 0, PoolSize)
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}

// Parse reads a card in the "<rank><suit letter>" form, e.g. "12h" or "as"
func Parse(s string) (Card, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card: %q", s)
	}

	var suit Suit
	switch s[len(s)-1] {
	case 'c':
		suit = Clubs
	case 'd':
		suit = Diamonds
	case 'h':
		suit = Hearts
	case 's':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit in card: %q", s)
	}

	var rank int
	switch r := s[:len(s)-1]; r {
	case "a":
		rank = Ace
	case "j":
		rank = Jack
	case "q":
		rank = Queen
	case "k":
		rank = King
	default:
		n, err := strconv.Atoi(r)
		if err != nil {
			return Card{}, fmt.Errorf("invalid rank in card %q: %w", s, err)
		}
		rank = n
	}

	c := Card{Suit: suit, Rank: rank}
	if !c.Valid() {
		return Card{}, fmt.Errorf("invalid rank in card: %q", s)
	}
	return c, nil
}
