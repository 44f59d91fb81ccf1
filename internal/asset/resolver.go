// Package asset maps cards to image references and finds those images on disk.
package asset

import (
	"fmt"

	"github.com/arcanaland/cardfan/internal/card"
)

// BackRef is the reference shared by every face-down card
const BackRef = "back"

// Resolver maps a card to the image a viewer should see
type Resolver interface {
	Resolve(c card.Card, mine bool) string
}

// Refs is the stock resolver: "{suit}_{rank}" for the viewer's own cards,
// BackRef for everyone else's
type Refs struct{}

// Resolve returns the image reference for c
func (Refs) Resolve(c card.Card, mine bool) string {
	if !mine {
		return BackRef
	}
	return FaceRef(c)
}

// FaceRef returns the face image reference of a card
func FaceRef(c card.Card) string {
	return fmt.Sprintf("%s_%d", c.Suit, c.Rank)
}

// FaceRefs returns every face reference in pool order
func FaceRefs() []string {
	pool := card.Pool()
	refs := make([]string, len(pool))
	for i, c := range pool {
		refs[i] = FaceRef(c)
	}
	return refs
}
