package deck

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
)

// RNG provides a simple random number
type RNG interface {
	// Intn returns a random number in [0, n)
	Intn(n int) int
}

// Default delegates to math/rand/v2, which is seeded once per process
type Default struct{}

// Intn returns a random number in [0, n)
func (Default) Intn(n int) int { return mrand.IntN(n) }

// Crypto wraps the crypto/rand library
type Crypto struct{}

// Intn returns a random number in [0, n)
func (Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}

// NewRNG returns the generator registered under name ("", "default" or "crypto")
func NewRNG(name string) (RNG, error) {
	switch name {
	case "", "default":
		return Default{}, nil
	case "crypto":
		return Crypto{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRNG, name)
	}
}
