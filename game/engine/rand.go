package engine

import (
	"time"

	"golang.org/x/exp/rand"
)

// Rand is the random source used for tile colors and card draws
type Rand interface {
	Intn(n int) int
}

// NewRand returns a seeded random source. Equal seeds replay equal games.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSeededRand returns a random source seeded from the clock
func NewTimeSeededRand() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}
