package game

import (
	"lukechampine.com/frand"
)

// Randomizer is the only source of randomness the game uses. *frand.RNG
// satisfies it. A Randomizer is not safe for concurrent use; give every
// goroutine its own.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandomizer returns an RNG seeded from system entropy.
func NewRandomizer() *frand.RNG {
	return frand.New()
}

// NewSeededRandomizer returns a reproducible RNG. The same seed always
// produces the same sequence of games.
func NewSeededRandomizer(seed Seed) *frand.RNG {
	return frand.NewCustom(seed[:], 1024, 12)
}
