package game

import "math/rand/v2"

// Rand is the random source the rules draw from. *rand.Rand satisfies it;
// tests substitute a scripted sequence.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a seeded PCG source so a session can be replayed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
