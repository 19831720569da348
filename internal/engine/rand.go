package engine

import (
	"math/rand/v2"

	"lukechampine.com/frand"
)

// Source is the uniform random primitive the engine samples from.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// CryptoSource draws from a fast CSPRNG seeded by the operating system.
// It is the default Source and is safe for concurrent use.
type CryptoSource struct{}

func (CryptoSource) Float64() float64 { return frand.Float64() }

func (CryptoSource) IntN(n int) int { return frand.Intn(n) }

// NewSeededSource returns a reproducible PCG-backed Source.
// The same seed always replays the same sequence of draws.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, 0))
}
