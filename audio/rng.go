package audio

import (
	"math/rand"
)

// LCG constants (Numerical Recipes), modulus is the uint32 wrap
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
	lcgModulus           = 4294967296.0 // 2^32
)

// SeededRandom is a deterministic linear congruential generator
// Not safe for concurrent use; each synthesis stage owns one
type SeededRandom struct {
	current uint32
}

// NewSeededRandom creates a generator starting from seed
func NewSeededRandom(seed uint32) *SeededRandom {
	return &SeededRandom{current: seed}
}

// Random advances the state and returns a value in [0, 1)
func (r *SeededRandom) Random() float64 {
	r.current = r.current*lcgMultiplier + lcgIncrement
	return float64(r.current) / lcgModulus
}

// Intn returns floor(Random()*n), 0 when n <= 0 (no draw is made)
func (r *SeededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(r.Random() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// State returns the current internal state
func (r *SeededRandom) State() uint32 {
	return r.current
}

// Choice returns a pseudo-randomly selected element, advancing r once
func Choice[T any](r *SeededRandom, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.Intn(len(items))], true
}

// NewSeed draws a fresh seed from ambient randomness
// For callers that own seed assignment; synthesis never calls this
func NewSeed() uint32 {
	return rand.Uint32()
}
