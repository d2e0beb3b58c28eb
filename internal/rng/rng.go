// Package rng supplies the seedable random source LooseMAC's core engine
// draws from when a node's default-slot queue is exhausted and it must
// pick a fresh slot at random. Wraps the standard library directly,
// rather than reaching for a third-party randomness source.
package rng

import "math/rand"

// Source is a seedable random source satisfying loosemac.RNG.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded with seed. The same seed always produces
// the same sequence of draws, making a simulation run reproducible.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}
