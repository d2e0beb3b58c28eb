package loosemac

import "math/rand"

// RNG is the random source getNewSlot draws from when a node's
// default-slot queue is exhausted. Abstracted behind an interface so a
// run can be made reproducible (internal/rng.Source) or driven from a
// fixed sequence in tests.
type RNG interface {
	Intn(n int) int
}

// defaultRNG wraps the standard library's global source directly, the
// same way the teacher seeds and draws from math/rand rather than
// reaching for a third-party randomness library.
type defaultRNG struct{}

func (defaultRNG) Intn(n int) int {
	return rand.Intn(n)
}
