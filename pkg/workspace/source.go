package workspace

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source supplies uniform random integers in [0, n).
//
// *rand.Rand from math/rand/v2 satisfies Source. Tests inject fixed
// sequences to make secrets and auto-fill deterministic.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG-backed Source seeded with seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

func randomDigit(src Source) Digit {
	return Digit(src.IntN(MaxDigit + 1))
}
