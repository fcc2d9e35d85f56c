// Package entropy provides the run-scoped random source for world generation.
// One RNG is seeded per run so a fixed seed reproduces the same world.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"time"
)

// RNG is a deterministic PCG generator for Bernoulli trials and shuffles.
type RNG struct {
	r *mrand.Rand
}

// NewRNG creates a generator for the given run seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Chance returns true with probability p. p <= 0 never fires; p >= 1 always does.
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.r.Float64() < p
}

// Shuffle permutes n elements uniformly using the provided swap function.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.r.Shuffle(n, swap)
}

// Float returns a random float64 in [0, 1).
func (r *RNG) Float() float64 {
	return r.r.Float64()
}

// ClockSeed derives a run seed from wall-clock seconds. Never returns 0,
// which callers reserve for "pick a seed for me".
func ClockSeed() uint64 {
	seed := uint64(time.Now().Unix())
	if seed == 0 {
		return 1
	}
	return seed
}

// CryptoSeed returns a seed from crypto/rand, falling back to the clock
// if the system source fails.
func CryptoSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ClockSeed()
	}
	seed := binary.LittleEndian.Uint64(buf[:])
	if seed == 0 {
		return ClockSeed()
	}
	return seed
}
