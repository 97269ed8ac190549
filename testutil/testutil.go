package testutil

import (
	"math/rand/v2"
	"sync"
)

// RNG is a seeded, reproducible random source safe for concurrent use.
// It drives randomized operation sequences in tests.
type RNG struct {
	mu   sync.Mutex
	seed int64
	src  *rand.PCG
	r    *rand.Rand
}

// NewRNG returns an RNG whose sequence is fully determined by seed.
func NewRNG(seed int64) *RNG {
	src := rand.NewPCG(uint64(seed), 0)
	return &RNG{seed: seed, src: src, r: rand.New(src)}
}

// Reset rewinds the sequence to its start.
func (g *RNG) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.src.Seed(uint64(g.seed), 0)
}

// Seed returns the seed the RNG was created with.
func (g *RNG) Seed() int64 {
	return g.seed
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (g *RNG) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.IntN(n)
}

// Int64 returns a non-negative value.
func (g *RNG) Int64() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Int64()
}

// Int64s returns n non-negative values drawn under a single lock.
func (g *RNG) Int64s(n int) []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int64, n)
	for i := range out {
		out[i] = g.r.Int64()
	}
	return out
}
