// Package rng provides the single sequential random source used by generation.
//
// Every generation call receives an *RNG explicitly; nothing in the module reads
// the global math/rand state, so a seed fully determines a generated world.
package rng

import "math/rand"

// Source is the minimal random source generation needs.
//
// Invariant: Intn(n) is in [0, n) for n > 0; Float64 is in [0, 1).
type Source interface {
	Intn(n int) int
	Float64() float64
}

// RNG is a seeded random stream.
type RNG struct {
	r    *rand.Rand
	seed int64
}

// New returns an RNG seeded with seed.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed the stream was created with.
func (g *RNG) Seed() int64 {
	return g.seed
}

// Intn returns a value in [0, n). Panics if n <= 0.
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return g.r.Intn(n)
}

// Float64 returns a value in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// UniformInt returns a value in [lo, hi], both inclusive. If hi < lo the
// bounds are swapped.
func (g *RNG) UniformInt(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + g.r.Intn(hi-lo+1)
}

// UniformFloat returns a value in [0, 1).
func (g *RNG) UniformFloat() float64 {
	return g.r.Float64()
}

// Chance returns true with probability p. p <= 0 never succeeds, p >= 1 always does.
func (g *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.r.Float64() < p
}

// Read fills b with random bytes from the stream. Satisfies io.Reader so
// identifiers can be derived deterministically from the seed.
func (g *RNG) Read(b []byte) (int, error) {
	return g.r.Read(b)
}

// Choice returns a uniformly chosen element of items. ok is false for an empty slice.
func Choice[T any](g *RNG, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[g.Intn(len(items))], true
}

// WeightedChoice picks one element of items with probability proportional to
// its weight. Non-positive weights are never picked; ok is false when no weight
// is positive.
func WeightedChoice[T any](g *RNG, items []T, weight func(T) int) (item T, ok bool) {
	total := 0
	for _, it := range items {
		if w := weight(it); w > 0 {
			total += w
		}
	}
	if total == 0 {
		return item, false
	}
	roll := g.Intn(total)
	for _, it := range items {
		w := weight(it)
		if w <= 0 {
			continue
		}
		if roll < w {
			return it, true
		}
		roll -= w
	}
	return item, false
}

// Shuffle permutes items in place.
func Shuffle[T any](g *RNG, items []T) {
	g.r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
