package hydrology

import "math/rand"

// RNG is the seedable per-insertion jitter source required by §6: callers
// fix the seed for reproducibility, and a single source is shared by one
// container generation (C3/C4's heap keys).
type RNG struct {
	r *rand.Rand
}

// NewRNG returns an RNG seeded deterministically from seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform value in [0, 1), used to break height ties in
// the flood-fill heap key.
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}
