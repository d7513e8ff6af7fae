package testutil

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/policy"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Generator returns a differentia generator seeded from this RNG.
func (r *RNG) Generator() *differentia.Generator {
	return differentia.NewGenerator(r.Uint64())
}

// Diverged builds a common ancestor holding ancestorDepth strata, then
// returns two descendants that deposit extraA and extraB further strata.
// The MRCA of the pair sits at rank ancestorDepth-1.
func Diverged(p policy.Policy, ancestorDepth, extraA, extraB int, seed uint64, optFns ...hstrat.Option) (a, b *hstrat.Column) {
	g := differentia.NewGenerator(seed)

	opts := append(slices.Clone(optFns), hstrat.WithGenerator(g))
	ancestor := hstrat.NewColumn(p, opts...)
	ancestor.DepositStrata(ancestorDepth - 1)

	a = ancestor.Clone()
	b = ancestor.Clone()
	a.DepositStrata(extraA)
	b.DepositStrata(extraB)

	return a, b
}

// Population evolves a fixed-size asexual population for the given number of
// generations. Each generation every slot is replaced by a descendant of a
// uniformly chosen parent.
func Population(p policy.Policy, size, generations int, rng *RNG, optFns ...hstrat.Option) []*hstrat.Column {
	opts := append(slices.Clone(optFns), hstrat.WithGenerator(rng.Generator()))
	founder := hstrat.NewColumn(p, opts...)

	pop := make([]*hstrat.Column, size)
	for i := range pop {
		pop[i] = founder.Clone()
	}

	for range generations {
		next := make([]*hstrat.Column, size)
		for i := range next {
			next[i] = pop[rng.IntN(size)].MakeDescendant()
		}
		pop = next
	}

	return pop
}

// Ranks collects the retained ranks of s.
func Ranks(s hstrat.Strata) []uint64 {
	return slices.Collect(s.RetainedRanks())
}
