package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/policy"
)

func TestRNG(t *testing.T) {
	a := NewRNG(5)
	b := NewRNG(5)
	assert.Equal(t, a.Uint64(), b.Uint64())
	assert.Equal(t, uint64(5), a.Seed())

	first := a.IntN(1000)
	a.Reset()
	a.Uint64()
	assert.Equal(t, first, a.IntN(1000))
}

func TestDiverged(t *testing.T) {
	a, b := Diverged(policy.Perfect(), 30, 4, 7, 1)

	assert.Equal(t, uint64(34), a.NumStrataDeposited())
	assert.Equal(t, uint64(37), b.NumStrataDeposited())

	lc, ok := hstrat.CalcRankOfLastCommonality(a, b)
	assert.True(t, ok)
	assert.Equal(t, uint64(29), lc)
}

func TestPopulation(t *testing.T) {
	pop := Population(policy.FixedResolution(3), 8, 12, NewRNG(2))

	assert.Len(t, pop, 8)
	for _, c := range pop {
		assert.Equal(t, uint64(13), c.NumStrataDeposited())
		assert.Equal(t, []uint64{0, 3, 6, 9, 12}, Ranks(c))
	}
	for _, c := range pop[1:] {
		assert.True(t, hstrat.HasAnyCommonAncestor(pop[0], c))
	}
}
