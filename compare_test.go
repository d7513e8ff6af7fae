package hstrat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/policy"
	"github.com/hupe1980/hstrat/testutil"
)

func TestScenarios(t *testing.T) {
	t.Run("identical lineage", func(t *testing.T) {
		c0 := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(1), hstrat.WithoutInitialStratum())
		a := c0.MakeDescendant().MakeDescendant()
		b := a.Clone()

		lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
		require.True(t, ok)
		assert.Equal(t, uint64(1), lo)
		assert.Equal(t, uint64(2), hi)

		u, ok := hstrat.CalcRankOfMRCAUncertainty(a, b)
		require.True(t, ok)
		assert.Equal(t, uint64(0), u)

		_, ok = hstrat.CalcRankOfFirstDisparity(a, b)
		assert.False(t, ok)
	})

	t.Run("immediate divergence", func(t *testing.T) {
		c0 := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(2))
		a := c0.MakeDescendant()
		b := c0.MakeDescendant()

		lc, ok := hstrat.CalcRankOfLastCommonality(a, b)
		require.True(t, ok)
		assert.Equal(t, uint64(0), lc)

		fd, ok := hstrat.CalcRankOfFirstDisparity(a, b)
		require.True(t, ok)
		assert.Equal(t, uint64(1), fd)

		lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
		require.True(t, ok)
		assert.Equal(t, [2]uint64{0, 1}, [2]uint64{lo, hi})
	})

	t.Run("nominal resolution", func(t *testing.T) {
		c0 := hstrat.NewColumn(policy.Nominal(), hstrat.WithSeed(3))
		a, b := c0.Clone(), c0.Clone()
		a.DepositStrata(20)
		b.DepositStrata(20)

		assert.Equal(t, 2, a.NumStrataRetained())
		assert.Equal(t, 2, b.NumStrataRetained())

		lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
		require.True(t, ok)
		assert.Equal(t, [2]uint64{0, 20}, [2]uint64{lo, hi})

		u, ok := hstrat.CalcRankOfMRCAUncertainty(a, b)
		require.True(t, ok)
		assert.Equal(t, uint64(19), u)
	})

	t.Run("fixed resolution", func(t *testing.T) {
		a, b := testutil.Diverged(policy.FixedResolution(5), 17, 6, 6, 4)

		assert.Equal(t, []uint64{0, 5, 10, 15, 20, 22}, testutil.Ranks(a))
		assert.Equal(t, []uint64{0, 5, 10, 15, 20, 22}, testutil.Ranks(b))

		lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
		require.True(t, ok)
		assert.Equal(t, [2]uint64{15, 20}, [2]uint64{lo, hi})

		u, _ := hstrat.CalcRankOfMRCAUncertainty(a, b)
		assert.Less(t, u, uint64(5))
	})

	t.Run("disjoint lineages", func(t *testing.T) {
		a := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(10))
		b := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(11))
		a.DepositStrata(9)
		b.DepositStrata(9)

		fd, ok := hstrat.CalcRankOfFirstDisparity(a, b)
		require.True(t, ok)
		assert.Equal(t, uint64(0), fd)

		_, _, ok = hstrat.CalcRankOfMRCABounds(a, b)
		assert.False(t, ok)
		assert.False(t, hstrat.HasAnyCommonAncestor(a, b))

		_, ok = hstrat.CalcRankOfLastCommonality(a, b)
		assert.False(t, ok)
		_, _, ok = hstrat.CalcRanksSinceMRCABounds(a, b)
		assert.False(t, ok)
	})

	t.Run("unequal depths", func(t *testing.T) {
		a := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(5))
		a.DepositStrata(99)
		b := a.Clone()
		b.DepositStrata(2)
		a.DepositStratum()

		lc, _ := hstrat.CalcRankOfLastCommonality(a, b)
		assert.Equal(t, uint64(99), lc)
		fd, _ := hstrat.CalcRankOfFirstDisparity(a, b)
		assert.Equal(t, uint64(100), fd)

		lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
		require.True(t, ok)
		assert.Equal(t, [2]uint64{99, 100}, [2]uint64{lo, hi})

		slo, shi, ok := hstrat.CalcRanksSinceMRCABounds(a, b)
		require.True(t, ok)
		assert.Equal(t, [2]int64{1, 2}, [2]int64{slo, shi})

		since, ok := hstrat.CalcRanksSinceLastCommonality(b, a)
		require.True(t, ok)
		assert.Equal(t, uint64(2), since)

		sfd, ok := hstrat.CalcRanksSinceFirstDisparity(a, b)
		require.True(t, ok)
		assert.Equal(t, int64(0), sfd)
	})
}

func TestAncestorDescendant(t *testing.T) {
	a, b := testutil.Diverged(policy.Perfect(), 12, 0, 3, 8)

	fd, ok := hstrat.CalcRankOfFirstDisparity(a, b)
	require.True(t, ok)
	assert.Equal(t, uint64(12), fd)

	sfd, ok := hstrat.CalcRanksSinceFirstDisparity(a, b)
	require.True(t, ok)
	assert.Equal(t, int64(-1), sfd)

	assert.True(t, hstrat.HasAnyCommonAncestor(a, b))

	s, ok := hstrat.GetLastCommonStratum(b, a)
	require.True(t, ok)
	r, _ := s.Rank()
	assert.Equal(t, uint64(11), r)
	assert.Equal(t, a.DifferentiaAtColumnIndex(11), s.Differentia)
}

// TestMRCABoundsSoundness checks that the reported interval contains the
// true MRCA and is no wider than the policy predicts.
func TestMRCABoundsSoundness(t *testing.T) {
	policies := []policy.Policy{
		policy.Perfect(),
		policy.Nominal(),
		policy.FixedResolution(7),
		policy.DepthProportional(4),
		policy.DepthProportionalTapered(4),
		policy.RecencyProportional(3),
		policy.RecencyProportionalCurbed(12),
		policy.GeomSeqNthRoot(3),
		policy.GeomSeqNthRootTapered(3),
		policy.Stochastic(5),
	}

	rng := testutil.NewRNG(77)

	for _, p := range policies {
		t.Run(p.Spec().String(), func(t *testing.T) {
			for range 40 {
				ancestor := 1 + rng.IntN(400)
				extA, extB := rng.IntN(150), rng.IntN(150)
				a, b := testutil.Diverged(p, ancestor, extA, extB, rng.Uint64())
				mrca := uint64(ancestor - 1)

				lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
				require.True(t, ok)
				require.LessOrEqual(t, lo, mrca)
				require.Less(t, mrca, hi)

				bound := p.UpperBoundMRCAUncertainty(a.NumStrataDeposited(), b.NumStrataDeposited(), mrca)
				require.LessOrEqual(t, hi-lo-1, bound, "ancestor=%d a=%d b=%d", ancestor, extA, extB)
				require.LessOrEqual(t, hi-lo-1, p.UpperBoundMRCAUncertainty(
					a.NumStrataDeposited(), b.NumStrataDeposited(), policy.UnknownRank))

				for _, pair := range [][2]*hstrat.Column{{a, b}, {b, a}} {
					since := int64(pair[0].NumStrataDeposited()) - 1 - int64(mrca)
					glo, ghi, ok := hstrat.CalcRanksSinceMRCABounds(pair[0], pair[1])
					require.True(t, ok)
					require.GreaterOrEqual(t, glo, int64(0))
					require.LessOrEqual(t, glo, since)
					require.Greater(t, ghi, since)
				}

				// specimens compare like their columns
				slo, shi, _ := hstrat.CalcRankOfMRCABounds(a.Specimen(), b)
				require.Equal(t, [2]uint64{lo, hi}, [2]uint64{slo, shi})
			}
		})
	}
}

func TestWidthMismatchPanics(t *testing.T) {
	a := hstrat.NewColumn(policy.Perfect(), hstrat.WithDifferentiaBitWidth(8))
	b := hstrat.NewColumn(policy.Perfect(), hstrat.WithDifferentiaBitWidth(16))

	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(error)
		require.True(t, ok)

		var wm *hstrat.ErrWidthMismatch
		require.True(t, errors.As(err, &wm))
		assert.Equal(t, 8, wm.A)
		assert.Equal(t, 16, wm.B)
	}()

	hstrat.CalcRankOfLastCommonality(a, b)
}

func TestCompare(t *testing.T) {
	a, b := testutil.Diverged(policy.FixedResolution(5), 17, 6, 6, 4)
	c := hstrat.Compare(a, b)

	assert.True(t, c.HasCommonAncestor)
	assert.True(t, c.HasMRCABounds)
	assert.Equal(t, uint64(15), c.MRCALower)
	assert.Equal(t, uint64(20), c.MRCAUpper)
	assert.Equal(t, uint64(4), c.MRCAUncertainty)
	assert.Equal(t, uint64(15), c.LastCommonality)
	assert.Equal(t, uint64(20), c.FirstDisparity)

	x := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(1))
	y := hstrat.NewColumn(policy.Perfect(), hstrat.WithSeed(2))
	c = hstrat.Compare(x, y)
	assert.False(t, c.HasCommonAncestor)
	assert.False(t, c.HasMRCABounds)
}

func TestSpuriousCollision(t *testing.T) {
	assert.Equal(t, 0.5, hstrat.CalcProbabilityOfSpuriousCollision(1))
	assert.Equal(t, 1.0/256, hstrat.CalcProbabilityOfSpuriousCollision(8))
}
