package policy

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPolicies() []Policy {
	return []Policy{
		Perfect(),
		Nominal(),
		FixedResolution(1),
		FixedResolution(5),
		DepthProportional(1),
		DepthProportional(3),
		DepthProportionalTapered(1),
		DepthProportionalTapered(4),
		RecencyProportional(0),
		RecencyProportional(2),
		RecencyProportionalCurbed(8),
		RecencyProportionalCurbed(20),
		GeomSeqNthRoot(1),
		GeomSeqNthRoot(3),
		GeomSeqNthRootTapered(2),
		Stochastic(7),
	}
}

// TestIncrementalRetention replays the column deposit loop against every
// policy and checks the result against the policy's own enumeration.
func TestIncrementalRetention(t *testing.T) {
	const depth = 700

	for _, p := range allPolicies() {
		t.Run(p.Spec().String(), func(t *testing.T) {
			var retained []uint64

			for n := uint64(0); n < depth; n++ {
				condemned := slices.Collect(p.Condemn(
					func(yield func(uint64) bool) {
						for _, r := range retained {
							if !yield(r) {
								return
							}
						}
						yield(n)
					}, n+1))

				require.NotContains(t, condemned, uint64(0))
				require.NotContains(t, condemned, n)

				retained = slices.DeleteFunc(retained, func(r uint64) bool {
					return slices.Contains(condemned, r)
				})
				retained = append(retained, n)

				after := n + 1
				require.Empty(t, cmp.Diff(slices.Collect(p.RetainedRanks(after)), retained), "n=%d", after)
				require.Equal(t, uint64(0), retained[0])
				require.Equal(t, n, retained[len(retained)-1])
				require.True(t, slices.IsSorted(retained))
				require.LessOrEqual(t, uint64(len(retained)), p.UpperBoundRetained(after), "n=%d", after)

				for _, r := range retained {
					require.True(t, p.Retain(r, after), "rank %d n=%d", r, after)
				}

				if p.HasClosedForm() {
					for i, r := range retained {
						got, ok := p.RankAtColumnIndex(uint64(i), after)
						require.True(t, ok)
						require.Equal(t, r, got, "index %d n=%d", i, after)
					}
					_, ok := p.RankAtColumnIndex(uint64(len(retained)), after)
					require.False(t, ok)
				}
			}
		})
	}
}

func TestRetainedRanks(t *testing.T) {
	tests := []struct {
		policy Policy
		n      uint64
		want   []uint64
	}{
		{Perfect(), 4, []uint64{0, 1, 2, 3}},
		{Nominal(), 1, []uint64{0}},
		{Nominal(), 21, []uint64{0, 20}},
		{FixedResolution(5), 23, []uint64{0, 5, 10, 15, 20, 22}},
		{FixedResolution(5), 21, []uint64{0, 5, 10, 15, 20}},
		{DepthProportional(2), 23, []uint64{0, 8, 16, 22}},
		{DepthProportionalTapered(2), 23, []uint64{0, 8, 16, 20, 22}},
		{DepthProportionalTapered(3), 100, []uint64{0, 32, 48, 64, 80, 96, 99}},
		{RecencyProportional(0), 20, []uint64{0, 8, 12, 16, 18, 19}},
		{RecencyProportional(1), 30, []uint64{0, 8, 12, 16, 18, 20, 22, 24, 25, 26, 27, 28, 29}},
		{RecencyProportionalCurbed(8), 100, []uint64{0, 64, 96, 99}},
		{RecencyProportionalCurbed(8), 1000, []uint64{0, 512, 768, 999}},
		{RecencyProportionalCurbed(12), 500, []uint64{0, 256, 384, 448, 480, 488, 492, 496, 498, 499}},
		{GeomSeqNthRoot(2), 100, []uint64{0, 32, 64, 92, 96, 99}},
		{GeomSeqNthRootTapered(2), 100, []uint64{0, 32, 64, 80, 92, 94, 96, 98, 99}},
		{GeomSeqNthRoot(3), 1000, []uint64{0, 256, 512, 768, 928, 960, 992, 996, 999}},
	}

	for _, tt := range tests {
		t.Run(tt.policy.Spec().String(), func(t *testing.T) {
			got := slices.Collect(tt.policy.RetainedRanks(tt.n))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, uint64(len(tt.want)), tt.policy.UpperBoundRetained(tt.n))

			for r := range tt.n {
				assert.Equal(t, slices.Contains(tt.want, r), tt.policy.Retain(r, tt.n), "rank %d", r)
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		for _, p := range allPolicies() {
			assert.Empty(t, slices.Collect(p.RetainedRanks(0)), p.Spec().String())
			assert.Equal(t, uint64(0), p.UpperBoundRetained(0))
		}
	})
}

func TestSizeBounds(t *testing.T) {
	t.Run("depth proportional", func(t *testing.T) {
		for _, res := range []uint64{1, 2, 5} {
			p := DepthProportional(res)
			for n := uint64(1); n < 3000; n++ {
				require.LessOrEqual(t, p.UpperBoundRetained(n), 2*res+2)
			}
		}
	})

	t.Run("tapered fills capacity", func(t *testing.T) {
		for _, res := range []uint64{1, 2, 3, 8} {
			p := DepthProportionalTapered(res)
			for n := 2 * res; n < 2000; n++ {
				c := p.UpperBoundRetained(n)
				require.True(t, c == 2*res || c == 2*res+1, "R=%d n=%d count=%d", res, n, c)
			}
		}
	})

	t.Run("curbed never exceeds curb", func(t *testing.T) {
		for _, curb := range []uint64{8, 9, 12, 16, 30} {
			p := RecencyProportionalCurbed(curb)
			for n := uint64(1); n < 4000; n += 3 {
				require.LessOrEqual(t, p.UpperBoundRetained(n), curb, "curb=%d n=%d", curb, n)
			}
		}
	})

	t.Run("recency bound is monotone", func(t *testing.T) {
		for _, res := range []uint64{0, 1, 3} {
			p := RecencyProportional(res)
			prev := uint64(0)
			for n := uint64(1); n < 3000; n++ {
				b := recencySizeBound(n, res)
				require.GreaterOrEqual(t, b, prev)
				require.LessOrEqual(t, p.UpperBoundRetained(n), b)
				prev = b
			}
		}
	})
}

func TestUpperBoundMRCAUncertainty(t *testing.T) {
	assert.Equal(t, uint64(0), Perfect().UpperBoundMRCAUncertainty(10, 20, 3))
	assert.Equal(t, uint64(20), Nominal().UpperBoundMRCAUncertainty(21, 21, UnknownRank))
	assert.Equal(t, uint64(0), Nominal().UpperBoundMRCAUncertainty(0, 0, UnknownRank))
	assert.Equal(t, uint64(4), FixedResolution(5).UpperBoundMRCAUncertainty(23, 23, 17))
	assert.Equal(t, uint64(7), DepthProportional(2).UpperBoundMRCAUncertainty(23, 10, 3))
	assert.Equal(t, uint64(31), DepthProportionalTapered(3).UpperBoundMRCAUncertainty(100, 100, 50))
	assert.Equal(t, uint64(99), Stochastic(1).UpperBoundMRCAUncertainty(100, 3, 1))

	rec := RecencyProportional(1)
	assert.Equal(t, uint64(3), rec.UpperBoundMRCAUncertainty(30, 30, 10))
	assert.Equal(t, uint64(7), rec.UpperBoundMRCAUncertainty(30, 30, 5))
	assert.Equal(t, uint64(0), rec.UpperBoundMRCAUncertainty(30, 30, 29))
	assert.Equal(t, uint64(7), rec.UpperBoundMRCAUncertainty(30, 30, UnknownRank))
	assert.Equal(t, uint64(0), rec.UpperBoundMRCAUncertainty(0, 30, UnknownRank))
}

func TestCondemnerFromPredicate(t *testing.T) {
	even := CondemnerFromPredicate(func(r, _ uint64) bool { return r%2 == 0 })
	got := slices.Collect(even(slices.Values([]uint64{0, 1, 2, 3, 4, 5}), 6))
	assert.Equal(t, []uint64{1, 3}, got)

	assert.Empty(t, slices.Collect(even(slices.Values([]uint64{1}), 0)))
}

func TestStochasticDeterminism(t *testing.T) {
	a := slices.Collect(Stochastic(3).RetainedRanks(200))
	b := slices.Collect(Stochastic(3).RetainedRanks(200))
	c := slices.Collect(Stochastic(4).RetainedRanks(200))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Greater(t, len(a), 50)
	assert.Less(t, len(a), 150)

	_, ok := Stochastic(3).RankAtColumnIndex(0, 10)
	assert.False(t, ok)
}

func TestIntRootPow(t *testing.T) {
	assert.Equal(t, uint64(10), intRootPow(100, 1, 2))
	assert.Equal(t, uint64(9), intRootPow(99, 1, 2))
	assert.Equal(t, uint64(100), intRootPow(1000, 2, 3))
	assert.Equal(t, uint64(99), intRootPow(999, 2, 3))
	assert.Equal(t, uint64(1), intRootPow(1, 1, 5))
	assert.Equal(t, uint64(77), intRootPow(77, 4, 4))
	assert.Equal(t, uint64(4294967295), intRootPow(1<<64-1, 1, 2))
}

func TestBitFloor(t *testing.T) {
	assert.Equal(t, uint64(0), bitFloor(0))
	assert.Equal(t, uint64(1), bitFloor(1))
	assert.Equal(t, uint64(4), bitFloor(7))
	assert.Equal(t, uint64(8), bitFloor(8))
	assert.Equal(t, uint64(1)<<63, bitFloor(1<<64-1))
}
