package hstrat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/policy"
)

func TestNewSpecimen(t *testing.T) {
	d := func(vs ...uint64) []differentia.Differentia {
		out := make([]differentia.Differentia, len(vs))
		for i, v := range vs {
			out[i] = differentia.FromUint64(v)
		}
		return out
	}

	tests := []struct {
		name  string
		width int
		n     uint64
		ranks []uint64
		diffs []differentia.Differentia
		ok    bool
	}{
		{"valid", 8, 10, []uint64{0, 4, 9}, d(1, 2, 255), true},
		{"empty", 8, 0, nil, nil, true},
		{"zero width", 0, 1, []uint64{0}, d(0), false},
		{"length mismatch", 8, 3, []uint64{0, 2}, d(1), false},
		{"rank past depth", 8, 3, []uint64{0, 3}, d(1, 2), false},
		{"unsorted", 8, 5, []uint64{2, 1}, d(1, 2), false},
		{"duplicate", 8, 5, []uint64{1, 1}, d(1, 2), false},
		{"too wide", 4, 2, []uint64{0, 1}, d(1, 16), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := hstrat.NewSpecimen(tt.width, tt.n, tt.ranks, tt.diffs)
			if !tt.ok {
				require.ErrorIs(t, err, hstrat.ErrInvalidSpecimen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, s.NumStrataDeposited())
			assert.Equal(t, len(tt.ranks), s.NumStrataRetained())
		})
	}
}

func TestSpecimenFromColumn(t *testing.T) {
	c := hstrat.NewColumn(policy.FixedResolution(4), hstrat.WithSeed(21), hstrat.WithDifferentiaBitWidth(12))
	c.DepositStrata(13)

	s := c.Specimen()
	assert.Equal(t, 12, s.DifferentiaBitWidth())
	assert.Equal(t, uint64(14), s.NumStrataDeposited())
	assert.Equal(t, []uint64{0, 4, 8, 12, 13}, s.Ranks())
	assert.True(t, s.HasDiscardedStrata())

	i, ok := s.ColumnIndexOfRank(8)
	require.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = s.ColumnIndexOfRank(9)
	assert.False(t, ok)

	r, ok := s.StratumAtColumnIndex(3).Rank()
	require.True(t, ok)
	assert.Equal(t, uint64(12), r)

	// later deposits do not leak into the snapshot
	c.DepositStratum()
	assert.Equal(t, uint64(14), s.NumStrataDeposited())
	assert.False(t, s.Equal(c.Specimen()))

	rebuilt, err := hstrat.NewSpecimen(s.DifferentiaBitWidth(), s.NumStrataDeposited(), s.Ranks(), s.Differentiae())
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(s))
}
