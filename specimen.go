package hstrat

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/model"
)

// Specimen is an immutable snapshot of a column's retained strata.
// It has no policy and cannot deposit.
type Specimen struct {
	width        int
	numDeposited uint64
	ranks        []uint64
	differentiae []differentia.Differentia
}

// NewSpecimen validates and wraps retained (rank, differentia) data.
// ranks must be strictly ascending and below numDeposited, with one
// differentia per rank that fits in width bits. The slices are copied.
func NewSpecimen(width int, numDeposited uint64, ranks []uint64, differentiae []differentia.Differentia) (*Specimen, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: bit width %d", ErrInvalidSpecimen, width)
	}
	if len(ranks) != len(differentiae) {
		return nil, fmt.Errorf("%w: %d ranks but %d differentiae", ErrInvalidSpecimen, len(ranks), len(differentiae))
	}
	if uint64(len(ranks)) > numDeposited {
		return nil, fmt.Errorf("%w: %d ranks exceed %d deposits", ErrInvalidSpecimen, len(ranks), numDeposited)
	}

	for i, r := range ranks {
		if r >= numDeposited {
			return nil, fmt.Errorf("%w: rank %d not below %d deposits", ErrInvalidSpecimen, r, numDeposited)
		}
		if i > 0 && ranks[i-1] >= r {
			return nil, fmt.Errorf("%w: ranks not strictly ascending at index %d", ErrInvalidSpecimen, i)
		}
	}

	for i, d := range differentiae {
		if !fitsWidth(d, width) {
			return nil, fmt.Errorf("%w: differentia at index %d exceeds %d bits", ErrInvalidSpecimen, i, width)
		}
	}

	return &Specimen{
		width:        width,
		numDeposited: numDeposited,
		ranks:        slices.Clone(ranks),
		differentiae: slices.Clone(differentiae),
	}, nil
}

func fitsWidth(d differentia.Differentia, width int) bool {
	if width >= 64 {
		return d == differentia.FromBytes(width, d.Bytes(width))
	}
	return d.Uint64()>>width == 0
}

// SpecimenFromColumn snapshots c.
func SpecimenFromColumn(c *Column) *Specimen {
	s := &Specimen{
		width:        c.width,
		numDeposited: c.numDeposited,
		ranks:        make([]uint64, 0, c.NumStrataRetained()),
		differentiae: make([]differentia.Differentia, 0, c.NumStrataRetained()),
	}

	for r, d := range c.RankDifferentiaPairs() {
		s.ranks = append(s.ranks, r)
		s.differentiae = append(s.differentiae, d)
	}

	return s
}

// DifferentiaBitWidth returns the fingerprint width in bits.
func (s *Specimen) DifferentiaBitWidth() int { return s.width }

// NumStrataDeposited returns the number of depositions completed.
func (s *Specimen) NumStrataDeposited() uint64 { return s.numDeposited }

// NumStrataRetained returns the number of strata held.
func (s *Specimen) NumStrataRetained() int { return len(s.ranks) }

// HasDiscardedStrata reports whether any stratum was condemned.
func (s *Specimen) HasDiscardedStrata() bool {
	return uint64(len(s.ranks)) < s.numDeposited
}

// RetainedRanks yields retained ranks in ascending order.
func (s *Specimen) RetainedRanks() iter.Seq[uint64] { return slices.Values(s.ranks) }

// RetainedDifferentiae yields retained fingerprints in ascending rank order.
func (s *Specimen) RetainedDifferentiae() iter.Seq[differentia.Differentia] {
	return slices.Values(s.differentiae)
}

// RankDifferentiaPairs yields (rank, differentia) in ascending rank order.
func (s *Specimen) RankDifferentiaPairs() iter.Seq2[uint64, differentia.Differentia] {
	return func(yield func(uint64, differentia.Differentia) bool) {
		for i, r := range s.ranks {
			if !yield(r, s.differentiae[i]) {
				return
			}
		}
	}
}

// RankAtColumnIndex returns the rank at column index i.
func (s *Specimen) RankAtColumnIndex(i int) uint64 { return s.ranks[i] }

// DifferentiaAtColumnIndex returns the fingerprint at column index i.
func (s *Specimen) DifferentiaAtColumnIndex(i int) differentia.Differentia {
	return s.differentiae[i]
}

// StratumAtColumnIndex returns the stratum at column index i.
func (s *Specimen) StratumAtColumnIndex(i int) model.Stratum {
	return model.NewStratum(s.differentiae[i], nil).WithRank(s.ranks[i])
}

// ColumnIndexOfRank returns the column index holding rank.
func (s *Specimen) ColumnIndexOfRank(rank uint64) (int, bool) {
	i := sort.Search(len(s.ranks), func(i int) bool { return s.ranks[i] >= rank })
	if i < len(s.ranks) && s.ranks[i] == rank {
		return i, true
	}
	return 0, false
}

// Ranks returns a copy of the retained ranks.
func (s *Specimen) Ranks() []uint64 { return slices.Clone(s.ranks) }

// Differentiae returns a copy of the retained fingerprints.
func (s *Specimen) Differentiae() []differentia.Differentia { return slices.Clone(s.differentiae) }

// Equal reports whether two specimens hold the same width, deposit count,
// ranks, and fingerprints.
func (s *Specimen) Equal(other *Specimen) bool {
	return s.width == other.width &&
		s.numDeposited == other.numDeposited &&
		slices.Equal(s.ranks, other.ranks) &&
		slices.Equal(s.differentiae, other.differentiae)
}
