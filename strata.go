package hstrat

import (
	"iter"

	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/model"
)

// Strata is the read interface shared by Column and Specimen.
// The comparison kernel operates on it.
type Strata interface {
	// NumStrataDeposited returns the number of depositions completed.
	NumStrataDeposited() uint64
	// NumStrataRetained returns the number of strata held.
	NumStrataRetained() int
	// HasDiscardedStrata reports whether any deposited stratum was condemned.
	HasDiscardedStrata() bool
	// DifferentiaBitWidth returns the fingerprint width in bits.
	DifferentiaBitWidth() int
	// RetainedRanks yields retained ranks in ascending order.
	RetainedRanks() iter.Seq[uint64]
	// RankDifferentiaPairs yields (rank, differentia) in ascending rank order.
	RankDifferentiaPairs() iter.Seq2[uint64, differentia.Differentia]
	// RankAtColumnIndex returns the rank at column index i.
	RankAtColumnIndex(i int) uint64
	// DifferentiaAtColumnIndex returns the fingerprint at column index i.
	DifferentiaAtColumnIndex(i int) differentia.Differentia
	// StratumAtColumnIndex returns the stratum at column index i with its rank set.
	StratumAtColumnIndex(i int) model.Stratum
	// ColumnIndexOfRank returns the column index holding rank.
	ColumnIndexOfRank(rank uint64) (int, bool)
}

var (
	_ Strata = (*Column)(nil)
	_ Strata = (*Specimen)(nil)
)
