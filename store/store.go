// Package store holds the retained strata of a column in ascending rank order.
//
// Two interchangeable implementations exist:
//
//   - List: a dense slice. In ranked mode every stratum carries its rank; in
//     compact mode ranks are omitted and derived from a RankSource (a
//     retention policy with a closed form).
//   - Bitmap: an ordered map keyed by rank, indexed by a roaring64 bitmap.
//     Index and rank lookups use the bitmap's Rank and Select operations.
//
// Out-of-range indices and deletion of absent ranks are programmer errors and
// panic.
package store

import (
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/model"
)

var (
	// ErrIndexOutOfRange is wrapped by the panic value of out-of-range index reads.
	ErrIndexOutOfRange = errors.New("store: index out of range")

	// ErrRankNotFound is wrapped by the panic value of deleting an absent rank.
	ErrRankNotFound = errors.New("store: rank not retained")

	// ErrRankOrder is wrapped by the panic value of appending a rank that is
	// not greater than every retained rank.
	ErrRankOrder = errors.New("store: rank not ascending")
)

// Store is an ordered container of strata keyed by deposition rank.
type Store interface {
	// Append adds s at rank, which must exceed every retained rank.
	Append(rank uint64, s model.Stratum)
	// NumRetained returns the number of strata held.
	NumRetained() int
	// StratumAt returns the stratum at column index i.
	StratumAt(i int) model.Stratum
	// RankAt returns the rank of the stratum at column index i.
	RankAt(i int) uint64
	// IndexOfRank returns the column index holding rank.
	IndexOfRank(rank uint64) (int, bool)
	// DeleteRanks removes the given ranks. The input must be ascending and
	// every rank must be present.
	DeleteRanks(ranks []uint64)
	// Ranks yields the retained ranks in ascending order.
	Ranks() iter.Seq[uint64]
	// Pairs yields (rank, differentia) from column index start onward.
	Pairs(start int) iter.Seq2[uint64, differentia.Differentia]
	// Clone returns a deep copy.
	Clone() Store
}

// RankSource computes retained ranks in closed form.
// Retention policies implement it.
type RankSource interface {
	RankAtColumnIndex(index, numDeposited uint64) (uint64, bool)
	RetainedRanks(numDeposited uint64) iter.Seq[uint64]
}

func indexPanic(i, n int) {
	panic(fmt.Errorf("%w: index %d, retained %d", ErrIndexOutOfRange, i, n))
}

func rankPanic(rank uint64) {
	panic(fmt.Errorf("%w: %d", ErrRankNotFound, rank))
}
