package store

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/model"
)

// List is a dense slice of strata ordered by rank.
type List struct {
	strata []model.Stratum

	// compact mode
	source       RankSource
	numDeposited uint64
}

var _ Store = (*List)(nil)

// NewList returns an empty List whose strata keep their ranks.
func NewList() *List {
	return &List{}
}

// NewCompactList returns an empty List that drops ranks from its strata and
// asks source for them instead. The list treats the last appended rank as the
// most recent deposition, so its contents must match source's retained ranks
// whenever ranks are read.
func NewCompactList(source RankSource) *List {
	return &List{source: source}
}

// Compact reports whether ranks are derived from a RankSource.
func (l *List) Compact() bool { return l.source != nil }

// Append adds s at rank.
func (l *List) Append(rank uint64, s model.Stratum) {
	if l.source != nil {
		if len(l.strata) > 0 && rank < l.numDeposited {
			panic(fmt.Errorf("%w: %d after %d", ErrRankOrder, rank, l.numDeposited-1))
		}
		l.strata = append(l.strata, s.WithoutRank())
		l.numDeposited = rank + 1
		return
	}

	if n := len(l.strata); n > 0 {
		if last, _ := l.strata[n-1].Rank(); last >= rank {
			panic(fmt.Errorf("%w: %d after %d", ErrRankOrder, rank, last))
		}
	}

	l.strata = append(l.strata, s.WithRank(rank))
}

// NumRetained returns the number of strata held.
func (l *List) NumRetained() int { return len(l.strata) }

// StratumAt returns the stratum at column index i.
// In compact mode the returned stratum has no rank.
func (l *List) StratumAt(i int) model.Stratum {
	if i < 0 || i >= len(l.strata) {
		indexPanic(i, len(l.strata))
	}
	return l.strata[i]
}

// RankAt returns the rank at column index i.
func (l *List) RankAt(i int) uint64 {
	if i < 0 || i >= len(l.strata) {
		indexPanic(i, len(l.strata))
	}

	if l.source == nil {
		r, _ := l.strata[i].Rank()
		return r
	}

	r, ok := l.source.RankAtColumnIndex(uint64(i), l.numDeposited)
	if !ok {
		indexPanic(i, len(l.strata))
	}

	return r
}

// IndexOfRank binary-searches for rank. In compact mode the retained ranks
// are materialized once rather than derived per search step.
func (l *List) IndexOfRank(rank uint64) (int, bool) {
	if l.source != nil {
		if len(l.strata) == 0 {
			return 0, false
		}
		ranks := slices.Collect(l.source.RetainedRanks(l.numDeposited))
		i, found := slices.BinarySearch(ranks, rank)
		if !found || i >= len(l.strata) {
			return 0, false
		}
		return i, true
	}

	i := sort.Search(len(l.strata), func(i int) bool { return l.RankAt(i) >= rank })
	if i < len(l.strata) && l.RankAt(i) == rank {
		return i, true
	}
	return 0, false
}

// DeleteRanks removes ranks in one ascending compaction pass.
func (l *List) DeleteRanks(ranks []uint64) {
	if len(ranks) == 0 {
		return
	}

	rankOf := func(i int) uint64 {
		r, _ := l.strata[i].Rank()
		return r
	}
	if l.source != nil {
		// Index i is always ahead of the write cursor, so the retained ranks
		// before this deletion still describe it.
		pull, stop := iter.Pull(l.source.RetainedRanks(l.numDeposited))
		defer stop()
		rankOf = func(i int) uint64 {
			r, ok := pull()
			if !ok {
				indexPanic(i, len(l.strata))
			}
			return r
		}
	}

	next := 0
	w := 0
	for i := range l.strata {
		if next < len(ranks) && rankOf(i) == ranks[next] {
			next++
			continue
		}
		l.strata[w] = l.strata[i]
		w++
	}

	if next != len(ranks) {
		rankPanic(ranks[next])
	}

	clear(l.strata[w:])
	l.strata = l.strata[:w]
}

// Ranks yields the retained ranks in ascending order.
func (l *List) Ranks() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if l.source != nil && len(l.strata) > 0 {
			for r := range l.source.RetainedRanks(l.numDeposited) {
				if !yield(r) {
					return
				}
			}
			return
		}
		for i := range l.strata {
			r, _ := l.strata[i].Rank()
			if !yield(r) {
				return
			}
		}
	}
}

// Pairs yields (rank, differentia) from column index start onward.
func (l *List) Pairs(start int) iter.Seq2[uint64, differentia.Differentia] {
	return func(yield func(uint64, differentia.Differentia) bool) {
		if l.source == nil {
			for i := start; i < len(l.strata); i++ {
				r, _ := l.strata[i].Rank()
				if !yield(r, l.strata[i].Differentia) {
					return
				}
			}
			return
		}

		i := 0
		for r := range l.Ranks() {
			if i >= len(l.strata) {
				return
			}
			if i >= start && !yield(r, l.strata[i].Differentia) {
				return
			}
			i++
		}
	}
}

// Clone returns a deep copy sharing the rank source.
func (l *List) Clone() Store {
	c := *l
	c.strata = append([]model.Stratum(nil), l.strata...)
	return &c
}
