package store

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/model"
)

// Bitmap is an ordered map from rank to stratum.
// The rank set lives in a roaring64 bitmap, which answers index queries with
// Rank and Select without a secondary index.
type Bitmap struct {
	ranks  *roaring64.Bitmap
	strata map[uint64]model.Stratum
}

var _ Store = (*Bitmap)(nil)

// NewBitmap returns an empty Bitmap store.
func NewBitmap() *Bitmap {
	return &Bitmap{
		ranks:  roaring64.New(),
		strata: make(map[uint64]model.Stratum),
	}
}

// Append adds s at rank.
func (b *Bitmap) Append(rank uint64, s model.Stratum) {
	if !b.ranks.IsEmpty() && b.ranks.Maximum() >= rank {
		panic(fmt.Errorf("%w: %d after %d", ErrRankOrder, rank, b.ranks.Maximum()))
	}

	b.ranks.Add(rank)
	b.strata[rank] = s.WithRank(rank)
}

// NumRetained returns the number of strata held.
func (b *Bitmap) NumRetained() int {
	return int(b.ranks.GetCardinality())
}

// StratumAt returns the stratum at column index i.
func (b *Bitmap) StratumAt(i int) model.Stratum {
	return b.strata[b.RankAt(i)]
}

// RankAt selects the i-th smallest retained rank.
func (b *Bitmap) RankAt(i int) uint64 {
	if i < 0 {
		indexPanic(i, b.NumRetained())
	}

	r, err := b.ranks.Select(uint64(i))
	if err != nil {
		indexPanic(i, b.NumRetained())
	}

	return r
}

// IndexOfRank returns the number of retained ranks below rank.
func (b *Bitmap) IndexOfRank(rank uint64) (int, bool) {
	if !b.ranks.Contains(rank) {
		return 0, false
	}
	return int(b.ranks.Rank(rank) - 1), true
}

// DeleteRanks removes ranks from the bitmap and the map.
func (b *Bitmap) DeleteRanks(ranks []uint64) {
	for _, r := range ranks {
		if !b.ranks.Contains(r) {
			rankPanic(r)
		}
		b.ranks.Remove(r)
		delete(b.strata, r)
	}
}

// Ranks yields the retained ranks in ascending order.
func (b *Bitmap) Ranks() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := b.ranks.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Pairs yields (rank, differentia) from column index start onward.
func (b *Bitmap) Pairs(start int) iter.Seq2[uint64, differentia.Differentia] {
	return func(yield func(uint64, differentia.Differentia) bool) {
		it := b.ranks.Iterator()
		for i := 0; it.HasNext(); i++ {
			r := it.Next()
			if i < start {
				continue
			}
			if !yield(r, b.strata[r].Differentia) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() Store {
	strata := make(map[uint64]model.Stratum, len(b.strata))
	for r, s := range b.strata {
		strata[r] = s
	}

	return &Bitmap{
		ranks:  b.ranks.Clone(),
		strata: strata,
	}
}
