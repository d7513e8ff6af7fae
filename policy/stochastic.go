package policy

import (
	"encoding/binary"
	"iter"

	"github.com/cespare/xxhash/v2"
)

type stochastic struct {
	seed uint64
}

// Stochastic keeps each rank with probability one half, decided once per
// rank by hashing (seed, rank). Decisions are reproducible for a given seed.
// There is no closed form and no resolution guarantee.
func Stochastic(seed uint64) Policy {
	return stochastic{seed: seed}
}

func (p stochastic) coin(r uint64) bool {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], p.seed)
	binary.LittleEndian.PutUint64(buf[8:], r)
	return xxhash.Sum64(buf[:])&1 == 0
}

func (p stochastic) Spec() Spec {
	return Spec{Algo: AlgoStochastic, Param: p.seed}
}

func (p stochastic) Retain(r, n uint64) bool {
	return r == 0 || r+1 == n || (r < n && p.coin(r))
}

func (p stochastic) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return Predicate(p.Retain).Condemn(retained, n)
}

func (stochastic) UpperBoundRetained(n uint64) uint64 { return n }

func (stochastic) UpperBoundMRCAUncertainty(a, b, _ uint64) uint64 {
	return saturatingPred(max(a, b))
}

func (stochastic) RankAtColumnIndex(uint64, uint64) (uint64, bool) { return 0, false }

// RetainedRanks scans every deposited rank.
func (p stochastic) RetainedRanks(n uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for r := uint64(0); r < n; r++ {
			if p.Retain(r, n) && !yield(r) {
				return
			}
		}
	}
}

func (stochastic) HasClosedForm() bool { return false }
