package policy

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// UnknownRank is passed to UpperBoundMRCAUncertainty when the rank of the
// most recent common ancestor is not known. The bound then covers every
// possible ancestor rank.
const UnknownRank = math.MaxUint64

// Policy decides which ranks a column retains.
//
// numDeposited is the number of stratum depositions completed.
type Policy interface {
	// Spec returns the value identifying this policy.
	Spec() Spec
	// Retain reports whether rank survives after numDeposited deposits.
	Retain(rank, numDeposited uint64) bool
	// Condemn yields the members of retained that do not survive numDeposited
	// deposits. It never yields 0 or numDeposited-1.
	Condemn(retained iter.Seq[uint64], numDeposited uint64) iter.Seq[uint64]
	// UpperBoundRetained bounds the retained count after numDeposited deposits.
	UpperBoundRetained(numDeposited uint64) uint64
	// UpperBoundMRCAUncertainty bounds firstDisparity - lastCommonality - 1
	// for two columns with the given deposit counts whose MRCA sits at
	// actualMRCARank, or at any rank if it is UnknownRank.
	UpperBoundMRCAUncertainty(numDepositedA, numDepositedB, actualMRCARank uint64) uint64
	// RankAtColumnIndex returns the index-th retained rank after numDeposited
	// deposits. ok is false past the last index or without a closed form.
	RankAtColumnIndex(index, numDeposited uint64) (rank uint64, ok bool)
	// RetainedRanks yields the retained ranks in ascending order.
	RetainedRanks(numDeposited uint64) iter.Seq[uint64]
	// HasClosedForm reports whether RankAtColumnIndex is available.
	HasClosedForm() bool
}

// Predicate is a retention predicate: rank survives after n deposits.
type Predicate func(rank, n uint64) bool

// Condemner yields the retained ranks to delete after n deposits.
type Condemner func(retained iter.Seq[uint64], n uint64) iter.Seq[uint64]

// Condemn yields the ranks of retained for which p is false, skipping the
// first and the newest rank.
func (p Predicate) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return condemn(retained, n, func(r uint64) bool { return p(r, n) })
}

// CondemnerFromPredicate adapts a predicate into a Condemner.
func CondemnerFromPredicate(p Predicate) Condemner {
	return p.Condemn
}

func condemn(retained iter.Seq[uint64], n uint64, keep func(uint64) bool) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if n == 0 {
			return
		}
		for r := range retained {
			if r == 0 || r >= n-1 || keep(r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

var (
	// ErrUnknownAlgo is returned for algorithm tags outside the registry.
	ErrUnknownAlgo = errors.New("policy: unknown algorithm")
)

// ErrInvalidParam reports a parameter outside an algorithm's domain.
// Constructors panic with it; New returns it.
type ErrInvalidParam struct {
	Algo   Algo
	Param  uint64
	Reason string
}

func (e *ErrInvalidParam) Error() string {
	name := e.Algo.ParamName()
	if name == "" {
		name = "parameter"
	}
	return fmt.Sprintf("policy: invalid %s %d for %s: %s", name, e.Param, e.Algo, e.Reason)
}

// bitFloor returns the largest power of two not above x, or 0 for x == 0.
func bitFloor(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return 1 << (63 - bits.LeadingZeros64(x))
}

// roundUp rounds a up to a multiple of step.
func roundUp(a, step uint64) uint64 {
	return (a + step - 1) / step * step
}

// stridedCount counts the ranks retained by "multiples of stride, plus n-1".
func stridedCount(n, stride uint64) uint64 {
	if n == 0 {
		return 0
	}
	c := (n-1)/stride + 1
	if (n-1)%stride != 0 {
		c++
	}
	return c
}

// stridedRank is the closed form matching stridedCount.
func stridedRank(i, n, stride uint64) (uint64, bool) {
	if n == 0 {
		return 0, false
	}
	c := (n-1)/stride + 1
	switch {
	case i < c:
		return i * stride, true
	case i == c && (n-1)%stride != 0:
		return n - 1, true
	default:
		return 0, false
	}
}

func stridedRanks(n, stride uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if n == 0 {
			return
		}
		for r := uint64(0); r < n; r += stride {
			if !yield(r) {
				return
			}
		}
		if (n-1)%stride != 0 {
			yield(n - 1)
		}
	}
}

// nthRank returns the index-th element of seq.
func nthRank(seq iter.Seq[uint64], index uint64) (uint64, bool) {
	var i uint64
	for r := range seq {
		if i == index {
			return r, true
		}
		i++
	}
	return 0, false
}

func countRanks(seq iter.Seq[uint64]) uint64 {
	var c uint64
	for range seq {
		c++
	}
	return c
}

// saturatingPred returns x-1, or 0 for x == 0.
func saturatingPred(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return x - 1
}
