package hstrat

import (
	"context"
	"iter"
	"math"
	"sort"
	"time"

	"github.com/hupe1980/hstrat/model"
)

// alignment is the result of walking two operands' retained strata.
type alignment struct {
	lastCommon     uint64
	hasLastCommon  bool
	firstDisparity uint64
	hasDisparity   bool
	empty          bool
}

func align(a, b Strata) alignment {
	if wa, wb := a.DifferentiaBitWidth(), b.DifferentiaBitWidth(); wa != wb {
		panic(&ErrWidthMismatch{A: wa, B: wb})
	}

	if a.NumStrataDeposited() == 0 || b.NumStrataDeposited() == 0 {
		return alignment{empty: true}
	}

	if !a.HasDiscardedStrata() && !b.HasDiscardedStrata() {
		return alignFast(a, b)
	}

	return alignGeneric(a, b)
}

// alignFast binary-searches for the first mismatching rank. Both operands
// hold every rank, so column index and rank coincide.
func alignFast(a, b Strata) alignment {
	na, nb := a.NumStrataDeposited(), b.NumStrataDeposited()
	shorter := min(na, nb)

	i := sort.Search(int(shorter), func(i int) bool {
		return a.DifferentiaAtColumnIndex(i) != b.DifferentiaAtColumnIndex(i)
	})

	var al alignment
	if uint64(i) < shorter {
		al.firstDisparity, al.hasDisparity = uint64(i), true
		if i > 0 {
			al.lastCommon, al.hasLastCommon = uint64(i-1), true
		}
		return al
	}

	al.lastCommon, al.hasLastCommon = shorter-1, true
	if na != nb {
		al.firstDisparity, al.hasDisparity = shorter, true
	}

	return al
}

// alignGeneric merges the two retained rank sequences. Ranks held by only one
// side are skipped; the first shared rank with differing fingerprints ends
// the walk.
func alignGeneric(a, b Strata) alignment {
	nextA, stopA := iter.Pull2(a.RankDifferentiaPairs())
	defer stopA()
	nextB, stopB := iter.Pull2(b.RankDifferentiaPairs())
	defer stopB()

	var al alignment

	ra, da, okA := nextA()
	rb, db, okB := nextB()
	for okA && okB {
		switch {
		case ra < rb:
			ra, da, okA = nextA()
		case rb < ra:
			rb, db, okB = nextB()
		case da == db:
			al.lastCommon, al.hasLastCommon = ra, true
			ra, da, okA = nextA()
			rb, db, okB = nextB()
		default:
			al.firstDisparity, al.hasDisparity = ra, true
			return al
		}
	}

	if na, nb := a.NumStrataDeposited(), b.NumStrataDeposited(); na != nb {
		al.firstDisparity, al.hasDisparity = min(na, nb), true
	}

	return al
}

// bounds returns the MRCA rank interval [lower, upper).
func (al alignment) bounds(a, b Strata) (uint64, uint64, bool) {
	if al.empty || !al.hasLastCommon || (al.hasDisparity && al.firstDisparity == 0) {
		return 0, 0, false
	}

	upper := min(a.NumStrataDeposited(), b.NumStrataDeposited())
	if al.hasDisparity {
		upper = al.firstDisparity
	}

	return al.lastCommon, upper, true
}

// CalcRankOfLastCommonality returns the greatest rank at which a and b hold
// matching fingerprints with no mismatch at any shared rank below it.
func CalcRankOfLastCommonality(a, b Strata) (uint64, bool) {
	al := align(a, b)
	if al.empty || !al.hasLastCommon {
		return 0, false
	}
	return al.lastCommon, true
}

// CalcRankOfFirstDisparity returns the smallest rank at which a and b are
// known to differ: a shared rank with mismatching fingerprints, or the depth
// of the shorter operand when their deposit counts differ. ok is false when
// every shared rank matches and both have the same deposit count.
func CalcRankOfFirstDisparity(a, b Strata) (uint64, bool) {
	al := align(a, b)
	if al.empty || !al.hasDisparity {
		return 0, false
	}
	return al.firstDisparity, true
}

// CalcRankOfMRCABounds returns the inclusive lower and exclusive upper bound
// on the rank of the most recent common ancestor of a and b. ok is false
// when the operands demonstrably share no ancestor.
func CalcRankOfMRCABounds(a, b Strata) (lower, upper uint64, ok bool) {
	return align(a, b).bounds(a, b)
}

// CalcRankOfMRCAUncertainty returns upper - lower - 1 of the MRCA bounds.
func CalcRankOfMRCAUncertainty(a, b Strata) (uint64, bool) {
	lower, upper, ok := CalcRankOfMRCABounds(a, b)
	if !ok {
		return 0, false
	}
	return upper - lower - 1, true
}

// CalcRanksSinceLastCommonality returns how many ranks focal deposited after
// its last commonality with other.
func CalcRanksSinceLastCommonality(focal, other Strata) (uint64, bool) {
	r, ok := CalcRankOfLastCommonality(focal, other)
	if !ok {
		return 0, false
	}
	return focal.NumStrataDeposited() - 1 - r, true
}

// CalcRanksSinceFirstDisparity returns focal's newest rank minus the first
// disparity. It is -1 when the disparity lies just past focal's newest rank,
// which happens when other has advanced beyond focal.
func CalcRanksSinceFirstDisparity(focal, other Strata) (int64, bool) {
	r, ok := CalcRankOfFirstDisparity(focal, other)
	if !ok {
		return 0, false
	}
	return int64(focal.NumStrataDeposited()) - 1 - int64(r), true
}

// CalcRanksSinceMRCABounds expresses the MRCA bounds as generations elapsed
// in focal: the MRCA lies between lower and upper generations back,
// lower inclusive and upper exclusive. Neither value is ever negative, since
// the rank bounds never exceed the smaller deposition count; the int64 result
// matches CalcRanksSinceFirstDisparity.
func CalcRanksSinceMRCABounds(focal, other Strata) (lower, upper int64, ok bool) {
	lo, hi, ok := CalcRankOfMRCABounds(focal, other)
	if !ok {
		return 0, 0, false
	}
	n := int64(focal.NumStrataDeposited())
	return n - int64(hi), n - int64(lo), true
}

// HasAnyCommonAncestor reports whether a and b may share an ancestor.
func HasAnyCommonAncestor(a, b Strata) bool {
	al := align(a, b)
	return !al.empty && (!al.hasDisparity || al.firstDisparity > 0)
}

// GetLastCommonStratum returns a's stratum at the rank of last commonality.
func GetLastCommonStratum(a, b Strata) (model.Stratum, bool) {
	r, ok := CalcRankOfLastCommonality(a, b)
	if !ok {
		return model.Stratum{}, false
	}

	i, ok := a.ColumnIndexOfRank(r)
	if !ok {
		return model.Stratum{}, false
	}

	return a.StratumAtColumnIndex(i), true
}

// CalcProbabilityOfSpuriousCollision returns the chance that two independently
// drawn fingerprints of the given width are equal.
func CalcProbabilityOfSpuriousCollision(width int) float64 {
	return math.Ldexp(1, -width)
}

// Comparison collects every kernel result for one pair of operands.
type Comparison struct {
	HasCommonAncestor bool

	LastCommonality    uint64
	HasLastCommonality bool

	FirstDisparity    uint64
	HasFirstDisparity bool

	MRCALower       uint64
	MRCAUpper       uint64
	MRCAUncertainty uint64
	HasMRCABounds   bool
}

// Compare aligns a and b once and reports every kernel result.
// Logger and metrics collector are taken from optFns.
func Compare(a, b Strata, optFns ...Option) Comparison {
	o := applyOptions(optFns)
	start := time.Now()

	al := align(a, b)

	c := Comparison{
		HasCommonAncestor:  !al.empty && (!al.hasDisparity || al.firstDisparity > 0),
		LastCommonality:    al.lastCommon,
		HasLastCommonality: !al.empty && al.hasLastCommon,
		FirstDisparity:     al.firstDisparity,
		HasFirstDisparity:  !al.empty && al.hasDisparity,
	}
	if lower, upper, ok := al.bounds(a, b); ok {
		c.MRCALower, c.MRCAUpper, c.HasMRCABounds = lower, upper, true
		c.MRCAUncertainty = upper - lower - 1
	}

	o.metricsCollector.RecordComparison("compare", time.Since(start))
	o.logger.LogComparison(context.Background(), c)

	return c
}
