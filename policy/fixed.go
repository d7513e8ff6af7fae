package policy

import "iter"

type fixedResolution struct {
	resolution uint64
}

// FixedResolution retains every rank divisible by resolution plus the newest
// rank. Space grows linearly; MRCA uncertainty stays below resolution.
// It panics with *ErrInvalidParam if resolution is zero.
func FixedResolution(resolution uint64) Policy {
	mustValidate(Spec{Algo: AlgoFixedResolution, Param: resolution})
	return fixedResolution{resolution: resolution}
}

func (p fixedResolution) Spec() Spec {
	return Spec{Algo: AlgoFixedResolution, Param: p.resolution}
}

func (p fixedResolution) Retain(r, n uint64) bool {
	return r%p.resolution == 0 || r+1 == n
}

func (p fixedResolution) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return Predicate(p.Retain).Condemn(retained, n)
}

func (p fixedResolution) UpperBoundRetained(n uint64) uint64 {
	return stridedCount(n, p.resolution)
}

func (p fixedResolution) UpperBoundMRCAUncertainty(uint64, uint64, uint64) uint64 {
	return p.resolution - 1
}

func (p fixedResolution) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	return stridedRank(i, n, p.resolution)
}

func (p fixedResolution) RetainedRanks(n uint64) iter.Seq[uint64] {
	return stridedRanks(n, p.resolution)
}

func (fixedResolution) HasClosedForm() bool { return true }
