package policy

import "iter"

type perfect struct{}

// Perfect retains every stratum. MRCA bounds are exact.
func Perfect() Policy { return perfect{} }

func (perfect) Spec() Spec { return Spec{Algo: AlgoPerfect} }

func (perfect) Retain(uint64, uint64) bool { return true }

func (perfect) Condemn(iter.Seq[uint64], uint64) iter.Seq[uint64] {
	return func(func(uint64) bool) {}
}

func (perfect) UpperBoundRetained(n uint64) uint64 { return n }

func (perfect) UpperBoundMRCAUncertainty(uint64, uint64, uint64) uint64 { return 0 }

func (perfect) RankAtColumnIndex(i, n uint64) (uint64, bool) { return i, i < n }

func (perfect) RetainedRanks(n uint64) iter.Seq[uint64] { return stridedRanks(n, 1) }

func (perfect) HasClosedForm() bool { return true }

type nominal struct{}

// Nominal retains only the first and the newest stratum.
// It can tell whether two columns share any ancestor, nothing more.
func Nominal() Policy { return nominal{} }

func (nominal) Spec() Spec { return Spec{Algo: AlgoNominal} }

func (nominal) Retain(r, n uint64) bool { return r == 0 || r+1 == n }

func (p nominal) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return Predicate(p.Retain).Condemn(retained, n)
}

func (nominal) UpperBoundRetained(n uint64) uint64 { return min(n, 2) }

func (nominal) UpperBoundMRCAUncertainty(a, b, _ uint64) uint64 {
	return saturatingPred(max(a, b))
}

func (nominal) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	switch {
	case i == 0 && n > 0:
		return 0, true
	case i == 1 && n > 1:
		return n - 1, true
	default:
		return 0, false
	}
}

func (nominal) RetainedRanks(n uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if n == 0 || !yield(0) {
			return
		}
		if n > 1 {
			yield(n - 1)
		}
	}
}

func (nominal) HasClosedForm() bool { return true }
