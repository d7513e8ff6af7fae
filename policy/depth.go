package policy

import "iter"

// depthStride is the spacing of retained ranks after n deposits: the largest
// power of two not above n/resolution.
func depthStride(n, resolution uint64) uint64 {
	return bitFloor(max(1, n/resolution))
}

type depthProportional struct {
	resolution uint64
}

// DepthProportional keeps about resolution evenly spaced ranks across the
// whole column. The spacing doubles each time n/resolution crosses a power
// of two, so at most 2*resolution+2 strata are retained.
// It panics with *ErrInvalidParam if resolution is zero.
func DepthProportional(resolution uint64) Policy {
	mustValidate(Spec{Algo: AlgoDepthProportional, Param: resolution})
	return depthProportional{resolution: resolution}
}

func (p depthProportional) Spec() Spec {
	return Spec{Algo: AlgoDepthProportional, Param: p.resolution}
}

func (p depthProportional) Retain(r, n uint64) bool {
	return r%depthStride(n, p.resolution) == 0 || r+1 == n
}

func (p depthProportional) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	stride := depthStride(n, p.resolution)
	return condemn(retained, n, func(r uint64) bool { return r%stride == 0 })
}

func (p depthProportional) UpperBoundRetained(n uint64) uint64 {
	return stridedCount(n, depthStride(n, p.resolution))
}

func (p depthProportional) UpperBoundMRCAUncertainty(a, b, _ uint64) uint64 {
	return depthStride(max(a, b), p.resolution) - 1
}

func (p depthProportional) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	return stridedRank(i, n, depthStride(n, p.resolution))
}

func (p depthProportional) RetainedRanks(n uint64) iter.Seq[uint64] {
	return stridedRanks(n, depthStride(n, p.resolution))
}

func (depthProportional) HasClosedForm() bool { return true }

type depthProportionalTapered struct {
	resolution uint64
}

// DepthProportionalTapered is DepthProportional with its spare capacity
// filled. Until the next doubling, the most recent odd multiples of half the
// stride are kept as well, so the retained count stays at 2*resolution or
// 2*resolution+1 instead of oscillating between resolution and 2*resolution.
// It panics with *ErrInvalidParam if resolution is zero.
func DepthProportionalTapered(resolution uint64) Policy {
	mustValidate(Spec{Algo: AlgoDepthProportionalTapered, Param: resolution})
	return depthProportionalTapered{resolution: resolution}
}

// taperLayout describes the retained set after n deposits: multiples of
// stride below cutoff, multiples of half from cutoff on, and n-1.
type taperLayout struct {
	stride, half, cutoff uint64
	tapered              bool
}

func (p depthProportionalTapered) layout(n uint64) taperLayout {
	stride := depthStride(n, p.resolution)
	l := taperLayout{stride: stride, half: stride / 2}
	if n == 0 || l.half == 0 {
		return l
	}

	full := (n-1)/stride + 1
	if full >= 2*p.resolution {
		return l
	}

	q := (n - 1) / l.half
	extra := min(2*p.resolution-full, (q+1)/2)
	if extra == 0 {
		return l
	}

	lastOdd := q
	if q%2 == 0 {
		lastOdd--
	}

	l.cutoff = l.half * (lastOdd - 2*(extra-1))
	l.tapered = true

	return l
}

func (l taperLayout) keep(r uint64) bool {
	return r%l.stride == 0 || (l.tapered && r >= l.cutoff && r%l.half == 0)
}

func (p depthProportionalTapered) Spec() Spec {
	return Spec{Algo: AlgoDepthProportionalTapered, Param: p.resolution}
}

func (p depthProportionalTapered) Retain(r, n uint64) bool {
	return r+1 == n || p.layout(n).keep(r)
}

func (p depthProportionalTapered) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return condemn(retained, n, p.layout(n).keep)
}

func (p depthProportionalTapered) UpperBoundRetained(n uint64) uint64 {
	l := p.layout(n)
	if !l.tapered {
		return stridedCount(n, l.stride)
	}

	c := (l.cutoff+l.stride-1)/l.stride + (n-1-l.cutoff)/l.half + 1
	if (n-1)%l.half != 0 {
		c++
	}

	return c
}

func (p depthProportionalTapered) UpperBoundMRCAUncertainty(a, b, _ uint64) uint64 {
	return depthStride(max(a, b), p.resolution) - 1
}

func (p depthProportionalTapered) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	l := p.layout(n)
	if !l.tapered {
		return stridedRank(i, n, l.stride)
	}

	below := (l.cutoff + l.stride - 1) / l.stride
	if i < below {
		return i * l.stride, true
	}

	k := i - below
	tail := (n-1-l.cutoff)/l.half + 1
	switch {
	case k < tail:
		return l.cutoff + k*l.half, true
	case k == tail && (n-1)%l.half != 0:
		return n - 1, true
	default:
		return 0, false
	}
}

func (p depthProportionalTapered) RetainedRanks(n uint64) iter.Seq[uint64] {
	l := p.layout(n)
	if !l.tapered {
		return stridedRanks(n, l.stride)
	}

	return func(yield func(uint64) bool) {
		for r := uint64(0); r < l.cutoff; r += l.stride {
			if !yield(r) {
				return
			}
		}
		for r := l.cutoff; r < n; r += l.half {
			if !yield(r) {
				return
			}
		}
		if (n-1)%l.half != 0 {
			yield(n - 1)
		}
	}
}

func (depthProportionalTapered) HasClosedForm() bool { return true }
