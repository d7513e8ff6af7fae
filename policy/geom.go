package policy

import (
	"iter"
	"math"
	"math/big"
	"slices"
)

const (
	// maxDegree bounds the number of geometric targets.
	maxDegree = 64
	// geomInterspersal is the number of retained ranks per target window.
	geomInterspersal = 2
)

type geomSeqNthRoot struct {
	degree  uint64
	tapered bool
}

// GeomSeqNthRoot places degree targets at n^(k/degree) ranks behind the
// newest rank, for k = 1..degree, and keeps about two evenly spaced ranks in
// the window reaching back to each target. The retained count is bounded by
// a constant in n.
// It panics with *ErrInvalidParam unless 1 <= degree <= 64.
func GeomSeqNthRoot(degree uint64) Policy {
	mustValidate(Spec{Algo: AlgoGeomSeqNthRoot, Param: degree})
	return geomSeqNthRoot{degree: degree}
}

// GeomSeqNthRootTapered is GeomSeqNthRoot with each window's recent half
// sampled at twice the density.
// It panics with *ErrInvalidParam unless 1 <= degree <= 64.
func GeomSeqNthRootTapered(degree uint64) Policy {
	mustValidate(Spec{Algo: AlgoGeomSeqNthRootTapered, Param: degree})
	return geomSeqNthRoot{degree: degree, tapered: true}
}

// geomTarget keeps multiples of sep from backstop on, and multiples of half
// from halfBackstop on when half is non-zero.
type geomTarget struct {
	sep, backstop      uint64
	half, halfBackstop uint64
}

type geomLayout struct {
	n       uint64
	targets []geomTarget
}

func (p geomSeqNthRoot) layout(n uint64) geomLayout {
	l := geomLayout{n: n}
	if n == 0 {
		return l
	}

	l.targets = make([]geomTarget, 0, p.degree)
	for k := uint64(1); k <= p.degree; k++ {
		t := intRootPow(n, k, p.degree)
		sep := bitFloor(max(1, t/geomInterspersal))

		var behind uint64
		if n-1 > t {
			behind = n - 1 - t
		}

		g := geomTarget{sep: sep, backstop: roundUp(behind, sep)}
		if p.tapered && sep >= 2 {
			g.half = sep / 2

			var halfBehind uint64
			if n-1 > t/2 {
				halfBehind = n - 1 - t/2
			}
			g.halfBackstop = roundUp(halfBehind, g.half)
		}

		l.targets = append(l.targets, g)
	}

	return l
}

func (l geomLayout) keep(r uint64) bool {
	if r == 0 || r+1 == l.n {
		return true
	}
	for _, g := range l.targets {
		if r >= g.backstop && r%g.sep == 0 {
			return true
		}
		if g.half != 0 && r >= g.halfBackstop && r%g.half == 0 {
			return true
		}
	}
	return false
}

func (p geomSeqNthRoot) algo() Algo {
	if p.tapered {
		return AlgoGeomSeqNthRootTapered
	}
	return AlgoGeomSeqNthRoot
}

func (p geomSeqNthRoot) Spec() Spec {
	return Spec{Algo: p.algo(), Param: p.degree}
}

func (p geomSeqNthRoot) Retain(r, n uint64) bool {
	return r < n && p.layout(n).keep(r)
}

func (p geomSeqNthRoot) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return condemn(retained, n, p.layout(n).keep)
}

func (p geomSeqNthRoot) UpperBoundRetained(n uint64) uint64 {
	return uint64(len(p.ranks(n)))
}

func (p geomSeqNthRoot) UpperBoundMRCAUncertainty(a, b, mrca uint64) uint64 {
	return exactMRCAUncertainty(p, a, b, mrca)
}

func (p geomSeqNthRoot) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	ranks := p.ranks(n)
	if i >= uint64(len(ranks)) {
		return 0, false
	}
	return ranks[i], true
}

func (p geomSeqNthRoot) RetainedRanks(n uint64) iter.Seq[uint64] {
	return slices.Values(p.ranks(n))
}

func (geomSeqNthRoot) HasClosedForm() bool { return true }

func (p geomSeqNthRoot) ranks(n uint64) []uint64 {
	if n == 0 {
		return nil
	}

	out := []uint64{0, n - 1}
	for _, g := range p.layout(n).targets {
		for r := g.backstop; r < n; r += g.sep {
			out = append(out, r)
		}
		if g.half != 0 {
			for r := g.halfBackstop; r < n; r += g.half {
				out = append(out, r)
			}
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// intRootPow returns floor(n^(k/d)) exactly.
func intRootPow(n, k, d uint64) uint64 {
	if k >= d || n < 2 {
		return n
	}

	x := uint64(math.Pow(float64(n), float64(k)/float64(d)))

	target := new(big.Int).Exp(new(big.Int).SetUint64(n), new(big.Int).SetUint64(k), nil)
	pow := func(v uint64) *big.Int {
		return new(big.Int).Exp(new(big.Int).SetUint64(v), new(big.Int).SetUint64(d), nil)
	}

	for x > 0 && pow(x).Cmp(target) > 0 {
		x--
	}
	for x < n && pow(x+1).Cmp(target) <= 0 {
		x++
	}

	return x
}
