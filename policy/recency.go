package policy

import (
	"iter"
	"slices"
)

// recencySpacing is the spacing of retained ranks at distance rho behind the
// newest rank. Runs of 2R+1 ranks double their spacing as they age.
func recencySpacing(rho, resolution uint64) uint64 {
	return bitFloor(max(1, rho/(2*resolution+1)))
}

type recencyProportional struct {
	resolution uint64
}

// RecencyProportional keeps resolution-proportional detail relative to how
// long ago a rank was deposited: recent ranks are dense and older ranks
// thin out geometrically. Retained count grows logarithmically; MRCA
// uncertainty is proportional to the ranks elapsed since the MRCA.
func RecencyProportional(resolution uint64) Policy {
	mustValidate(Spec{Algo: AlgoRecencyProportional, Param: resolution})
	return recencyProportional{resolution: resolution}
}

func (p recencyProportional) Spec() Spec {
	return Spec{Algo: AlgoRecencyProportional, Param: p.resolution}
}

func (p recencyProportional) Retain(r, n uint64) bool {
	if r == 0 || r+1 == n {
		return true
	}
	if r >= n {
		return false
	}
	return r%recencySpacing(n-1-r, p.resolution) == 0
}

func (p recencyProportional) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	return Predicate(p.Retain).Condemn(retained, n)
}

func (p recencyProportional) UpperBoundRetained(n uint64) uint64 {
	return uint64(len(p.ranks(n)))
}

func (p recencyProportional) UpperBoundMRCAUncertainty(a, b, mrca uint64) uint64 {
	return exactMRCAUncertainty(p, a, b, mrca)
}

func (p recencyProportional) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	ranks := p.ranks(n)
	if i >= uint64(len(ranks)) {
		return 0, false
	}
	return ranks[i], true
}

func (p recencyProportional) RetainedRanks(n uint64) iter.Seq[uint64] {
	return slices.Values(p.ranks(n))
}

func (recencyProportional) HasClosedForm() bool { return true }

// ranks walks back from the newest rank. From each retained rank the next
// older one is the nearest rank below it that sits on its own spacing grid.
func (p recencyProportional) ranks(n uint64) []uint64 {
	if n == 0 {
		return nil
	}

	out := []uint64{n - 1}
	for r := n - 1; r > 0; {
		c := r - 1
		for {
			s := recencySpacing(n-1-c, p.resolution)
			if c%s == 0 {
				break
			}
			c -= c % s
		}
		out = append(out, c)
		r = c
	}

	slices.Reverse(out)

	return out
}

// recencySizeBound is a closed-form upper bound on the recency policy's
// retained count that never decreases as n grows.
func recencySizeBound(n, resolution uint64) uint64 {
	if n == 0 {
		return 0
	}

	block := 2*resolution + 1

	var doublings uint64
	for j := 1; j < 64; j++ {
		if block > (n-1)>>j {
			break
		}
		doublings++
	}

	return min(n, 2*block+doublings*block+1)
}

type recencyProportionalCurbed struct {
	curb   uint64
	degree uint64
	floor  recencyProportional
	geom   geomSeqNthRoot
}

// RecencyProportionalCurbed is RecencyProportional with a hard cap on the
// retained count. It runs at the finest resolution whose size bound fits the
// curb and lowers the resolution as the column grows. Once even resolution
// zero no longer fits, it keeps the ranks retained by both recency
// resolution zero and a geometric nth-root policy of degree (curb-2)/5.
// It panics with *ErrInvalidParam if curb < 8.
func RecencyProportionalCurbed(curb uint64) Policy {
	mustValidate(Spec{Algo: AlgoRecencyProportionalCurb, Param: curb})

	degree := (curb - 2) / 5

	return recencyProportionalCurbed{
		curb:   curb,
		degree: degree,
		floor:  recencyProportional{resolution: 0},
		geom:   geomSeqNthRoot{degree: degree},
	}
}

// resolution returns the recency resolution in force after n deposits.
func (p recencyProportionalCurbed) resolution(n uint64) (uint64, bool) {
	for r := (p.curb - 3) / 4; ; r-- {
		if recencySizeBound(n, r) <= p.curb {
			return r, true
		}
		if r == 0 {
			return 0, false
		}
	}
}

func (p recencyProportionalCurbed) Spec() Spec {
	return Spec{Algo: AlgoRecencyProportionalCurb, Param: p.curb}
}

func (p recencyProportionalCurbed) Retain(r, n uint64) bool {
	if res, ok := p.resolution(n); ok {
		return recencyProportional{resolution: res}.Retain(r, n)
	}
	return p.floor.Retain(r, n) && p.geom.Retain(r, n)
}

func (p recencyProportionalCurbed) Condemn(retained iter.Seq[uint64], n uint64) iter.Seq[uint64] {
	if res, ok := p.resolution(n); ok {
		return recencyProportional{resolution: res}.Condemn(retained, n)
	}

	l := p.geom.layout(n)
	return condemn(retained, n, func(r uint64) bool {
		return p.floor.Retain(r, n) && l.keep(r)
	})
}

func (p recencyProportionalCurbed) UpperBoundRetained(n uint64) uint64 {
	return uint64(len(p.ranks(n)))
}

func (p recencyProportionalCurbed) UpperBoundMRCAUncertainty(a, b, mrca uint64) uint64 {
	return exactMRCAUncertainty(p, a, b, mrca)
}

func (p recencyProportionalCurbed) RankAtColumnIndex(i, n uint64) (uint64, bool) {
	ranks := p.ranks(n)
	if i >= uint64(len(ranks)) {
		return 0, false
	}
	return ranks[i], true
}

func (p recencyProportionalCurbed) RetainedRanks(n uint64) iter.Seq[uint64] {
	return slices.Values(p.ranks(n))
}

func (recencyProportionalCurbed) HasClosedForm() bool { return true }

func (p recencyProportionalCurbed) ranks(n uint64) []uint64 {
	if res, ok := p.resolution(n); ok {
		return recencyProportional{resolution: res}.ranks(n)
	}

	return slices.DeleteFunc(p.geom.ranks(n), func(r uint64) bool {
		return !p.floor.Retain(r, n)
	})
}
