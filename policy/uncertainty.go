package policy

import "iter"

// exactMRCAUncertainty measures the MRCA interval directly from the ranks the
// two columns have in common. Both columns retain rank 0, so the walk always
// finds a first common rank.
//
// For a known MRCA the interval spans from the last common rank at or below it
// to the next common rank above it, or to the shorter column's depth. For
// UnknownRank it is the widest such gap anywhere in the shared prefix.
func exactMRCAUncertainty(p Policy, numDepositedA, numDepositedB, mrca uint64) uint64 {
	shorter := min(numDepositedA, numDepositedB)
	if shorter == 0 {
		return 0
	}

	nextA, stopA := iter.Pull(p.RetainedRanks(numDepositedA))
	defer stopA()
	nextB, stopB := iter.Pull(p.RetainedRanks(numDepositedB))
	defer stopB()

	var (
		last  uint64
		seen  bool
		worst uint64
	)

	ra, okA := nextA()
	rb, okB := nextB()
	for okA && okB {
		switch {
		case ra < rb:
			ra, okA = nextA()
		case rb < ra:
			rb, okB = nextB()
		default:
			if mrca != UnknownRank && ra > mrca {
				return ra - last - 1
			}
			if mrca == UnknownRank && seen {
				worst = max(worst, ra-last-1)
			}
			last, seen = ra, true

			ra, okA = nextA()
			rb, okB = nextB()
		}
	}

	return max(worst, shorter-last-1)
}
