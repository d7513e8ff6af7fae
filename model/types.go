package model

import (
	"fmt"

	"github.com/hupe1980/hstrat/differentia"
)

// Stratum is one deposited fingerprint together with its optional rank and
// an opaque user annotation. Strata are immutable values.
type Stratum struct {
	// Differentia is the randomly drawn fingerprint.
	Differentia differentia.Differentia
	// Annotation is user data carried through cloning and ignored by comparison.
	Annotation any

	rank   uint64
	ranked bool
}

// NewStratum returns a stratum without a stored rank.
func NewStratum(d differentia.Differentia, annotation any) Stratum {
	return Stratum{Differentia: d, Annotation: annotation}
}

// WithRank returns a copy of s carrying rank.
func (s Stratum) WithRank(rank uint64) Stratum {
	s.rank = rank
	s.ranked = true
	return s
}

// WithoutRank returns a copy of s with its rank dropped.
func (s Stratum) WithoutRank() Stratum {
	s.rank = 0
	s.ranked = false
	return s
}

// Rank returns the stored deposition rank, if any.
func (s Stratum) Rank() (uint64, bool) {
	return s.rank, s.ranked
}

// String returns a string representation of the Stratum.
func (s Stratum) String() string {
	if s.ranked {
		return fmt.Sprintf("Stratum(%d:%s)", s.rank, s.Differentia)
	}
	return fmt.Sprintf("Stratum(?:%s)", s.Differentia)
}
