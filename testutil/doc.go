// Package testutil provides testing utilities for hstrat.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded random sources and builders for lineages with a known
// most recent common ancestor.
//
// # Random Sources
//
//	rng := testutil.NewRNG(seed)
//	g := rng.Generator()      // fresh differentia.Generator
//	i := rng.IntN(10)
//
// # Lineages
//
//	// ancestor deposits 50 strata, then a and b diverge for 10 and 20 more
//	a, b := testutil.Diverged(p, 50, 10, 20, seed)
//	mrca := uint64(50 - 1)
package testutil
