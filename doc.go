// Package hstrat implements hereditary stratigraphy: decentralized
// phylogenetic instrumentation for digital lineages.
//
// Each lineage member carries a Column. Once per generation the column
// deposits a stratum holding a randomly drawn fingerprint (a differentia).
// Descendants inherit the column by cloning, so two columns that share an
// ancestor agree on every fingerprint deposited before they diverged. A
// retention policy condemns most old strata to keep columns small while
// preserving enough of them to bound when two lineages split.
//
// # Quick Start
//
//	p := policy.RecencyProportional(4)
//	ancestor := hstrat.NewColumn(p, hstrat.WithDifferentiaBitWidth(64))
//	ancestor.DepositStrata(100)
//
//	a := ancestor.MakeDescendant()
//	b := ancestor.MakeDescendant()
//	a.DepositStrata(20)
//	b.DepositStrata(20)
//
//	lo, hi, ok := hstrat.CalcRankOfMRCABounds(a, b)
//	// ok is true and lo <= 100 < hi
//
// # Comparison
//
// The kernel functions accept any Strata, either a live Column or a Specimen
// snapshot. When neither operand has discarded strata the kernel
// binary-searches for the first mismatch; otherwise it merges the two
// retained rank sequences. Results that may not exist are returned with an
// ok flag. Comparing operands of different differentia widths panics with
// *ErrWidthMismatch.
//
// # Policies
//
// Retention policies live in package policy and are selected by value:
//
//	p, err := policy.New(policy.Spec{Algo: policy.AlgoDepthProportional, Param: 10})
//
// Columns whose policy computes retained ranks in closed form store no ranks
// at all. Pass WithAlwaysStoreRank to store them anyway, or WithStore to pick
// the roaring-bitmap store.
//
// # Concurrency
//
// A Column is owned by one goroutine at a time. Distinct columns may be used
// from different goroutines concurrently, including clones that share a
// differentia.Generator.
package hstrat
