// Package policy implements the retention policies that decide which strata a
// hereditary stratigraphic column keeps as it grows.
//
// Every policy is defined by a monotone predicate Retain(rank, n): rank
// survives once n strata have been deposited. Once the predicate turns false
// for a rank it stays false for every larger n, and it is always true for the
// first rank and the newest rank n-1. Condemn adapts the predicate to the
// deposit loop of a column by yielding the retained ranks that no longer
// survive.
//
// Beyond the predicate, each policy predicts its own footprint and resolution:
//
//   - UpperBoundRetained bounds the number of retained strata after n deposits.
//   - UpperBoundMRCAUncertainty bounds the width of the MRCA interval reported
//     for two columns under this policy.
//   - RankAtColumnIndex and RetainedRanks enumerate retained ranks without
//     scanning every deposition. Columns whose policy has such a closed form
//     do not store ranks at all.
//
// Policies are pure values and safe for concurrent use. Spec identifies a
// policy by algorithm tag and parameter; New builds a policy from a Spec.
package policy
