// Package model defines the stratum, the unit of data deposited into a
// hereditary stratigraphic column once per generation.
//
// # Rank omission
//
// A stratum either carries its deposition rank or omits it. Columns whose
// retention policy can compute the rank of every column index in closed form
// store rank-less strata and derive ranks on demand:
//
//	s := model.NewStratum(d, nil)      // rank omitted
//	s = s.WithRank(17)                  // rank 17 attached
//	if r, ok := s.Rank(); ok { ... }
package model
