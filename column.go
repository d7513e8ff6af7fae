package hstrat

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/hstrat/differentia"
	"github.com/hupe1980/hstrat/model"
	"github.com/hupe1980/hstrat/policy"
	"github.com/hupe1980/hstrat/store"
)

// Column is the hereditary stratigraphic record carried by one lineage member.
//
// A Column is not safe for concurrent mutation. Clones may be used from other
// goroutines.
type Column struct {
	policy       policy.Policy
	store        store.Store
	numDeposited uint64
	width        int
	generator    *differentia.Generator

	logger  *Logger
	metrics MetricsCollector
}

// NewColumn returns a column governed by p with rank 0 already deposited,
// unless WithoutInitialStratum is given.
// It panics if p is nil or the configured width is below one.
func NewColumn(p policy.Policy, optFns ...Option) *Column {
	o := applyOptions(optFns)

	c, compact := newEmptyColumn(p, o)
	c.logger.LogColumnCreated(context.Background(), p.Spec().String(), o.width, o.storeKind, compact)
	if !o.skipInitial {
		c.DepositAnnotatedStratum(o.initialAnnotation)
	}

	return c
}

func newEmptyColumn(p policy.Policy, o options) (*Column, bool) {
	if p == nil {
		panic("hstrat: nil policy")
	}
	if o.width < 1 {
		panic(differentia.ErrInvalidWidth)
	}

	st, compact := newStore(p, o)

	g := o.generator
	if g == nil {
		g = differentia.NewRandomGenerator()
	}

	return &Column{
		policy:    p,
		store:     st,
		width:     o.width,
		generator: g,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}, compact
}

func newStore(p policy.Policy, o options) (store.Store, bool) {
	switch {
	case o.storeKind == StoreBitmap:
		return store.NewBitmap(), false
	case p.HasClosedForm() && !o.alwaysStoreRank:
		return store.NewCompactList(p), true
	default:
		return store.NewList(), false
	}
}

// DepositStratum deposits a stratum without annotation.
func (c *Column) DepositStratum() {
	c.DepositAnnotatedStratum(nil)
}

// DepositAnnotatedStratum draws a fingerprint, purges the ranks the policy
// condemns, and appends the new stratum at rank NumStrataDeposited().
func (c *Column) DepositAnnotatedStratum(annotation any) {
	start := time.Now()

	n := c.numDeposited
	d := c.generator.Draw(c.width)

	condemned := slices.Collect(c.policy.Condemn(c.ranksWith(n), n+1))
	c.store.DeleteRanks(condemned)
	c.store.Append(n, model.NewStratum(d, annotation))
	c.numDeposited = n + 1

	c.metrics.RecordDeposit(time.Since(start), c.store.NumRetained())
}

// ranksWith yields the retained ranks followed by the pending rank.
func (c *Column) ranksWith(pending uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for r := range c.store.Ranks() {
			if !yield(r) {
				return
			}
		}
		yield(pending)
	}
}

// DepositStrata deposits k strata without annotation.
func (c *Column) DepositStrata(k int) {
	for range k {
		c.DepositStratum()
	}
}

// Clone returns a deep copy of c. The copy shares c's generator, so the two
// draw independent fingerprints from here on.
func (c *Column) Clone() *Column {
	clone := *c
	clone.store = c.store.Clone()
	return &clone
}

// CloneWithGenerator is like Clone but draws future fingerprints from g.
func (c *Column) CloneWithGenerator(g *differentia.Generator) *Column {
	clone := c.Clone()
	clone.generator = g
	return clone
}

// MakeDescendant returns a clone with one more stratum deposited.
func (c *Column) MakeDescendant() *Column {
	return c.MakeAnnotatedDescendant(nil)
}

// MakeAnnotatedDescendant returns a clone with one more annotated stratum deposited.
func (c *Column) MakeAnnotatedDescendant(annotation any) *Column {
	d := c.Clone()
	d.DepositAnnotatedStratum(annotation)
	return d
}

// Policy returns the column's retention policy.
func (c *Column) Policy() policy.Policy { return c.policy }

// DifferentiaBitWidth returns the fingerprint width in bits.
func (c *Column) DifferentiaBitWidth() int { return c.width }

// NumStrataDeposited returns the number of depositions completed.
func (c *Column) NumStrataDeposited() uint64 { return c.numDeposited }

// NumStrataRetained returns the number of strata held.
func (c *Column) NumStrataRetained() int { return c.store.NumRetained() }

// HasDiscardedStrata reports whether any stratum has been condemned.
func (c *Column) HasDiscardedStrata() bool {
	return uint64(c.store.NumRetained()) < c.numDeposited
}

// RetainedRanks yields retained ranks in ascending order.
func (c *Column) RetainedRanks() iter.Seq[uint64] { return c.store.Ranks() }

// RetainedDifferentiae yields retained fingerprints in ascending rank order.
func (c *Column) RetainedDifferentiae() iter.Seq[differentia.Differentia] {
	return func(yield func(differentia.Differentia) bool) {
		for _, d := range c.store.Pairs(0) {
			if !yield(d) {
				return
			}
		}
	}
}

// RankDifferentiaPairs yields (rank, differentia) in ascending rank order.
func (c *Column) RankDifferentiaPairs() iter.Seq2[uint64, differentia.Differentia] {
	return c.store.Pairs(0)
}

// RankAtColumnIndex returns the rank at column index i.
func (c *Column) RankAtColumnIndex(i int) uint64 { return c.store.RankAt(i) }

// DifferentiaAtColumnIndex returns the fingerprint at column index i.
func (c *Column) DifferentiaAtColumnIndex(i int) differentia.Differentia {
	return c.store.StratumAt(i).Differentia
}

// StratumAtColumnIndex returns the stratum at column index i with its rank set.
func (c *Column) StratumAtColumnIndex(i int) model.Stratum {
	return c.store.StratumAt(i).WithRank(c.store.RankAt(i))
}

// ColumnIndexOfRank returns the column index holding rank.
func (c *Column) ColumnIndexOfRank(rank uint64) (int, bool) {
	return c.store.IndexOfRank(rank)
}

// StratumAtRank returns the retained stratum deposited at rank.
func (c *Column) StratumAtRank(rank uint64) (model.Stratum, bool) {
	i, ok := c.store.IndexOfRank(rank)
	if !ok {
		return model.Stratum{}, false
	}
	return c.StratumAtColumnIndex(i), true
}

// Specimen returns an immutable snapshot of the column.
func (c *Column) Specimen() *Specimen {
	return SpecimenFromColumn(c)
}

// String returns a short description of the column.
func (c *Column) String() string {
	return fmt.Sprintf("Column(%s, width=%d, deposited=%d, retained=%d)",
		c.policy.Spec(), c.width, c.numDeposited, c.store.NumRetained())
}

// RestoreColumn rebuilds a live column from a specimen captured under p.
// The specimen's ranks must be exactly the ranks p retains after its deposit
// count. The differentia width is taken from the specimen; other options
// apply as for NewColumn, except that no stratum is deposited.
func RestoreColumn(p policy.Policy, s *Specimen, optFns ...Option) (*Column, error) {
	o := applyOptions(optFns)
	o.width = s.DifferentiaBitWidth()

	c, err := restoreColumn(p, s, o)
	spec := ""
	if p != nil {
		spec = p.Spec().String()
	}
	o.logger.LogColumnRestored(context.Background(), spec, s.NumStrataDeposited(), s.NumStrataRetained(), err)

	return c, err
}

func restoreColumn(p policy.Policy, s *Specimen, o options) (*Column, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil policy", ErrPolicyMismatch)
	}

	n := s.NumStrataDeposited()
	if err := checkPolicyRanks(p, n, s.ranks); err != nil {
		return nil, err
	}

	c, _ := newEmptyColumn(p, o)
	for i, r := range s.ranks {
		c.store.Append(r, model.NewStratum(s.differentiae[i], nil))
	}
	c.numDeposited = n

	return c, nil
}

func checkPolicyRanks(p policy.Policy, n uint64, ranks []uint64) error {
	if p.HasClosedForm() {
		want := slices.Collect(p.RetainedRanks(n))
		if !slices.Equal(want, ranks) {
			return fmt.Errorf("%w: %s after %d deposits retains %d ranks, got %d",
				ErrPolicyMismatch, p.Spec(), n, len(want), len(ranks))
		}
		return nil
	}

	if n > 0 && (len(ranks) == 0 || ranks[0] != 0 || ranks[len(ranks)-1] != n-1) {
		return fmt.Errorf("%w: first and newest rank must be retained", ErrPolicyMismatch)
	}
	for _, r := range ranks {
		if !p.Retain(r, n) {
			return fmt.Errorf("%w: %s does not retain rank %d after %d deposits",
				ErrPolicyMismatch, p.Spec(), r, n)
		}
	}

	return nil
}
