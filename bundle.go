package hstrat

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/hstrat/policy"
)

// Bundle is a named set of columns that deposit in lock-step.
// It does not compare columns itself; compare them per name.
type Bundle struct {
	columns map[string]*Column
	names   []string
}

// NewBundle groups columns under their names. Every column must have the
// same number of deposited strata. The map is copied; the columns are not.
func NewBundle(columns map[string]*Column) (*Bundle, error) {
	b := &Bundle{
		columns: maps.Clone(columns),
		names:   slices.Sorted(maps.Keys(columns)),
	}
	if b.columns == nil {
		b.columns = map[string]*Column{}
	}

	for _, name := range b.names {
		c := b.columns[name]
		if c == nil {
			return nil, fmt.Errorf("hstrat: bundle column %q is nil", name)
		}
		if n := b.columns[b.names[0]].NumStrataDeposited(); c.NumStrataDeposited() != n {
			return nil, fmt.Errorf("%w: %q has %d, %q has %d",
				ErrBundleMismatch, name, c.NumStrataDeposited(), b.names[0], n)
		}
	}

	return b, nil
}

// NewBundleFromPolicies builds one fresh column per policy, all configured
// with the same options.
func NewBundleFromPolicies(policies map[string]policy.Policy, optFns ...Option) *Bundle {
	columns := make(map[string]*Column, len(policies))
	for name, p := range policies {
		columns[name] = NewColumn(p, optFns...)
	}

	b, err := NewBundle(columns)
	if err != nil {
		panic(err)
	}

	return b
}

// DepositStratum deposits one stratum into every column.
func (b *Bundle) DepositStratum() {
	b.DepositAnnotatedStratum(nil)
}

// DepositAnnotatedStratum deposits one annotated stratum into every column,
// in name order.
func (b *Bundle) DepositAnnotatedStratum(annotation any) {
	for _, name := range b.names {
		b.columns[name].DepositAnnotatedStratum(annotation)
	}
}

// NumStrataDeposited returns the deposit count shared by all columns.
func (b *Bundle) NumStrataDeposited() uint64 {
	if len(b.names) == 0 {
		return 0
	}
	return b.columns[b.names[0]].NumStrataDeposited()
}

// Column returns the column registered under name.
func (b *Bundle) Column(name string) (*Column, bool) {
	c, ok := b.columns[name]
	return c, ok
}

// Names returns the column names in sorted order.
func (b *Bundle) Names() []string { return slices.Clone(b.names) }

// Len returns the number of columns.
func (b *Bundle) Len() int { return len(b.names) }

// Clone deep-copies every column.
func (b *Bundle) Clone() *Bundle {
	columns := make(map[string]*Column, len(b.columns))
	for name, c := range b.columns {
		columns[name] = c.Clone()
	}
	return &Bundle{columns: columns, names: slices.Clone(b.names)}
}

// MakeDescendant returns a clone with one more stratum deposited in every column.
func (b *Bundle) MakeDescendant() *Bundle {
	return b.MakeAnnotatedDescendant(nil)
}

// MakeAnnotatedDescendant returns a clone with one more annotated stratum
// deposited in every column.
func (b *Bundle) MakeAnnotatedDescendant(annotation any) *Bundle {
	d := b.Clone()
	d.DepositAnnotatedStratum(annotation)
	return d
}
