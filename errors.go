package hstrat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpecimen is returned when specimen fields are inconsistent.
	ErrInvalidSpecimen = errors.New("invalid specimen")

	// ErrBundleMismatch is returned when bundle columns disagree on their
	// number of deposited strata.
	ErrBundleMismatch = errors.New("bundle columns have different deposit counts")

	// ErrPolicyMismatch is returned when restored strata are not the ranks
	// the policy would retain.
	ErrPolicyMismatch = errors.New("ranks do not match policy")
)

// ErrWidthMismatch is the panic value of comparing operands whose
// differentia bit widths differ.
type ErrWidthMismatch struct {
	A int
	B int
}

func (e *ErrWidthMismatch) Error() string {
	return fmt.Sprintf("differentia bit width mismatch: %d vs %d", e.A, e.B)
}
