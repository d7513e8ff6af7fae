package records

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecords is the sentinel behind every consistency failure.
	ErrInvalidRecords = errors.New("invalid records")

	// ErrChecksumMismatch is returned when an envelope payload fails its CRC32C check.
	ErrChecksumMismatch = errors.New("records: checksum mismatch")

	// ErrCorruptEnvelope is returned for truncated envelopes or unknown compression types.
	ErrCorruptEnvelope = errors.New("records: corrupt envelope")
)

// FieldError names the record field that failed validation.
// It matches ErrInvalidRecords with errors.Is, and Err when set.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid records: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid records: %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidRecords}
	}
	return []error{ErrInvalidRecords, e.Err}
}

func fieldErr(field, reason string, err error) *FieldError {
	return &FieldError{Field: field, Reason: reason, Err: err}
}
