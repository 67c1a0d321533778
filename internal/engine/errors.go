package engine

import (
	"errors"
	"fmt"
)

// Sentinel conditions surfaced per fund. ValidationError aborts a request
// before any work starts; the sentinels below only fail the slot they
// belong to.
var (
	// ErrLookupMiss: the fund code is unknown to the directory.
	ErrLookupMiss = errors.New("fund code not found")
	// ErrInsufficientData: the NAV series is empty or missing entirely.
	ErrInsufficientData = errors.New("insufficient nav data")
	// ErrDataUnavailable: the provider returned no or partial data.
	ErrDataUnavailable = errors.New("market data unavailable")
)

// ValidationError reports malformed or out-of-range input. It is returned
// synchronously and no batch work is started.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ComputeError marks an unexpected numeric condition inside the engine,
// e.g. a non-positive rolling high. It fails the fund's slot but never the
// orchestrator.
type ComputeError struct {
	Op  string
	Err error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }
