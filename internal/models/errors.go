package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the engine
var (
	ErrEmptyLedger      = errors.New("trade ledger is empty")
	ErrNoLosingTrades   = errors.New("ledger contains no losing trades")
	ErrRecordNotFound   = errors.New("record not found")
	ErrNilChallenge     = errors.New("challenge parameters are required")
)

// ValidationError reports a malformed or out-of-range input value. It
// always names the offending field so callers can surface an actionable
// message.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// NewValidationError constructs a ValidationError for a named field
func NewValidationError(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientDataError reports a ledger too small for meaningful
// statistics. The call fails rather than returning a degenerate result.
type InsufficientDataError struct {
	Got int
	Min int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient trade data: got %d trades, need at least %d", e.Got, e.Min)
}

// IsInsufficientData reports whether err is an InsufficientDataError
func IsInsufficientData(err error) bool {
	var ie *InsufficientDataError
	return errors.As(err, &ie)
}
