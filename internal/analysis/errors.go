package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the aggregation stages. All core errors are
// terminal for the current computation; nothing here is retryable.
var (
	// ErrEmptyInput is returned when a stage that needs a min/max date
	// range receives zero rows.
	ErrEmptyInput = errors.New("empty input: no rows to aggregate")

	// ErrInvalidRange is returned when a range-scoped aggregator is
	// given a start date after its end date.
	ErrInvalidRange = errors.New("invalid range: start date after end date")

	// ErrMissingColumn is returned when a required column is absent
	// from the input.
	ErrMissingColumn = errors.New("required column missing")
)

// ParseError reports a raw value that did not match the expected format.
// Parsing is batch-atomic: the first bad row fails the whole batch.
type ParseError struct {
	Row   int    // zero-based input row
	Field string // offending column
	Value string // raw value
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: field %q: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: field %q: cannot parse %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
