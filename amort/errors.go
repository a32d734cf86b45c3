/*
errors.go - Centralized error types for the amortization engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Host packages should wrap these errors with additional context.

ERROR CATEGORIES:
  1. Generation errors - Malformed contract input (caller-fixable)
  2. Validation errors - Per-row violations, recoverable by editing
  3. Workflow errors   - Operations outside an active session

USAGE:
  Hosts can branch on sentinels:

    if errors.Is(err, amort.ErrInvalidAmount) {
        // reject the contract upstream
    }

SEE ALSO:
  - generate.go: Returns generation errors
  - workflow.go: Returns validation and workflow errors
*/
package amort

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidContractRange is returned when a contract's end date
	// precedes its start date. The contract record itself is malformed
	// and should be rejected upstream, not silently repaired.
	ErrInvalidContractRange = errors.New("invalid contract range: end before start")

	// ErrInvalidAmount is returned when a contract's total amount is not
	// strictly positive.
	ErrInvalidAmount = errors.New("invalid contract amount")

	// ErrNoActiveSession is returned when Confirm is called with no
	// seeded editing session.
	ErrNoActiveSession = errors.New("no active editing session")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidAmountError reports the offending total amount.
type InvalidAmountError struct {
	TotalAmount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid contract amount: %s (must be > 0)", e.TotalAmount)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// InvalidRangeError reports the offending validity window.
type InvalidRangeError struct {
	Start Month
	End   Month
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid contract range: %s before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidContractRange }

// RowViolation describes one validation failure on one row.
type RowViolation struct {
	Index  int    // position in the working copy
	Key    RowKey // transient row identity
	Field  string // "amortizationPeriod", "accountingPeriod", "amount"
	Reason string
}

func (v RowViolation) String() string {
	return fmt.Sprintf("row %d (%s): %s %s", v.Index, v.Key, v.Field, v.Reason)
}

// ValidationError aggregates every row-level violation found in a working
// copy. Commit is all-or-nothing: one bad row blocks the whole set.
type ValidationError struct {
	Violations []RowViolation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schedule validation failed: %d row(s) invalid", len(e.Violations))
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// and retrying without a change cannot succeed.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidContractRange) ||
		errors.As(err, &ve)
}
