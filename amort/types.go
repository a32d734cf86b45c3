/*
Package amort provides the core amortization schedule engine.

PURPOSE:
  This package contains the pure types and algorithms for deriving a
  month-by-month amortization schedule from a contract, classifying the
  contract's temporal scenario, and running the editable-reconciliation
  workflow over a scoped working copy of the schedule.

KEY CONCEPTS IN THIS FILE (types.go):
  - Contract: Immutable input record (total amount, validity window)
  - AmortizationEntry: One scheduled monthly allocation
  - AmortizationSchedule: The full ordered set of entries for a contract
  - Scenario: Temporal classification of "now" vs. the validity window

DESIGN PRINCIPLES:
  1. Purity: Generation and classification have no side effects
  2. Precision: Uses decimal.Decimal to avoid floating-point drift
  3. Exactness: Entry amounts always sum to the contract total to the cent
  4. Isolation: The engine never performs I/O; hosts inject data

USAGE:
  schedule, err := amort.Generate(contract, time.Now())
  wf := amort.NewReconciliationWorkflow(onCommit, onCancel)
  wf.Seed(wf.NewSession(), schedule)

SEE ALSO:
  - generate.go: Schedule derivation and rounding policy
  - store.go:    Editable working copy of a schedule
  - workflow.go: Commit/discard lifecycle
*/
package amort

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRACT - Read-only input to the engine
// =============================================================================

type ContractID int64

type ContractStatus string

const (
	ContractActive   ContractStatus = "ACTIVE"
	ContractInactive ContractStatus = "INACTIVE"
	ContractExpired  ContractStatus = "EXPIRED"
)

// Contract is the external input record. Immutable once passed into the
// engine; the engine never repairs a malformed contract, it rejects it.
type Contract struct {
	ID             ContractID
	TotalAmount    decimal.Decimal
	StartDate      time.Time // calendar date, time-of-day ignored
	EndDate        time.Time // calendar date, must be >= StartDate
	TaxRate        decimal.Decimal
	VendorName     string
	AttachmentName string
	CreatedAt      time.Time
	Status         ContractStatus
}

// =============================================================================
// AMORTIZATION ENTRY - One monthly allocation
// =============================================================================

type EntryStatus string

const (
	StatusPending   EntryStatus = "PENDING"
	StatusCompleted EntryStatus = "COMPLETED"
)

// AmortizationEntry is one scheduled monthly allocation of the contract
// total. ID is nil until the row has been persisted by a host store.
type AmortizationEntry struct {
	ID                 *int64
	AmortizationPeriod string // "YYYY-MM"
	AccountingPeriod   string // "YYYY-MM"
	Amount             decimal.Decimal
	Status             EntryStatus
}

// Equal reports whether two entries carry the same data. Persisted IDs are
// compared by value; a nil ID only equals another nil ID.
func (e AmortizationEntry) Equal(other AmortizationEntry) bool {
	if (e.ID == nil) != (other.ID == nil) {
		return false
	}
	if e.ID != nil && *e.ID != *other.ID {
		return false
	}
	return e.AmortizationPeriod == other.AmortizationPeriod &&
		e.AccountingPeriod == other.AccountingPeriod &&
		e.Amount.Equal(other.Amount) &&
		e.Status == other.Status
}

// =============================================================================
// SCENARIO - Temporal classification
// =============================================================================

type Scenario string

const (
	ScenarioBeforeStart Scenario = "BEFORE_START"
	ScenarioInProgress  Scenario = "IN_PROGRESS"
	ScenarioAfterEnd    Scenario = "AFTER_END"
)

// =============================================================================
// SCHEDULE - Derived value, not separately persisted
// =============================================================================

type AmortizationSchedule struct {
	TotalAmount decimal.Decimal
	StartMonth  Month
	EndMonth    Month
	Scenario    Scenario
	GeneratedAt time.Time
	Entries     []AmortizationEntry
}

// Sum returns the total of all entry amounts.
func (s AmortizationSchedule) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range s.Entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// MustParseDecimal parses s, returning zero on malformed input.
// Intended for fixtures and tests, not request handling.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
