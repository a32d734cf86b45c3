/*
Package contracts implements the contract-administration host around the
amortization engine.

PURPOSE:
  The engine (package amort) is pure; this package supplies the data it
  consumes. It defines the contract directory boundary (list, fetch,
  upload, update), the schedule persistence boundary, and the concrete
  data sources: an in-memory fixture set for demos/tests and a
  SQLite-backed directory (store/sqlite).

DATA SOURCE STRATEGY:
  Which Directory implementation a host uses is an explicit construction
  decision (a flag in cmd/server/main.go), never a module-level toggle.
  Engine code stays free of I/O concerns entirely.

SEE ALSO:
  - fixture.go:           In-memory fixture directory
  - service.go:           Schedule calculation and persistence
  - store/sqlite:         Production directory
*/
package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/amortization-engine/amort"
)

// =============================================================================
// DIRECTORY - Contract source of record
// =============================================================================

var (
	// ErrContractNotFound is returned when a referenced contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")
)

// Page is one page of the contract list, newest first.
type Page struct {
	Contracts  []amort.Contract
	TotalCount int
}

// UpdateRequest carries the editable contract fields.
type UpdateRequest struct {
	TotalAmount decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	TaxRate     decimal.Decimal
	VendorName  string
}

// Directory is the contract source of record. Implementations: Fixture
// (in-memory) and sqlite.Store.
type Directory interface {
	// List returns one page of contracts, newest first. Pages count from 0.
	List(ctx context.Context, page, size int) (Page, error)

	// Get returns a single contract or ErrContractNotFound.
	Get(ctx context.Context, id amort.ContractID) (amort.Contract, error)

	// Create registers a new contract (typically the result of
	// ParseUpload) and returns it with its assigned ID.
	Create(ctx context.Context, c amort.Contract) (amort.Contract, error)

	// Update replaces the editable fields of a contract. The attachment
	// name and creation time are preserved.
	Update(ctx context.Context, id amort.ContractID, req UpdateRequest) (amort.Contract, error)
}

// IsNotFound returns true if the error indicates a missing contract.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound)
}

// =============================================================================
// UPDATE VALIDATION
// =============================================================================

// FieldError reports one invalid field on an update or upload request.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateUpdate checks an UpdateRequest against the contract rules:
// positive total, ordered dates, non-empty vendor, tax rate in [0, 1].
func ValidateUpdate(req UpdateRequest) error {
	if !req.TotalAmount.IsPositive() {
		return &FieldError{Field: "totalAmount", Reason: "must be greater than 0"}
	}
	if req.EndDate.Before(req.StartDate) {
		return &FieldError{Field: "endDate", Reason: "must not precede startDate"}
	}
	if req.VendorName == "" {
		return &FieldError{Field: "vendorName", Reason: "must not be empty"}
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return &FieldError{Field: "taxRate", Reason: "must be within [0, 1]"}
	}
	return nil
}
