/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

AMOUNT ENCODING:
  Amounts travel as JSON numbers (float64) for client convenience; they
  are re-parsed into decimals at the boundary before any arithmetic.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/amortization-engine/amort"
)

// =============================================================================
// CONTRACT TYPES
// =============================================================================

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	ContractID     int64   `json:"contractId"`
	TotalAmount    float64 `json:"totalAmount"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	TaxRate        float64 `json:"taxRate"`
	VendorName     string  `json:"vendorName"`
	AttachmentName string  `json:"attachmentName"`
	CreatedAt      string  `json:"createdAt"`
	Status         string  `json:"status"`
}

// ContractsListResponse is one page of the contract list.
type ContractsListResponse struct {
	Contracts  []ContractDTO `json:"contracts"`
	TotalCount int           `json:"totalCount"`
}

// UpdateContractRequest carries the editable contract fields.
type UpdateContractRequest struct {
	TotalAmount float64 `json:"totalAmount"`
	StartDate   string  `json:"startDate"` // yyyy-MM-dd
	EndDate     string  `json:"endDate"`   // yyyy-MM-dd
	TaxRate     float64 `json:"taxRate"`
	VendorName  string  `json:"vendorName"`
}

// =============================================================================
// AMORTIZATION TYPES
// =============================================================================

// AmortizationEntryDTO represents one schedule row. ID is null for rows
// that have not been persisted yet.
type AmortizationEntryDTO struct {
	ID                 *int64  `json:"id"`
	AmortizationPeriod string  `json:"amortizationPeriod"`
	AccountingPeriod   string  `json:"accountingPeriod"`
	Amount             float64 `json:"amount"`
	Status             string  `json:"status,omitempty"`
}

// CalculateResponse is a freshly generated schedule.
type CalculateResponse struct {
	TotalAmount float64                `json:"totalAmount"`
	StartDate   string                 `json:"startDate"` // YYYY-MM
	EndDate     string                 `json:"endDate"`   // YYYY-MM
	Scenario    string                 `json:"scenario"`
	GeneratedAt string                 `json:"generatedAt"`
	Entries     []AmortizationEntryDTO `json:"entries"`
}

// ConfirmRequest carries the operator-edited rows for commit.
type ConfirmRequest struct {
	Entries []AmortizationEntryDTO `json:"entries"`
}

// ConfirmResponse returns the committed, persisted rows.
type ConfirmResponse struct {
	Entries []AmortizationEntryDTO `json:"entries"`
}

// RowViolationDTO reports one row-level validation failure.
type RowViolationDTO struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error      string            `json:"error"`
	Details    any               `json:"details,omitempty"`
	Violations []RowViolationDTO `json:"violations,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toContractDTO(c amort.Contract) ContractDTO {
	total, _ := c.TotalAmount.Float64()
	tax, _ := c.TaxRate.Float64()
	return ContractDTO{
		ContractID:     int64(c.ID),
		TotalAmount:    total,
		StartDate:      c.StartDate.Format("2006-01-02"),
		EndDate:        c.EndDate.Format("2006-01-02"),
		TaxRate:        tax,
		VendorName:     c.VendorName,
		AttachmentName: c.AttachmentName,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		Status:         string(c.Status),
	}
}

func toContractDTOs(cs []amort.Contract) []ContractDTO {
	dtos := make([]ContractDTO, len(cs))
	for i, c := range cs {
		dtos[i] = toContractDTO(c)
	}
	return dtos
}

func toEntryDTO(e amort.AmortizationEntry) AmortizationEntryDTO {
	amount, _ := e.Amount.Float64()
	return AmortizationEntryDTO{
		ID:                 e.ID,
		AmortizationPeriod: e.AmortizationPeriod,
		AccountingPeriod:   e.AccountingPeriod,
		Amount:             amount,
		Status:             string(e.Status),
	}
}

func toEntryDTOs(entries []amort.AmortizationEntry) []AmortizationEntryDTO {
	dtos := make([]AmortizationEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

func fromEntryDTO(dto AmortizationEntryDTO) amort.AmortizationEntry {
	status := amort.EntryStatus(dto.Status)
	if status == "" {
		status = amort.StatusPending
	}
	return amort.AmortizationEntry{
		ID:                 dto.ID,
		AmortizationPeriod: amort.NormalizeMonth(dto.AmortizationPeriod),
		AccountingPeriod:   amort.NormalizeMonth(dto.AccountingPeriod),
		Amount:             decimal.NewFromFloat(dto.Amount).Round(2),
		Status:             status,
	}
}

func fromEntryDTOs(dtos []AmortizationEntryDTO) []amort.AmortizationEntry {
	entries := make([]amort.AmortizationEntry, len(dtos))
	for i, dto := range dtos {
		entries[i] = fromEntryDTO(dto)
	}
	return entries
}

func toViolationDTOs(violations []amort.RowViolation) []RowViolationDTO {
	dtos := make([]RowViolationDTO, len(violations))
	for i, v := range violations {
		dtos[i] = RowViolationDTO{Row: v.Index, Field: v.Field, Reason: v.Reason}
	}
	return dtos
}
