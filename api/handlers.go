/*
handlers.go - HTTP API handlers for the contract administration system

PURPOSE:
  Exposes the contract directory and the amortization engine via REST
  API. Handles HTTP request/response, JSON serialization, and delegates
  to domain logic.

ENDPOINTS:
  Contracts:
    GET  /api/contracts                      List contracts (page, size)
    POST /api/contracts/upload               Upload + parse a contract file
    GET  /api/contracts/{id}                 Get contract details
    PUT  /api/contracts/{id}                 Update editable fields

  Amortization:
    GET  /api/amortization/calculate/{id}    Generate schedule + scenario
    POST /api/amortization/{id}/confirm      Commit edited schedule rows
    GET  /api/amortization/{id}/entries      Previously committed rows

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Directory: Contract source of record (fixture or SQLite)
  - Schedules: Calculation, commit gate, and entry persistence

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (row violations included)
  - 404: Contract not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/amortization-engine/amort"
	"github.com/warp/amortization-engine/contracts"
)

// maxUploadBytes caps contract file uploads at 16 MiB.
const maxUploadBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Directory contracts.Directory
	Schedules *contracts.ScheduleService
}

// NewHandler creates a new handler over the given directory and schedule
// service.
func NewHandler(dir contracts.Directory, schedules *contracts.ScheduleService) *Handler {
	return &Handler{Directory: dir, Schedules: schedules}
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns one page of contracts, newest first.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 10)

	result, err := h.Directory.List(r.Context(), page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	writeJSON(w, http.StatusOK, ContractsListResponse{
		Contracts:  toContractDTOs(result.Contracts),
		TotalCount: result.TotalCount,
	})
}

// GetContract returns a single contract.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}

	c, err := h.Directory.Get(r.Context(), id)
	if err != nil {
		writeDirectoryError(w, err, "Failed to get contract")
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// UploadContract accepts a multipart contract file, parses it, and
// registers the resulting contract.
func (h *Handler) UploadContract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	file.Close() // The parse simulation only needs the filename.

	parsed := contracts.ParseUpload(header.Filename, h.Schedules.Now().UTC())
	created, err := h.Directory.Create(r.Context(), parsed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(created))
}

// UpdateContract replaces the editable fields of a contract.
func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}

	var req UpdateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate format (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate format (use YYYY-MM-DD)", err)
		return
	}

	updated, err := h.Directory.Update(r.Context(), id, contracts.UpdateRequest{
		TotalAmount: decimal.NewFromFloat(req.TotalAmount).Round(2),
		StartDate:   start,
		EndDate:     end,
		TaxRate:     decimal.NewFromFloat(req.TaxRate),
		VendorName:  req.VendorName,
	})
	if err != nil {
		var fe *contracts.FieldError
		if errors.As(err, &fe) {
			writeError(w, http.StatusBadRequest, fe.Error(), nil)
			return
		}
		writeDirectoryError(w, err, "Failed to update contract")
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(updated))
}

// =============================================================================
// AMORTIZATION HANDLERS
// =============================================================================

// CalculateAmortization generates the schedule for a stored contract.
func (h *Handler) CalculateAmortization(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}

	s, err := h.Schedules.Calculate(r.Context(), id)
	if err != nil {
		if amort.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Contract cannot be amortized", err)
			return
		}
		writeDirectoryError(w, err, "Failed to calculate amortization")
		return
	}

	total, _ := s.TotalAmount.Float64()
	writeJSON(w, http.StatusOK, CalculateResponse{
		TotalAmount: total,
		StartDate:   s.StartMonth.String(),
		EndDate:     s.EndMonth.String(),
		Scenario:    string(s.Scenario),
		GeneratedAt: s.GeneratedAt.Format(time.RFC3339),
		Entries:     toEntryDTOs(s.Entries),
	})
}

// ConfirmAmortization commits operator-edited rows through the
// reconciliation workflow. Per-row violations come back as 400.
func (h *Handler) ConfirmAmortization(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "Schedule must have at least one row", nil)
		return
	}

	saved, err := h.Schedules.ConfirmEdited(r.Context(), id, fromEntryDTOs(req.Entries))
	if err != nil {
		var ve *amort.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:      "Schedule validation failed",
				Violations: toViolationDTOs(ve.Violations),
			})
			return
		}
		writeDirectoryError(w, err, "Failed to confirm schedule")
		return
	}
	writeJSON(w, http.StatusOK, ConfirmResponse{Entries: toEntryDTOs(saved)})
}

// GetSavedEntries returns the contract's previously committed rows.
func (h *Handler) GetSavedEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}

	entries, err := h.Schedules.SavedEntries(r.Context(), id)
	if err != nil {
		writeDirectoryError(w, err, "Failed to load saved entries")
		return
	}
	writeJSON(w, http.StatusOK, ConfirmResponse{Entries: toEntryDTOs(entries)})
}

// =============================================================================
// HELPERS
// =============================================================================

func contractID(w http.ResponseWriter, r *http.Request) (amort.ContractID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid contract id", err)
		return 0, false
	}
	return amort.ContractID(id), true
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeDirectoryError(w http.ResponseWriter, err error, message string) {
	if contracts.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
