/*
handlers_test.go - End-to-end tests for the HTTP API

Exercises the full flow over an in-memory SQLite store:
upload -> list -> calculate -> confirm -> reload saved entries.
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/amortization-engine/contracts"
	"github.com/warp/amortization-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	schedules := contracts.NewScheduleService(store, store)
	schedules.Now = func() time.Time {
		return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	}

	srv := httptest.NewServer(NewRouter(NewHandler(store, schedules)))
	t.Cleanup(srv.Close)
	return srv
}

func uploadContract(t *testing.T, srv *httptest.Server, filename string) ContractDTO {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test contract"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/contracts/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto ContractDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	return dto
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, srv *httptest.Server, path string, in, out any) int {
	t.Helper()
	payload, err := json.Marshal(in)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// CONTRACT API TESTS
// =============================================================================

func TestAPI_UploadThenList(t *testing.T) {
	srv := newTestServer(t)

	created := uploadContract(t, srv, "supplier-a.pdf")
	assert.NotZero(t, created.ContractID)
	assert.Equal(t, "Vendor supplier-a", created.VendorName)
	assert.True(t, strings.HasSuffix(created.AttachmentName, ".pdf"))
	assert.Equal(t, "ACTIVE", created.Status)

	var list ContractsListResponse
	status := getJSON(t, srv, "/api/contracts?page=0&size=10", &list)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, list.TotalCount)
	require.Len(t, list.Contracts, 1)
	assert.Equal(t, created.ContractID, list.Contracts[0].ContractID)
}

func TestAPI_GetContract_NotFound(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv, "/api/contracts/99", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv, "/api/contracts/not-a-number", nil))
}

func TestAPI_UpdateContract(t *testing.T) {
	srv := newTestServer(t)
	created := uploadContract(t, srv, "supplier-a.pdf")

	payload, err := json.Marshal(UpdateContractRequest{
		TotalAmount: 9000,
		StartDate:   "2024-01-01",
		EndDate:     "2024-12-31",
		TaxRate:     0.13,
		VendorName:  "Vendor A2",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/contracts/%d", srv.URL, created.ContractID), bytes.NewReader(payload))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated ContractDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, 9000.0, updated.TotalAmount)
	assert.Equal(t, "Vendor A2", updated.VendorName)
	assert.Equal(t, created.AttachmentName, updated.AttachmentName)
}

func TestAPI_UpdateContract_RejectsInvalidFields(t *testing.T) {
	srv := newTestServer(t)
	created := uploadContract(t, srv, "supplier-a.pdf")

	payload, err := json.Marshal(UpdateContractRequest{
		TotalAmount: 0, // invalid
		StartDate:   "2024-01-01",
		EndDate:     "2024-12-31",
		TaxRate:     0.06,
		VendorName:  "Vendor A",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/contracts/%d", srv.URL, created.ContractID), bytes.NewReader(payload))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// AMORTIZATION API TESTS
// =============================================================================

func TestAPI_CalculateAmortization(t *testing.T) {
	srv := newTestServer(t)
	created := uploadContract(t, srv, "supplier-a.pdf")

	// The parsed upload covers 2024-01 .. 2024-06 at 6000 total.
	var calc CalculateResponse
	status := getJSON(t, srv,
		fmt.Sprintf("/api/amortization/calculate/%d", created.ContractID), &calc)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 6000.0, calc.TotalAmount)
	assert.Equal(t, "2024-01", calc.StartDate)
	assert.Equal(t, "2024-06", calc.EndDate)
	assert.Equal(t, "IN_PROGRESS", calc.Scenario)
	require.Len(t, calc.Entries, 6)
	for i, e := range calc.Entries {
		assert.Nil(t, e.ID, "generated row %d is unpersisted", i)
		assert.Equal(t, 1000.0, e.Amount)
		assert.Equal(t, "PENDING", e.Status)
		assert.Equal(t, e.AmortizationPeriod, e.AccountingPeriod)
	}
}

func TestAPI_ConfirmAmortization_PersistsEditedRows(t *testing.T) {
	srv := newTestServer(t)
	created := uploadContract(t, srv, "supplier-a.pdf")

	var calc CalculateResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv,
		fmt.Sprintf("/api/amortization/calculate/%d", created.ContractID), &calc))

	// Operator edit: drop the last row, fold its amount into the fifth.
	edited := calc.Entries[:5]
	edited[4].Amount = 2000

	var confirmed ConfirmResponse
	status := postJSON(t, srv,
		fmt.Sprintf("/api/amortization/%d/confirm", created.ContractID),
		ConfirmRequest{Entries: edited}, &confirmed)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, confirmed.Entries, 5)
	for i, e := range confirmed.Entries {
		require.NotNil(t, e.ID, "committed row %d must be persisted", i)
	}
	assert.Equal(t, 2000.0, confirmed.Entries[4].Amount)

	var saved ConfirmResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv,
		fmt.Sprintf("/api/amortization/%d/entries", created.ContractID), &saved))
	assert.Len(t, saved.Entries, 5)
}

func TestAPI_ConfirmAmortization_ReportsRowViolations(t *testing.T) {
	srv := newTestServer(t)
	created := uploadContract(t, srv, "supplier-a.pdf")

	var calc CalculateResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv,
		fmt.Sprintf("/api/amortization/calculate/%d", created.ContractID), &calc))

	calc.Entries[1].AmortizationPeriod = ""
	calc.Entries[3].Amount = -50

	var errResp ErrorResponse
	status := postJSON(t, srv,
		fmt.Sprintf("/api/amortization/%d/confirm", created.ContractID),
		ConfirmRequest{Entries: calc.Entries}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)
	require.Len(t, errResp.Violations, 2)
	assert.Equal(t, 1, errResp.Violations[0].Row)
	assert.Equal(t, "amortizationPeriod", errResp.Violations[0].Field)
	assert.Equal(t, 3, errResp.Violations[1].Row)
	assert.Equal(t, "amount", errResp.Violations[1].Field)

	// Nothing persisted after a failed confirm.
	var saved ConfirmResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv,
		fmt.Sprintf("/api/amortization/%d/entries", created.ContractID), &saved))
	assert.Empty(t, saved.Entries)
}

func TestAPI_ConfirmAmortization_EmptySetRejected(t *testing.T) {
	srv := newTestServer(t)
	created := uploadContract(t, srv, "supplier-a.pdf")

	status := postJSON(t, srv,
		fmt.Sprintf("/api/amortization/%d/confirm", created.ContractID),
		ConfirmRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
