package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/amortization-engine/amort"
	"github.com/warp/amortization-engine/contracts"
	"github.com/warp/amortization-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testContract(vendor string, created time.Time) amort.Contract {
	return amort.Contract{
		TotalAmount:    amort.MustParseDecimal("6000.00"),
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		TaxRate:        amort.MustParseDecimal("0.06"),
		VendorName:     vendor,
		AttachmentName: "contract_test.pdf",
		CreatedAt:      created,
		Status:         amort.ContractActive,
	}
}

// =============================================================================
// CONTRACT PERSISTENCE TESTS
// =============================================================================

func TestStore_CreateAndGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testContract("Vendor A", time.Date(2024, time.January, 24, 14, 30, 52, 0, time.UTC)))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.True(t, got.TotalAmount.Equal(created.TotalAmount))
	assert.True(t, got.TaxRate.Equal(created.TaxRate))
	assert.True(t, got.StartDate.Equal(created.StartDate))
	assert.True(t, got.EndDate.Equal(created.EndDate))
	assert.Equal(t, "Vendor A", got.VendorName)
	assert.Equal(t, created.AttachmentName, got.AttachmentName)
	assert.Equal(t, amort.ContractActive, got.Status)
}

func TestStore_Get_Missing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, contracts.ErrContractNotFound)
}

func TestStore_List_NewestFirstWithPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	for i, vendor := range []string{"Vendor A", "Vendor B", "Vendor C"} {
		_, err := store.Create(ctx, testContract(vendor, base.AddDate(0, i, 0)))
		require.NoError(t, err)
	}

	page, err := store.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Contracts, 2)
	assert.Equal(t, "Vendor C", page.Contracts[0].VendorName)
	assert.Equal(t, "Vendor B", page.Contracts[1].VendorName)

	last, err := store.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, last.Contracts, 1)
	assert.Equal(t, "Vendor A", last.Contracts[0].VendorName)
}

func TestStore_Update_EditableFieldsOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testContract("Vendor A", time.Now().UTC()))
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, contracts.UpdateRequest{
		TotalAmount: amort.MustParseDecimal("9000.00"),
		StartDate:   time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.October, 31, 0, 0, 0, 0, time.UTC),
		TaxRate:     amort.MustParseDecimal("0.13"),
		VendorName:  "Vendor A2",
	})
	require.NoError(t, err)

	assert.True(t, updated.TotalAmount.Equal(amort.MustParseDecimal("9000.00")))
	assert.Equal(t, "Vendor A2", updated.VendorName)
	assert.Equal(t, created.AttachmentName, updated.AttachmentName)

	// Invalid update is rejected before touching the database.
	_, err = store.Update(ctx, created.ID, contracts.UpdateRequest{
		TotalAmount: amort.MustParseDecimal("0"),
		StartDate:   updated.StartDate,
		EndDate:     updated.EndDate,
		TaxRate:     updated.TaxRate,
		VendorName:  updated.VendorName,
	})
	var fe *contracts.FieldError
	assert.ErrorAs(t, err, &fe)

	// Missing contract surfaces as not found.
	_, err = store.Update(ctx, 999, contracts.UpdateRequest{
		TotalAmount: amort.MustParseDecimal("100.00"),
		StartDate:   updated.StartDate,
		EndDate:     updated.EndDate,
		TaxRate:     updated.TaxRate,
		VendorName:  "Vendor X",
	})
	assert.ErrorIs(t, err, contracts.ErrContractNotFound)
}

// =============================================================================
// ENTRY PERSISTENCE TESTS
// =============================================================================

func TestStore_ReplaceEntries_AssignsIDsAndSwapsWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testContract("Vendor A", time.Now().UTC()))
	require.NoError(t, err)

	schedule, err := amort.Generate(created, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	saved, err := store.ReplaceEntries(ctx, created.ID, schedule.Entries)
	require.NoError(t, err)
	require.Len(t, saved, 6)
	for i, e := range saved {
		require.NotNil(t, e.ID, "row %d should have a persisted ID", i)
	}

	loaded, err := store.Entries(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 6)
	for i := range saved {
		assert.True(t, saved[i].Equal(loaded[i]), "row %d mismatch", i)
	}

	// A second confirm replaces the previous schedule entirely.
	shorter := schedule.Entries[:2]
	_, err = store.ReplaceEntries(ctx, created.ID, shorter)
	require.NoError(t, err)

	loaded, err = store.Entries(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}
