package amort_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/amortization-engine/amort"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func seededStore(t *testing.T) (*amort.EditableScheduleStore, []amort.AmortizationEntry) {
	t.Helper()

	c := contract("6000.00", date(2024, time.January, 1), date(2024, time.June, 30))
	s, err := amort.Generate(c, date(2024, time.March, 1))
	require.NoError(t, err)

	store := amort.NewEditableScheduleStore()
	store.SetLogger(t.Logf)
	store.Seed(s.Entries)
	return store, s.Entries
}

func entriesEqual(t *testing.T, want, got []amort.AmortizationEntry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "entry %d differs: want %+v, got %+v", i, want[i], got[i])
	}
}

// =============================================================================
// STORE OPERATION TESTS
// =============================================================================

func TestStore_SeedThenSnapshot_IsIdempotent(t *testing.T) {
	// Seeding from a generated schedule and snapshotting immediately
	// must return exactly the generated entries.
	store, generated := seededStore(t)
	entriesEqual(t, generated, store.Snapshot())
}

func TestStore_Add_AppendsDefaultEditableRow(t *testing.T) {
	store, generated := seededStore(t)

	key := store.Add()
	rows := store.Rows()

	require.Len(t, rows, len(generated)+1)
	last := rows[len(rows)-1]
	assert.Equal(t, key, last.Key)
	assert.Nil(t, last.Entry.ID, "fresh row must not carry a persisted ID")
	assert.Empty(t, last.Entry.AmortizationPeriod)
	assert.Empty(t, last.Entry.AccountingPeriod)
	assert.True(t, last.Entry.Amount.IsZero())
	assert.Equal(t, amort.StatusPending, last.Entry.Status)
	assert.True(t, store.IsEditable(key))
}

func TestStore_SeededRowsAreEditable(t *testing.T) {
	store, _ := seededStore(t)
	for _, r := range store.Rows() {
		assert.True(t, store.IsEditable(r.Key))
	}
	removed := store.Rows()[0].Key
	store.Remove(removed)
	assert.False(t, store.IsEditable(removed))
}

func TestStore_AddThenRemove_RestoresPriorState(t *testing.T) {
	store, generated := seededStore(t)
	before := store.Snapshot()

	key := store.Add()
	store.Remove(key)

	entriesEqual(t, before, store.Snapshot())
	entriesEqual(t, generated, store.Snapshot())
}

func TestStore_Remove_MissingRowIsNoOp(t *testing.T) {
	store, generated := seededStore(t)
	store.Remove(amort.RowKey("no-such-row"))
	assert.Equal(t, len(generated), store.Len())
}

func TestStore_Update_MergesPatchFields(t *testing.T) {
	store, _ := seededStore(t)
	rows := store.Rows()

	amount := dec("250.75")
	status := amort.StatusCompleted
	store.Update(rows[2].Key, amort.EntryPatch{
		Amount: &amount,
		Status: &status,
	})

	got := store.Snapshot()[2]
	assert.True(t, got.Amount.Equal(amount))
	assert.Equal(t, amort.StatusCompleted, got.Status)
	// Unpatched fields are untouched.
	assert.Equal(t, rows[2].Entry.AmortizationPeriod, got.AmortizationPeriod)
	assert.Equal(t, rows[2].Entry.AccountingPeriod, got.AccountingPeriod)
}

func TestStore_Update_NormalizesPeriodInputs(t *testing.T) {
	store, _ := seededStore(t)
	rows := store.Rows()

	// A date-library value with a Format capability renders canonically.
	store.Update(rows[0].Key, amort.EntryPatch{
		AmortizationPeriod: time.Date(2024, time.September, 15, 10, 30, 0, 0, time.UTC),
	})
	assert.Equal(t, "2024-09", store.Snapshot()[0].AmortizationPeriod)

	// Plain text passes through unchanged.
	store.Update(rows[0].Key, amort.EntryPatch{AccountingPeriod: "2024-10"})
	assert.Equal(t, "2024-10", store.Snapshot()[0].AccountingPeriod)

	// Anything else collapses to empty, which validation then rejects.
	store.Update(rows[0].Key, amort.EntryPatch{AmortizationPeriod: 42})
	assert.Empty(t, store.Snapshot()[0].AmortizationPeriod)
}

func TestStore_Update_MissingRowIsLoggedNoOp(t *testing.T) {
	store, generated := seededStore(t)
	before := store.Snapshot()

	amount := dec("999.99")
	store.Update(amort.RowKey("deleted-row"), amort.EntryPatch{Amount: &amount})

	entriesEqual(t, before, store.Snapshot())
	assert.Equal(t, len(generated), store.Len())
}

func TestStore_RowOrder_IsInsertionOrder(t *testing.T) {
	store, generated := seededStore(t)

	added := store.Add()
	amount := dec("1.00")
	store.Update(added, amort.EntryPatch{
		AmortizationPeriod: "2024-07",
		AccountingPeriod:   "2024-07",
		Amount:             &amount,
	})

	rows := store.Rows()
	require.Len(t, rows, len(generated)+1)
	for i, e := range generated {
		assert.True(t, e.Equal(rows[i].Entry), "seeded row %d moved", i)
	}
	assert.Equal(t, added, rows[len(rows)-1].Key, "added row must stay at the end")
}

func TestStore_Reseed_DiscardsInFlightEdits(t *testing.T) {
	store, _ := seededStore(t)
	store.Add()
	store.Add()

	replacement := []amort.AmortizationEntry{
		{AmortizationPeriod: "2025-01", AccountingPeriod: "2025-01", Amount: dec("500.00"), Status: amort.StatusPending},
	}
	store.Seed(replacement)

	entriesEqual(t, replacement, store.Snapshot())
}
