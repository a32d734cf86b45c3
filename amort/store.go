/*
store.go - Editable working copy of a schedule

PURPOSE:
  Owns the mutable, identity-keyed collection of entries for one editing
  session. Callers never reach into the collection directly; every
  mutation goes through the explicit operation set
  (Seed/Add/Remove/Update/Snapshot).

ROW IDENTITY:
  Each row gets a transient RowKey (UUID) when it enters the store. The
  persisted entry ID stays nil for freshly added rows; the RowKey exists
  only for store bookkeeping and UI binding during the session.

ORDERING:
  Row order is insertion order. Newly added rows append at the end.
  No implicit resorting.

CONCURRENCY:
  Single-threaded by design. The store is exclusively owned by one
  workflow session; all mutation is serialized by the caller.

SEE ALSO:
  - workflow.go: Lifecycle owner that seeds and resolves the store
*/
package amort

import (
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowKey is the transient identity of a row in the working copy.
type RowKey string

func newRowKey() RowKey { return RowKey(uuid.NewString()) }

// Row pairs a working-copy entry with its transient identity.
type Row struct {
	Key   RowKey
	Entry AmortizationEntry
}

// EntryPatch carries the fields of an Update. Nil fields are left alone.
// Period fields accept arbitrary date input (plain text, time.Time, any
// DateFormatter); they are normalized to canonical "YYYY-MM" text on
// merge, with unrenderable values collapsing to "" (caught by validation).
type EntryPatch struct {
	AmortizationPeriod any
	AccountingPeriod   any
	Amount             *decimal.Decimal
	Status             *EntryStatus
}

// EditableScheduleStore is the mutable working copy for one session.
type EditableScheduleStore struct {
	rows     []Row
	editable map[RowKey]bool
	seeded   []Row // snapshot taken at the last Seed, for Cancel

	logf func(format string, args ...any)
}

// NewEditableScheduleStore returns an empty store.
func NewEditableScheduleStore() *EditableScheduleStore {
	return &EditableScheduleStore{
		editable: make(map[RowKey]bool),
		logf:     log.Printf,
	}
}

// SetLogger overrides the defensive no-op logger. Nil silences it.
func (s *EditableScheduleStore) SetLogger(logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s.logf = logf
}

// Seed replaces the entire collection with the given entries, assigns
// fresh row identities, and marks every row editable. Any uncommitted
// in-flight edits are discarded.
func (s *EditableScheduleStore) Seed(entries []AmortizationEntry) {
	s.rows = make([]Row, 0, len(entries))
	s.editable = make(map[RowKey]bool, len(entries))
	for _, e := range entries {
		key := newRowKey()
		s.rows = append(s.rows, Row{Key: key, Entry: e})
		s.editable[key] = true
	}
	s.seeded = append([]Row(nil), s.rows...)
}

// Add appends a new editable row with default field values and a fresh
// transient identity. Returns the new row's key. Never fails.
func (s *EditableScheduleStore) Add() RowKey {
	key := newRowKey()
	s.rows = append(s.rows, Row{
		Key: key,
		Entry: AmortizationEntry{
			Amount: decimal.Zero,
			Status: StatusPending,
		},
	})
	s.editable[key] = true
	return key
}

// Remove deletes the row with the given identity. No-op if absent.
func (s *EditableScheduleStore) Remove(key RowKey) {
	for i, r := range s.rows {
		if r.Key == key {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			delete(s.editable, key)
			return
		}
	}
}

// Update merges patch fields into the row with the given identity.
// A missing row is a benign race with a deletion, not an error: the
// update is logged and dropped.
func (s *EditableScheduleStore) Update(key RowKey, patch EntryPatch) {
	for i := range s.rows {
		if s.rows[i].Key != key {
			continue
		}
		e := &s.rows[i].Entry
		if patch.AmortizationPeriod != nil {
			e.AmortizationPeriod = NormalizeMonth(patch.AmortizationPeriod)
		}
		if patch.AccountingPeriod != nil {
			e.AccountingPeriod = NormalizeMonth(patch.AccountingPeriod)
		}
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
		if patch.Status != nil {
			e.Status = *patch.Status
		}
		return
	}
	s.logf("amort: update for unknown row %s dropped", key)
}

// IsEditable reports whether the row is currently open for modification.
// Every row in the working copy is editable by default; there is no
// read-only row state.
func (s *EditableScheduleStore) IsEditable(key RowKey) bool {
	return s.editable[key]
}

// Snapshot returns the current materialized entries, in row order.
func (s *EditableScheduleStore) Snapshot() []AmortizationEntry {
	entries := make([]AmortizationEntry, len(s.rows))
	for i, r := range s.rows {
		entries[i] = r.Entry
	}
	return entries
}

// Rows returns a copy of the working rows with their transient identities.
func (s *EditableScheduleStore) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// Len returns the number of rows in the working copy.
func (s *EditableScheduleStore) Len() int { return len(s.rows) }

// reset restores the store to the snapshot taken at the last Seed.
func (s *EditableScheduleStore) reset() {
	s.rows = append([]Row(nil), s.seeded...)
	s.editable = make(map[RowKey]bool, len(s.rows))
	for _, r := range s.rows {
		s.editable[r.Key] = true
	}
}
