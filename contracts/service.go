/*
service.go - Schedule calculation and persistence

PURPOSE:
  Bridges the pure engine and the host's storage. Calculate is the
  server-side equivalent of running the generator locally; ConfirmEdited
  runs an operator's edited rows through the reconciliation workflow and
  persists the committed schedule.

SEE ALSO:
  - amort/generate.go: The generator Calculate delegates to
  - amort/workflow.go: The commit gate ConfirmEdited delegates to
*/
package contracts

import (
	"context"
	"sync"
	"time"

	"github.com/warp/amortization-engine/amort"
)

// =============================================================================
// ENTRY STORE - Persistence for committed schedules
// =============================================================================

// EntryStore persists committed amortization rows per contract.
// ReplaceEntries swaps the contract's saved schedule wholesale (commits
// are all-or-nothing, so partial writes never happen) and returns the
// rows with their assigned persisted IDs.
type EntryStore interface {
	ReplaceEntries(ctx context.Context, id amort.ContractID, entries []amort.AmortizationEntry) ([]amort.AmortizationEntry, error)
	Entries(ctx context.Context, id amort.ContractID) ([]amort.AmortizationEntry, error)
}

// MemoryEntries is the in-memory EntryStore that pairs with Fixture.
type MemoryEntries struct {
	mu     sync.Mutex
	byID   map[amort.ContractID][]amort.AmortizationEntry
	nextID int64
}

func NewMemoryEntries() *MemoryEntries {
	return &MemoryEntries{byID: make(map[amort.ContractID][]amort.AmortizationEntry)}
}

func (m *MemoryEntries) ReplaceEntries(_ context.Context, id amort.ContractID, entries []amort.AmortizationEntry) ([]amort.AmortizationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]amort.AmortizationEntry, len(entries))
	for i, e := range entries {
		m.nextID++
		entryID := m.nextID
		e.ID = &entryID
		saved[i] = e
	}
	m.byID[id] = saved
	return append([]amort.AmortizationEntry(nil), saved...), nil
}

func (m *MemoryEntries) Entries(_ context.Context, id amort.ContractID) ([]amort.AmortizationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]amort.AmortizationEntry(nil), m.byID[id]...), nil
}

var _ EntryStore = (*MemoryEntries)(nil)

// =============================================================================
// SCHEDULE SERVICE
// =============================================================================

// ScheduleService computes and persists amortization schedules.
type ScheduleService struct {
	Directory Directory
	Entries   EntryStore

	// Now is the reference clock for scenario classification.
	// Defaults to time.Now; tests pin it.
	Now func() time.Time
}

func NewScheduleService(dir Directory, entries EntryStore) *ScheduleService {
	return &ScheduleService{Directory: dir, Entries: entries, Now: time.Now}
}

// Calculate derives the amortization schedule for a stored contract.
func (s *ScheduleService) Calculate(ctx context.Context, id amort.ContractID) (amort.AmortizationSchedule, error) {
	c, err := s.Directory.Get(ctx, id)
	if err != nil {
		return amort.AmortizationSchedule{}, err
	}
	return amort.Generate(c, s.Now())
}

// ConfirmEdited runs operator-edited rows through the reconciliation
// workflow and, on commit, replaces the contract's saved schedule.
// Validation failures surface as *amort.ValidationError with per-row
// detail; nothing is persisted in that case.
func (s *ScheduleService) ConfirmEdited(ctx context.Context, id amort.ContractID, entries []amort.AmortizationEntry) ([]amort.AmortizationEntry, error) {
	c, err := s.Directory.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var committed []amort.AmortizationEntry
	wf := amort.NewReconciliationWorkflow(func(e []amort.AmortizationEntry) { committed = e }, nil)

	// The edited rows are an externally supplied schedule: seed the
	// workflow with them and let Confirm apply the commit gate.
	base := amort.AmortizationSchedule{
		TotalAmount: c.TotalAmount,
		StartMonth:  amort.MonthOf(c.StartDate),
		EndMonth:    amort.MonthOf(c.EndDate),
		Scenario:    amort.Classify(c, s.Now()),
		GeneratedAt: s.Now(),
		Entries:     entries,
	}
	wf.Seed(wf.NewSession(), base)

	if _, err := wf.Confirm(); err != nil {
		return nil, err
	}
	return s.Entries.ReplaceEntries(ctx, id, committed)
}

// SavedEntries returns the contract's previously committed rows.
func (s *ScheduleService) SavedEntries(ctx context.Context, id amort.ContractID) ([]amort.AmortizationEntry, error) {
	if _, err := s.Directory.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Entries.Entries(ctx, id)
}
