/*
workflow.go - Commit/discard lifecycle over the working copy

PURPOSE:
  Orchestrates one editing session: seed the store from a generated (or
  externally supplied) schedule, accept edits through the store, validate
  on demand, and resolve to either a committed schedule (handed to the
  host's confirm callback) or a reverted state (store reset to the last
  seeded snapshot, cancel callback notified).

STATE MACHINE:
  IDLE -> EDITING -> COMMITTED
                  -> CANCELLED

  EDITING is re-enterable: seeding again while EDITING restarts the
  session with a new base schedule. Previous unsaved edits are lost; this
  is the cancel-and-restart semantics an operator gets when a new
  schedule is loaded.

SESSION TOKENS:
  Hosts seed workflows from asynchronous fetches that may race. Each
  fetch is tagged with a monotonically increasing session token taken
  from NewSession(); a Seed carrying a token older than the current
  session is discarded, so a stale late-arriving result can never
  overwrite a newer one.

COMMIT SEMANTICS:
  Confirm validates the full snapshot. All-or-nothing: one invalid row
  blocks the commit, the workflow stays EDITING, and the store is NOT
  rolled back, so the operator fixes the offending rows without losing
  other edits. On success the commit callback fires exactly once with
  the validated snapshot.

SEE ALSO:
  - store.go:    The working copy this workflow owns
  - validate.go: Row completeness rules
*/
package amort

// WorkflowState is the lifecycle state of a reconciliation session.
type WorkflowState string

const (
	StateIdle      WorkflowState = "IDLE"
	StateEditing   WorkflowState = "EDITING"
	StateCommitted WorkflowState = "COMMITTED"
	StateCancelled WorkflowState = "CANCELLED"
)

// SessionToken orders seed attempts. Higher wins; stale seeds are dropped.
type SessionToken uint64

// ReconciliationWorkflow owns the store for the duration of one session.
type ReconciliationWorkflow struct {
	store   *EditableScheduleStore
	state   WorkflowState
	base    AmortizationSchedule
	session SessionToken
	issued  SessionToken

	onCommit func(entries []AmortizationEntry)
	onCancel func()
}

// NewReconciliationWorkflow creates an idle workflow. Either callback may
// be nil if the host has no interest in that resolution.
func NewReconciliationWorkflow(onCommit func([]AmortizationEntry), onCancel func()) *ReconciliationWorkflow {
	return &ReconciliationWorkflow{
		store:    NewEditableScheduleStore(),
		state:    StateIdle,
		onCommit: onCommit,
		onCancel: onCancel,
	}
}

// NewSession issues a token for one upcoming seed. Hosts tag each
// schedule fetch with a token before starting it.
func (w *ReconciliationWorkflow) NewSession() SessionToken {
	w.issued++
	return w.issued
}

// Seed starts (or restarts) an editing session with the given base
// schedule. Returns false if the token is stale, in which case the seed
// is discarded and the current session is untouched.
func (w *ReconciliationWorkflow) Seed(token SessionToken, schedule AmortizationSchedule) bool {
	if token < w.session {
		return false
	}
	w.session = token
	w.base = schedule
	w.store.Seed(schedule.Entries)
	w.state = StateEditing
	return true
}

// Store returns the working copy. All edits go through it.
func (w *ReconciliationWorkflow) Store() *EditableScheduleStore { return w.store }

// Base returns the schedule the current session was seeded from.
func (w *ReconciliationWorkflow) Base() AmortizationSchedule { return w.base }

// State returns the current lifecycle state.
func (w *ReconciliationWorkflow) State() WorkflowState { return w.state }

// Validate checks the current snapshot without resolving the session.
// A nil result means Confirm would succeed.
func (w *ReconciliationWorkflow) Validate() []RowViolation {
	return validateRows(w.store.rows)
}

// Confirm validates the snapshot and, on success, transitions to
// COMMITTED and emits the validated entries to the commit callback
// exactly once. On failure the workflow stays EDITING and returns a
// *ValidationError listing every offending row; the store is not rolled
// back.
func (w *ReconciliationWorkflow) Confirm() ([]AmortizationEntry, error) {
	if w.state != StateEditing {
		return nil, ErrNoActiveSession
	}
	if violations := validateRows(w.store.rows); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	entries := w.store.Snapshot()
	w.state = StateCommitted
	if w.onCommit != nil {
		w.onCommit(entries)
	}
	return entries, nil
}

// Cancel resolves the session with no external effect: the store is
// restored to the last seeded snapshot and the cancel callback is
// notified. Always succeeds; it is the escape hatch from EDITING.
func (w *ReconciliationWorkflow) Cancel() {
	w.store.reset()
	w.state = StateCancelled
	if w.onCancel != nil {
		w.onCancel()
	}
}
