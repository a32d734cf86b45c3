package amort

import "time"

// =============================================================================
// SCENARIO CLASSIFIER - Where does "now" fall in the validity window?
// =============================================================================

// Classify returns the temporal scenario of the reference instant relative
// to the contract's validity window. Total: every well-formed contract
// classifies to exactly one scenario.
//
// Boundary rule (date granularity, both endpoints inclusive):
//
//	ref <  start          => BEFORE_START
//	start <= ref <= end   => IN_PROGRESS
//	otherwise             => AFTER_END
//
// The scenario is advisory metadata on the generated schedule; it does not
// alter entry generation or editability.
func Classify(c Contract, referenceInstant time.Time) Scenario {
	ref := dateOnly(referenceInstant)
	start := dateOnly(c.StartDate)
	end := dateOnly(c.EndDate)

	switch {
	case ref.Before(start):
		return ScenarioBeforeStart
	case ref.After(end):
		return ScenarioAfterEnd
	default:
		return ScenarioInProgress
	}
}
