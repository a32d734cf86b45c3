/*
generate.go - Schedule derivation

PURPOSE:
  Deterministically partitions a contract's validity window into calendar
  months and splits the total amount across them.

ROUNDING POLICY:
  The raw per-month share is total/n. The first n-1 entries are rounded
  half-up to 2 decimal places; the LAST entry is assigned
  total - sum(previous), so the schedule total is exact to the cent no
  matter how much rounding error the earlier rows accumulated. Naive
  per-row rounding under- or over-allocates the total (the classic
  rounding-drift bug); assigning the remainder to the final row cannot.

INVARIANTS:
  - Entries are contiguous and strictly increasing by calendar month
  - Entry count is monthsBetween(start, end) + 1 (both endpoints included)
  - sum(entries.amount) == contract.TotalAmount exactly
  - All entries start PENDING with no persisted ID

SEE ALSO:
  - scenario.go: Temporal classification attached to the schedule
*/
package amort

import (
	"time"

	"github.com/shopspring/decimal"
)

// Generate derives the amortization schedule for a contract. Pure and
// deterministic given identical input; now is recorded as GeneratedAt and
// used to classify the scenario, nothing else.
func Generate(c Contract, now time.Time) (AmortizationSchedule, error) {
	if !c.TotalAmount.IsPositive() {
		return AmortizationSchedule{}, &InvalidAmountError{TotalAmount: c.TotalAmount}
	}

	start := MonthOf(c.StartDate)
	end := MonthOf(c.EndDate)
	if dateOnly(c.EndDate).Before(dateOnly(c.StartDate)) {
		return AmortizationSchedule{}, &InvalidRangeError{Start: start, End: end}
	}

	n := MonthsBetween(start, end) + 1
	raw := c.TotalAmount.Div(decimal.NewFromInt(int64(n)))

	entries := make([]AmortizationEntry, 0, n)
	allocated := decimal.Zero
	for i := 0; i < n; i++ {
		var amount decimal.Decimal
		if i == n-1 {
			// Last row absorbs the rounding remainder.
			amount = c.TotalAmount.Sub(allocated)
		} else {
			amount = raw.Round(2)
			allocated = allocated.Add(amount)
		}

		// Amortization and accounting periods are generated identically.
		// They are distinct fields because operators may edit them apart.
		period := start.Add(i).String()
		entries = append(entries, AmortizationEntry{
			AmortizationPeriod: period,
			AccountingPeriod:   period,
			Amount:             amount,
			Status:             StatusPending,
		})
	}

	return AmortizationSchedule{
		TotalAmount: c.TotalAmount,
		StartMonth:  start,
		EndMonth:    end,
		Scenario:    Classify(c, now),
		GeneratedAt: now,
		Entries:     entries,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
