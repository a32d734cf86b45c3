package amort

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Calendar month, the engine's unit of partitioning
// =============================================================================

// Month is a calendar month ("YYYY-MM"). Amortization allocates the contract
// total across whole months; day-of-month never matters past generation.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" label.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return MonthOf(t)
}

// MonthsBetween returns the signed number of month steps from a to b.
// Adjacent months are 1 apart; the same month is 0.
func MonthsBetween(a, b Month) int {
	return (b.Year-a.Year)*12 + int(b.Month-a.Month)
}

func (m Month) Before(other Month) bool { return MonthsBetween(m, other) > 0 }
func (m Month) Equal(other Month) bool  { return m == other }
func (m Month) After(other Month) bool  { return MonthsBetween(m, other) < 0 }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
