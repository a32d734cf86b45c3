package amort

// =============================================================================
// DATE NORMALIZATION - One function, one declared contract
// =============================================================================

// DateFormatter is the capability a date-library value needs to render
// itself in a canonical layout. time.Time satisfies it directly.
type DateFormatter interface {
	Format(layout string) string
}

// NormalizeDate renders an arbitrary date input as canonical "YYYY-MM-DD"
// text. Plain text passes through unchanged; a value with a Format
// capability is asked to render itself; anything else normalizes to the
// empty string, which then fails validation downstream.
func NormalizeDate(v any) string {
	return normalize(v, "2006-01-02")
}

// NormalizeMonth renders an arbitrary period input as canonical "YYYY-MM"
// text, with the same fallthrough rules as NormalizeDate.
func NormalizeMonth(v any) string {
	return normalize(v, "2006-01")
}

func normalize(v any, layout string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Month:
		return x.String()
	case DateFormatter:
		return x.Format(layout)
	default:
		return ""
	}
}
