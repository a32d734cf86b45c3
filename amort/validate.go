package amort

// =============================================================================
// ROW VALIDATION - All-or-nothing commit gate
// =============================================================================

// ValidateEntries checks every entry against the row completeness rules:
// both period labels present, amount strictly positive. Every violation is
// reported; a nil result means the whole set is committable.
func ValidateEntries(entries []AmortizationEntry) []RowViolation {
	var violations []RowViolation
	for i, e := range entries {
		violations = append(violations, validateEntry(i, "", e)...)
	}
	return violations
}

func validateRows(rows []Row) []RowViolation {
	var violations []RowViolation
	for i, r := range rows {
		violations = append(violations, validateEntry(i, r.Key, r.Entry)...)
	}
	return violations
}

func validateEntry(index int, key RowKey, e AmortizationEntry) []RowViolation {
	var violations []RowViolation
	if e.AmortizationPeriod == "" {
		violations = append(violations, RowViolation{
			Index: index, Key: key, Field: "amortizationPeriod", Reason: "is required",
		})
	}
	if e.AccountingPeriod == "" {
		violations = append(violations, RowViolation{
			Index: index, Key: key, Field: "accountingPeriod", Reason: "is required",
		})
	}
	if !e.Amount.IsPositive() {
		violations = append(violations, RowViolation{
			Index: index, Key: key, Field: "amount", Reason: "must be greater than zero",
		})
	}
	return violations
}
