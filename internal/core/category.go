// Package core holds the domain types and pure calendar/category/money
// helpers shared by the storage, service, and HTTP layers.
package core

import "strings"

const (
	// TotalBudgetKey is the reserved category meaning "all categories
	// combined". It is distinct from any real category a user can type.
	TotalBudgetKey   = "__TOTAL__"
	TotalBudgetLabel = "Total (All Categories)"

	// DefaultExpenseCategory is the fallback for blank categories on
	// expense entry; DefaultBudgetCategory on budget entry. The two call
	// sites default differently and both defaults are part of the contract.
	DefaultExpenseCategory = "Uncategorized"
	DefaultBudgetCategory  = "General"
)

// NormalizeCategory maps raw user input to a canonical category key.
// Blank input becomes fallback; the spellings "total", "overall", "all"
// and "*" (any case) become TotalBudgetKey; anything else is returned
// trimmed with its case preserved.
func NormalizeCategory(raw, fallback string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return fallback
	}
	switch strings.ToLower(c) {
	case "total", "overall", "all", "*":
		return TotalBudgetKey
	}
	return c
}

// DisplayCategory converts a category key to its human-facing label.
func DisplayCategory(key string) string {
	if key == TotalBudgetKey {
		return TotalBudgetLabel
	}
	if key == "" {
		return DefaultExpenseCategory
	}
	return key
}
