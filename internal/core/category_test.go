package core

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{"plain category", "Food", DefaultExpenseCategory, "Food"},
		{"trims whitespace", "  Rent  ", DefaultExpenseCategory, "Rent"},
		{"case preserved", "GrOcErIeS", DefaultExpenseCategory, "GrOcErIeS"},
		{"empty uses expense fallback", "", DefaultExpenseCategory, "Uncategorized"},
		{"empty uses budget fallback", "", DefaultBudgetCategory, "General"},
		{"blank uses fallback", "   ", DefaultBudgetCategory, "General"},
		{"total sentinel", "Total", DefaultBudgetCategory, TotalBudgetKey},
		{"overall sentinel", "OVERALL", DefaultBudgetCategory, TotalBudgetKey},
		{"all sentinel with spaces", " all ", DefaultBudgetCategory, TotalBudgetKey},
		{"star sentinel", "*", DefaultBudgetCategory, TotalBudgetKey},
		{"totality is not the sentinel", "totality", DefaultBudgetCategory, "totality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategory(tt.raw, tt.fallback)
			if got != tt.want {
				t.Errorf("NormalizeCategory(%q, %q) = %q, want %q", tt.raw, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestNormalizeCategory_Idempotent(t *testing.T) {
	for _, raw := range []string{"Food", "  Rent ", "total", "", "General"} {
		once := NormalizeCategory(raw, DefaultBudgetCategory)
		twice := NormalizeCategory(once, DefaultBudgetCategory)
		if once != twice {
			t.Errorf("normalize not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestDisplayCategory(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{TotalBudgetKey, "Total (All Categories)"},
		{"", "Uncategorized"},
		{"Food", "Food"},
	}

	for _, tt := range tests {
		if got := DisplayCategory(tt.key); got != tt.want {
			t.Errorf("DisplayCategory(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
