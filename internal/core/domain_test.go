package core

import (
	"errors"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		UserID:   1,
		Category: "Food",
		Amount:   Money{Cents: 1200},
		Date:     NewDate(2025, 6, 15),
	}

	tests := []struct {
		name   string
		mutate func(*Expense)
		wantOK bool
	}{
		{"valid", func(e *Expense) {}, true},
		{"missing owner", func(e *Expense) { e.UserID = 0 }, false},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, false},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -5} }, false},
		{"zero date", func(e *Expense) { e.Date = Date{} }, false},
		{"raw empty category", func(e *Expense) { e.Category = "  " }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestExpenseValidate_ReturnsValidationError(t *testing.T) {
	e := Expense{UserID: 1, Category: "Food", Date: NewDate(2025, 6, 15)}
	var verr *ValidationError
	if err := e.Validate(); !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	} else if verr.Field != "amount" {
		t.Errorf("field = %q, want amount", verr.Field)
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{UserID: 1, Category: "Food", Month: "2025-06", Amount: Money{Cents: 100000}}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	b.Month = "June 2025"
	if err := b.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("bad month error = %v, want ErrInvalidPeriod", err)
	}
}

func TestConflictError(t *testing.T) {
	tests := []struct {
		reason ConflictReason
		want   string
	}{
		{DuplicateUsername, "conflict: username already taken"},
		{DuplicateEmail, "conflict: email already registered"},
		{ConflictUnknown, "conflict: account already exists"},
	}
	for _, tt := range tests {
		err := &ConflictError{Reason: tt.reason}
		if err.Error() != tt.want {
			t.Errorf("ConflictError{%s} = %q, want %q", tt.reason, err.Error(), tt.want)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: NewDate(2025, 6, 1), End: NewDate(2025, 6, 30)}
	if !r.Contains(NewDate(2025, 6, 1)) || !r.Contains(NewDate(2025, 6, 30)) {
		t.Error("range should include both endpoints")
	}
	if r.Contains(NewDate(2025, 5, 31)) || r.Contains(NewDate(2025, 7, 1)) {
		t.Error("range should exclude days outside the month")
	}
}
