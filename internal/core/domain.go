package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindExpense EntryKind = "expense"
	KindIncome  EntryKind = "income"
)

type (
	// EntryKind selects between the two transaction tables.
	EntryKind string

	// Date is a calendar day; the time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	// DateRange is an inclusive calendar-day interval.
	DateRange struct {
		Start Date
		End   Date
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Username     string
		Email        string // optional, stored lowercase
		PasswordHash string
		DailyLimit   *Money // optional per-day spending limit
	}

	Expense struct {
		ID          int64
		UserID      int64
		Title       string
		Category    string // always a normalized category key
		Amount      Money
		Date        Date
		Description string
		SplitWith   string // comma-separated names, optional
	}

	Income struct {
		ID          int64
		UserID      int64
		Source      string
		Amount      Money
		Date        Date
		Description string
	}

	Budget struct {
		ID       int64
		UserID   int64
		Category string // normalized key or TotalBudgetKey
		Month    string // YYYY-MM token
		Amount   Money
	}

	// DateAmount is a per-day sum as returned by the aggregator.
	DateAmount struct {
		Date   Date
		Amount Money
	}

	// CategoryAmount is a per-category sum.
	CategoryAmount struct {
		Category string
		Amount   Money
	}

	// MonthAmount is a per-calendar-month sum, keyed by YYYY-MM token.
	MonthAmount struct {
		Month  string
		Amount Money
	}
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Contains reports whether d falls within the inclusive range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

func (k EntryKind) Validate() error {
	switch k {
	case KindExpense, KindIncome:
		return nil
	}
	return errors.New("unknown entry kind: " + string(k))
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.UserID <= 0 {
		return &ValidationError{Field: "user", Reason: "missing owner"}
	}
	if err := e.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	if err := e.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Reason: "must be a valid calendar date"}
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must be normalized before saving"}
	}
	if len(e.Description) > 500 {
		return &ValidationError{Field: "description", Reason: "too long (max 500 characters)"}
	}
	return nil
}

func (in Income) Validate() error {
	if in.UserID <= 0 {
		return &ValidationError{Field: "user", Reason: "missing owner"}
	}
	if err := in.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	if err := in.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Reason: "must be a valid calendar date"}
	}
	return nil
}

func (b Budget) Validate() error {
	if b.UserID <= 0 {
		return &ValidationError{Field: "user", Reason: "missing owner"}
	}
	if strings.TrimSpace(b.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must be normalized before saving"}
	}
	if _, err := MonthBounds(b.Month); err != nil {
		return err
	}
	if err := b.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	return nil
}
