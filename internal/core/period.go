package core

import "time"

const monthLayout = "2006-01"

// MonthBounds resolves a YYYY-MM token to the inclusive date range of that
// calendar month. The last day is computed as the day before the following
// month's first day, so month lengths and leap years come from the calendar
// rather than a lookup table. December rolls over to January of the next
// year. A token that does not parse as YYYY-MM yields ErrInvalidPeriod;
// callers that want a fallback month must choose one themselves.
func MonthBounds(token string) (DateRange, error) {
	t, err := time.Parse(monthLayout, token)
	if err != nil {
		return DateRange{}, ErrInvalidPeriod
	}
	first := NewDate(t.Year(), int(t.Month()), 1)
	last := Date{Time: first.AddDate(0, 1, 0).AddDate(0, 0, -1)}
	return DateRange{Start: first, End: last}, nil
}

// MonthOf returns the YYYY-MM token of the month containing d.
func MonthOf(d Date) string {
	return d.Format(monthLayout)
}

// CurrentMonth returns the YYYY-MM token for the given instant, for callers
// that choose "current month" as their fallback period.
func CurrentMonth(now time.Time) string {
	return now.Format(monthLayout)
}
