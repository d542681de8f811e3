package services

import (
	"context"
	"fmt"

	"dinero/internal/core"
)

// TrendBuilder turns the store's sparse per-date sums into the fixed-axis
// series the charts need. The zero-fill happens here, not in the store.
type TrendBuilder struct {
	store Store
	now   func() core.Date
}

func NewTrendBuilder(store Store) *TrendBuilder {
	return &TrendBuilder{store: store, now: core.Today}
}

// DailySeries returns the last numDays days ending today, oldest first.
// Every day is present; days without transactions carry 0.
func (t *TrendBuilder) DailySeries(ctx context.Context, userID int64, kind core.EntryKind, numDays int) ([]string, []float64, error) {
	if numDays <= 0 {
		return nil, nil, fmt.Errorf("numDays must be positive, got %d", numDays)
	}

	end := t.now()
	start := end.AddDays(-(numDays - 1))
	sums, err := t.store.SumByDate(ctx, userID, kind, core.DateRange{Start: start, End: end})
	if err != nil {
		return nil, nil, fmt.Errorf("daily series: %w", err)
	}

	byDate := make(map[string]core.Money, len(sums))
	for _, da := range sums {
		byDate[da.Date.String()] = da.Amount
	}

	labels := make([]string, numDays)
	values := make([]float64, numDays)
	for i := 0; i < numDays; i++ {
		d := start.AddDays(i)
		labels[i] = d.String()
		values[i] = byDate[d.String()].Float64()
	}
	return labels, values, nil
}

// CategorySeries returns one entry per category with at least one expense
// ever, in the store's grouping order, with display labels and values in
// major units.
func (t *TrendBuilder) CategorySeries(ctx context.Context, userID int64) ([]string, []float64, error) {
	sums, err := t.store.SumByCategory(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("category series: %w", err)
	}

	labels := make([]string, len(sums))
	values := make([]float64, len(sums))
	for i, ca := range sums {
		labels[i] = core.DisplayCategory(ca.Category)
		values[i] = ca.Amount.Float64()
	}
	return labels, values, nil
}

// MonthRangeSeries returns income and expense per-day sums for the month
// on a shared axis covering every day of the month. Both series are
// zero-filled onto the full-month axis so they always align, regardless
// of which days each kind has transactions on.
func (t *TrendBuilder) MonthRangeSeries(ctx context.Context, userID int64, month string) ([]string, []float64, []float64, error) {
	dr, err := core.MonthBounds(month)
	if err != nil {
		return nil, nil, nil, err
	}

	incomes, err := t.store.SumByDate(ctx, userID, core.KindIncome, dr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("month income series: %w", err)
	}
	expenses, err := t.store.SumByDate(ctx, userID, core.KindExpense, dr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("month expense series: %w", err)
	}

	incomeByDate := make(map[string]core.Money, len(incomes))
	for _, da := range incomes {
		incomeByDate[da.Date.String()] = da.Amount
	}
	expenseByDate := make(map[string]core.Money, len(expenses))
	for _, da := range expenses {
		expenseByDate[da.Date.String()] = da.Amount
	}

	days := int(dr.End.Sub(dr.Start.Time).Hours()/24) + 1
	labels := make([]string, days)
	incomeValues := make([]float64, days)
	expenseValues := make([]float64, days)
	for i := 0; i < days; i++ {
		d := dr.Start.AddDays(i)
		key := d.String()
		labels[i] = key
		incomeValues[i] = incomeByDate[key].Float64()
		expenseValues[i] = expenseByDate[key].Float64()
	}
	return labels, incomeValues, expenseValues, nil
}
