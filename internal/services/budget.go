package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"dinero/internal/core"
)

// BudgetState classifies spend against a budget by the ratio spent/budget.
type BudgetState string

const (
	StateOK       BudgetState = "ok"       // ratio < 0.75
	StateWarning  BudgetState = "warning"  // 0.75 <= ratio <= 1.0
	StateExceeded BudgetState = "exceeded" // ratio > 1.0
)

// ProgressRecord is the evaluated status of one budget row.
type ProgressRecord struct {
	BudgetID int64
	Category string // display label, not the raw key
	Budget   core.Money
	Spent    core.Money
	Percent  float64
	State    BudgetState
}

// Alert is the outcome of a post-write budget check that crossed the
// warning or exceeded threshold. It is computed fresh on every write and
// never persisted; the same alert can fire repeatedly within a month.
type Alert struct {
	Severity BudgetState
	Category string // display label
	Month    string
	Message  string
	Budget   core.Money
	Spent    core.Money
}

// BudgetEvaluator compares aggregated spend against stored budgets.
type BudgetEvaluator struct {
	store Store
}

func NewBudgetEvaluator(store Store) *BudgetEvaluator {
	return &BudgetEvaluator{store: store}
}

// classify implements the state machine on exact integer cents. The 0.75
// boundary is checked as spent*4 >= budget*3 to avoid floating point at
// the edges; a zero or missing budget is always OK.
func classify(spent, budget core.Money) BudgetState {
	if budget.Cents <= 0 {
		return StateOK
	}
	if spent.Cents > budget.Cents {
		return StateExceeded
	}
	if spent.Cents*4 >= budget.Cents*3 {
		return StateWarning
	}
	return StateOK
}

// percentOf returns spent/budget as a percentage rounded to 2 decimals,
// or 0 when the budget is zero.
func percentOf(spent, budget core.Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	p, _ := spent.Decimal().
		Div(budget.Decimal()).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return p
}

func progressRecord(b *core.Budget, spent core.Money) ProgressRecord {
	var budget core.Money
	var id int64
	if b != nil {
		budget = b.Amount
		id = b.ID
	}
	return ProgressRecord{
		BudgetID: id,
		Category: displayFor(b),
		Budget:   budget,
		Spent:    spent,
		Percent:  percentOf(spent, budget),
		State:    classify(spent, budget),
	}
}

func displayFor(b *core.Budget) string {
	if b == nil {
		return ""
	}
	return core.DisplayCategory(b.Category)
}

// EvaluateCategory evaluates one category's budget for the month. The
// sentinel total key is never evaluated here and yields nil; a category
// with no budget row yields a record with a zero budget and state OK.
func (e *BudgetEvaluator) EvaluateCategory(ctx context.Context, userID int64, categoryKey, month string) (*ProgressRecord, error) {
	if categoryKey == core.TotalBudgetKey {
		return nil, nil
	}
	dr, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	budget, err := e.store.GetBudget(ctx, userID, categoryKey, month)
	if err != nil {
		return nil, fmt.Errorf("load category budget: %w", err)
	}
	spent, err := e.store.SumAmount(ctx, userID, core.KindExpense, dr, categoryKey)
	if err != nil {
		return nil, fmt.Errorf("sum category spend: %w", err)
	}

	rec := progressRecord(budget, spent)
	if budget == nil {
		rec.Category = core.DisplayCategory(categoryKey)
	}
	return &rec, nil
}

// EvaluateTotal evaluates the month's total budget against spend across
// all categories. It returns nil when no total budget row exists. The
// total is independent of per-category budgets: a user can be within
// every category budget and still exceed the total, or the reverse.
func (e *BudgetEvaluator) EvaluateTotal(ctx context.Context, userID int64, month string) (*ProgressRecord, error) {
	dr, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	budget, err := e.store.GetBudget(ctx, userID, core.TotalBudgetKey, month)
	if err != nil {
		return nil, fmt.Errorf("load total budget: %w", err)
	}
	if budget == nil {
		return nil, nil
	}

	spent, err := e.store.SumAmount(ctx, userID, core.KindExpense, dr, "")
	if err != nil {
		return nil, fmt.Errorf("sum total spend: %w", err)
	}

	rec := progressRecord(budget, spent)
	return &rec, nil
}

// EvaluateAll evaluates every budget the user set for the month: the total
// record first when present, then per-category records in storage order.
// The order is part of the contract and is not re-sorted.
func (e *BudgetEvaluator) EvaluateAll(ctx context.Context, userID int64, month string) ([]ProgressRecord, error) {
	dr, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	budgets, err := e.store.ListBudgets(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	var out []ProgressRecord
	for _, b := range budgets {
		if b.Category != core.TotalBudgetKey {
			continue
		}
		spent, err := e.store.SumAmount(ctx, userID, core.KindExpense, dr, "")
		if err != nil {
			return nil, fmt.Errorf("sum total spend: %w", err)
		}
		b := b
		out = append(out, progressRecord(&b, spent))
		break
	}
	for _, b := range budgets {
		if b.Category == core.TotalBudgetKey {
			continue
		}
		spent, err := e.store.SumAmount(ctx, userID, core.KindExpense, dr, b.Category)
		if err != nil {
			return nil, fmt.Errorf("sum spend for %q: %w", b.Category, err)
		}
		b := b
		out = append(out, progressRecord(&b, spent))
	}
	return out, nil
}

// CheckAfterExpense re-checks the expense's category budget and the total
// budget for the month right after a write, reading the updated sums. It
// returns at most two alerts. Best-effort under concurrent writers to the
// same user and month: the totals read here may already include a later
// write, so alerts are informational, never authoritative.
func (e *BudgetEvaluator) CheckAfterExpense(ctx context.Context, userID int64, categoryKey, month string) ([]Alert, error) {
	var alerts []Alert

	catRec, err := e.EvaluateCategory(ctx, userID, categoryKey, month)
	if err != nil {
		return nil, err
	}
	if catRec != nil && catRec.Budget.Cents > 0 {
		if a := alertFor(*catRec, month); a != nil {
			alerts = append(alerts, *a)
		}
	}

	totalRec, err := e.EvaluateTotal(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	if totalRec != nil {
		if a := alertFor(*totalRec, month); a != nil {
			alerts = append(alerts, *a)
		}
	}

	return alerts, nil
}

func alertFor(rec ProgressRecord, month string) *Alert {
	var message string
	switch rec.State {
	case StateWarning:
		message = fmt.Sprintf("%s: already spent %s out of %s budget", rec.Category, rec.Spent, rec.Budget)
	case StateExceeded:
		message = fmt.Sprintf("%s: budget exceeded, spent %s / budget %s", rec.Category, rec.Spent, rec.Budget)
	default:
		return nil
	}
	return &Alert{
		Severity: rec.State,
		Category: rec.Category,
		Month:    month,
		Message:  message,
		Budget:   rec.Budget,
		Spent:    rec.Spent,
	}
}
