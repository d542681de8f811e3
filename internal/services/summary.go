package services

import (
	"context"
	"fmt"

	"dinero/internal/core"
)

// MonthSummary is the dashboard's headline view of one month.
type MonthSummary struct {
	Month    string
	Income   core.Money
	Expenses core.Money
	Balance  core.Money
	Progress []ProgressRecord
}

// SummaryService composes the month totals with the budget evaluation.
type SummaryService struct {
	store     Store
	evaluator *BudgetEvaluator
}

func NewSummaryService(store Store, evaluator *BudgetEvaluator) *SummaryService {
	return &SummaryService{store: store, evaluator: evaluator}
}

// ForMonth returns the month's income and expense totals, their balance,
// and every budget's progress. Balance can go negative.
func (s *SummaryService) ForMonth(ctx context.Context, userID int64, month string) (*MonthSummary, error) {
	dr, err := core.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	income, err := s.store.SumAmount(ctx, userID, core.KindIncome, dr, "")
	if err != nil {
		return nil, fmt.Errorf("sum income: %w", err)
	}
	expenses, err := s.store.SumAmount(ctx, userID, core.KindExpense, dr, "")
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	progress, err := s.evaluator.EvaluateAll(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	return &MonthSummary{
		Month:    month,
		Income:   income,
		Expenses: expenses,
		Balance:  core.Money{Cents: income.Cents - expenses.Cents},
		Progress: progress,
	}, nil
}
