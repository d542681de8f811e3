package services

import (
	"context"
	"fmt"

	"dinero/internal/core"
)

// BudgetService owns budget CRUD. Evaluation lives in BudgetEvaluator.
type BudgetService struct {
	store Store
}

func NewBudgetService(store Store) *BudgetService {
	return &BudgetService{store: store}
}

// BudgetRow is a stored budget with its display label.
type BudgetRow struct {
	ID       int64
	Category string // display label
	Month    string
	Amount   core.Money
}

// Save upserts a budget for (user, category, month). The raw category is
// normalized with the budget-entry fallback, so a blank category becomes
// "General" and the total spellings become the sentinel key. Saving the
// same triple again replaces the prior amount.
func (s *BudgetService) Save(ctx context.Context, userID int64, rawCategory, month string, amount core.Money) error {
	b := core.Budget{
		UserID:   userID,
		Category: core.NormalizeCategory(rawCategory, core.DefaultBudgetCategory),
		Month:    month,
		Amount:   amount,
	}
	if err := b.Validate(); err != nil {
		return err
	}

	if err := s.store.UpsertBudget(ctx, b); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

// List returns the month's budgets in storage order with display labels.
func (s *BudgetService) List(ctx context.Context, userID int64, month string) ([]BudgetRow, error) {
	if _, err := core.MonthBounds(month); err != nil {
		return nil, err
	}

	budgets, err := s.store.ListBudgets(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	rows := make([]BudgetRow, len(budgets))
	for i, b := range budgets {
		rows[i] = BudgetRow{
			ID:       b.ID,
			Category: core.DisplayCategory(b.Category),
			Month:    b.Month,
			Amount:   b.Amount,
		}
	}
	return rows, nil
}

func (s *BudgetService) Delete(ctx context.Context, id, userID int64) error {
	return s.store.DeleteBudget(ctx, id, userID)
}
