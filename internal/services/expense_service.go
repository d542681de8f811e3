package services

import (
	"context"
	"fmt"
	"log/slog"

	"dinero/internal/amqp"
	"dinero/internal/core"
)

// ExpenseService orchestrates transaction writes: validation, category
// normalization, the post-write budget check, and best-effort alert
// publishing.
type ExpenseService struct {
	store      Store
	evaluator  *BudgetEvaluator
	publisher  AlertPublisher
	largeLimit core.Money
}

// NewExpenseService wires the service. publisher may be nil, which
// disables queue notifications; largeLimit <= 0 disables the
// large-expense flag.
func NewExpenseService(store Store, evaluator *BudgetEvaluator, publisher AlertPublisher, largeLimit core.Money) *ExpenseService {
	return &ExpenseService{
		store:      store,
		evaluator:  evaluator,
		publisher:  publisher,
		largeLimit: largeLimit,
	}
}

// ExpenseInput is a new expense before normalization.
type ExpenseInput struct {
	Title       string
	Category    string // raw user input, normalized on save
	Amount      core.Money
	Date        core.Date
	Description string
	SplitWith   string
}

// IncomeInput is a new income entry.
type IncomeInput struct {
	Source      string
	Amount      core.Money
	Date        core.Date
	Description string
}

// CreateExpenseResult reports the write plus the fresh budget check.
type CreateExpenseResult struct {
	ID           int64
	Category     string // normalized key actually stored
	Alerts       []Alert
	LargeExpense bool
}

// CreateExpense validates and saves an expense, then re-checks the
// affected budgets against the updated totals. Budget alerts and queue
// publishing are best-effort: once the row is committed the write
// succeeds regardless of what happens after.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID int64, in ExpenseInput) (*CreateExpenseResult, error) {
	e := core.Expense{
		UserID:      userID,
		Title:       in.Title,
		Category:    core.NormalizeCategory(in.Category, core.DefaultExpenseCategory),
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		SplitWith:   in.SplitWith,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	id, err := s.store.InsertExpense(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	result := &CreateExpenseResult{ID: id, Category: e.Category}

	// Post-write check reads the store after the insert so the just-added
	// amount is included.
	month := core.MonthOf(e.Date)
	alerts, err := s.evaluator.CheckAfterExpense(ctx, userID, e.Category, month)
	if err != nil {
		slog.ErrorContext(ctx, "Post-write budget check failed",
			"user_id", userID, "category", e.Category, "month", month, "error", err)
	} else {
		result.Alerts = alerts
		for _, a := range alerts {
			s.publishBudgetAlert(ctx, userID, month, a)
		}
	}

	if s.largeLimit.Cents > 0 && e.Amount.Cents >= s.largeLimit.Cents {
		result.LargeExpense = true
		s.publishLargeExpense(ctx, userID, e)
	}

	return result, nil
}

func (s *ExpenseService) publishBudgetAlert(ctx context.Context, userID int64, month string, a Alert) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewBudgetAlertMessage(userID, a.Category, month, string(a.Severity), a.Message, a.Budget.Cents, a.Spent.Cents)
	if err := s.publisher.PublishAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"user_id", userID, "category", a.Category, "error", err)
	}
}

func (s *ExpenseService) publishLargeExpense(ctx context.Context, userID int64, e core.Expense) {
	if s.publisher == nil {
		return
	}
	message := fmt.Sprintf("Large expense recorded: %s (%s)", e.Amount, core.DisplayCategory(e.Category))
	msg := amqp.NewLargeExpenseMessage(userID, core.DisplayCategory(e.Category), message, e.Amount.Cents)
	if err := s.publisher.PublishAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish large expense alert",
			"user_id", userID, "amount_cents", e.Amount.Cents, "error", err)
	}
}

// CreateIncome validates and saves an income entry.
func (s *ExpenseService) CreateIncome(ctx context.Context, userID int64, in IncomeInput) (int64, error) {
	entry := core.Income{
		UserID:      userID,
		Source:      in.Source,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
	}
	if err := entry.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.InsertIncome(ctx, entry)
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}
	return id, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID int64) error {
	return s.store.DeleteExpense(ctx, id, userID)
}

func (s *ExpenseService) DeleteIncome(ctx context.Context, id, userID int64) error {
	return s.store.DeleteIncome(ctx, id, userID)
}

// ClearAll deletes every expense and income the user owns.
func (s *ExpenseService) ClearAll(ctx context.Context, userID int64) error {
	return s.store.DeleteAll(ctx, userID)
}

// ListMonth returns the user's expenses and incomes for a month, newest first.
func (s *ExpenseService) ListMonth(ctx context.Context, userID int64, month string) ([]core.Expense, []core.Income, error) {
	dr, err := core.MonthBounds(month)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, userID, dr)
	if err != nil {
		return nil, nil, fmt.Errorf("list expenses: %w", err)
	}
	incomes, err := s.store.ListIncomes(ctx, userID, dr)
	if err != nil {
		return nil, nil, fmt.Errorf("list incomes: %w", err)
	}
	return expenses, incomes, nil
}

// ListAllExpenses returns every expense the user owns, newest first.
func (s *ExpenseService) ListAllExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.store.ListAllExpenses(ctx, userID)
}
