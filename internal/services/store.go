// Package services provides business logic and orchestration services:
// budget evaluation, chart series building, forecasting, and the
// expense/income/budget/auth operations the HTTP layer calls into.
package services

import (
	"context"

	"dinero/internal/amqp"
	"dinero/internal/core"
)

// Store is the transaction store the services read and write. It is
// satisfied by both the sqlite repository and the in-memory store; every
// method is scoped by the owning user id.
type Store interface {
	InsertExpense(ctx context.Context, e core.Expense) (int64, error)
	InsertIncome(ctx context.Context, in core.Income) (int64, error)

	// SumAmount sums the given kind over the inclusive range. An empty
	// category means no filter; zero matching rows sum to 0.
	SumAmount(ctx context.Context, userID int64, kind core.EntryKind, dr core.DateRange, category string) (core.Money, error)
	// SumByDate returns per-day sums ascending, skipping empty days.
	SumByDate(ctx context.Context, userID int64, kind core.EntryKind, dr core.DateRange) ([]core.DateAmount, error)
	// SumByCategory returns all-time expense sums per category, in
	// grouping order.
	SumByCategory(ctx context.Context, userID int64) ([]core.CategoryAmount, error)
	// MonthlyExpenseTotals returns all-time expense totals per calendar
	// month, ascending.
	MonthlyExpenseTotals(ctx context.Context, userID int64) ([]core.MonthAmount, error)

	ListExpenses(ctx context.Context, userID int64, dr core.DateRange) ([]core.Expense, error)
	ListAllExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	ListIncomes(ctx context.Context, userID int64, dr core.DateRange) ([]core.Income, error)

	// GetBudget returns nil when no budget exists for the triple.
	GetBudget(ctx context.Context, userID int64, category, month string) (*core.Budget, error)
	// ListBudgets returns the month's budgets in storage order.
	ListBudgets(ctx context.Context, userID int64, month string) ([]core.Budget, error)
	UpsertBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, id, userID int64) error

	DeleteExpense(ctx context.Context, id, userID int64) error
	DeleteIncome(ctx context.Context, id, userID int64) error
	// DeleteAll clears the user's expenses and incomes; budgets survive.
	DeleteAll(ctx context.Context, userID int64) error
}

// UserStore holds accounts.
type UserStore interface {
	// CreateUser returns a *core.ConflictError when username or email is
	// already taken.
	CreateUser(ctx context.Context, u core.User) (int64, error)
	// GetUserByLogin finds a user by username or case-insensitive email.
	GetUserByLogin(ctx context.Context, identifier string) (*core.User, error)
	GetUser(ctx context.Context, id int64) (*core.User, error)
	SetDailyLimit(ctx context.Context, userID int64, limit *core.Money) error
}

// AlertPublisher sends alert messages to the notification queue. The AMQP
// client satisfies it; services treat a nil publisher as "notifications
// disabled" and never fail a write over it.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}
