package services

import (
	"context"
	"errors"
	"testing"

	"dinero/internal/amqp"
	"dinero/internal/core"
	"dinero/internal/storage/memstore"
)

// capturePublisher records published alert messages instead of touching a broker.
type capturePublisher struct {
	messages []*amqp.AlertMessage
	err      error
}

func (p *capturePublisher) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func newExpenseService(store *memstore.Store, publisher AlertPublisher, largeLimitCents int64) *ExpenseService {
	return NewExpenseService(store, NewBudgetEvaluator(store), publisher, core.Money{Cents: largeLimitCents})
}

func TestCreateExpenseNormalizesCategory(t *testing.T) {
	store := memstore.New()
	svc := newExpenseService(store, nil, 0)
	ctx := context.Background()

	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"blank becomes uncategorized", "  ", core.DefaultExpenseCategory},
		{"case preserved", "Groceries", "Groceries"},
		{"trimmed", " Food ", "Food"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CreateExpense(ctx, 1, ExpenseInput{
				Title:    "test",
				Category: tt.category,
				Amount:   core.Money{Cents: 1000},
				Date:     core.NewDate(2025, 6, 10),
			})
			if err != nil {
				t.Fatalf("CreateExpense() error = %v", err)
			}
			if result.Category != tt.want {
				t.Errorf("stored category = %q, want %q", result.Category, tt.want)
			}
		})
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newExpenseService(memstore.New(), nil, 0)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ExpenseInput
	}{
		{
			name:  "zero amount",
			input: ExpenseInput{Category: "Food", Date: core.NewDate(2025, 6, 10)},
		},
		{
			name:  "negative amount",
			input: ExpenseInput{Category: "Food", Amount: core.Money{Cents: -100}, Date: core.NewDate(2025, 6, 10)},
		},
		{
			name:  "missing date",
			input: ExpenseInput{Category: "Food", Amount: core.Money{Cents: 100}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExpense(ctx, 1, tt.input)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("CreateExpense() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateExpenseBudgetAlerts(t *testing.T) {
	store := memstore.New()
	publisher := &capturePublisher{}
	svc := newExpenseService(store, publisher, 0)
	ctx := context.Background()
	const userID = 1

	setBudget(t, store, userID, "Food", "2025-06", 100000)

	// First expense stays under the warning threshold.
	result, err := svc.CreateExpense(ctx, userID, ExpenseInput{
		Category: "Food",
		Amount:   core.Money{Cents: 50000},
		Date:     core.NewDate(2025, 6, 10),
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if len(result.Alerts) != 0 {
		t.Errorf("alerts = %+v, want none at 50%%", result.Alerts)
	}

	// Second pushes the category to 90%.
	result, err = svc.CreateExpense(ctx, userID, ExpenseInput{
		Category: "Food",
		Amount:   core.Money{Cents: 40000},
		Date:     core.NewDate(2025, 6, 12),
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if len(result.Alerts) != 1 || result.Alerts[0].Severity != StateWarning {
		t.Fatalf("alerts = %+v, want one warning", result.Alerts)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.Kind != amqp.KindBudgetAlert || msg.UserID != userID || msg.SpentCents != 90000 {
		t.Errorf("published message = %+v", msg)
	}
}

func TestCreateExpenseLargeFlag(t *testing.T) {
	store := memstore.New()
	publisher := &capturePublisher{}
	svc := newExpenseService(store, publisher, 500000)
	ctx := context.Background()

	tests := []struct {
		name  string
		cents int64
		want  bool
	}{
		{"below threshold", 499999, false},
		{"at threshold", 500000, true},
		{"above threshold", 750000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CreateExpense(ctx, 1, ExpenseInput{
				Category: "Electronics",
				Amount:   core.Money{Cents: tt.cents},
				Date:     core.NewDate(2025, 6, 10),
			})
			if err != nil {
				t.Fatalf("CreateExpense() error = %v", err)
			}
			if result.LargeExpense != tt.want {
				t.Errorf("LargeExpense = %v, want %v", result.LargeExpense, tt.want)
			}
		})
	}

	var largeMessages int
	for _, msg := range publisher.messages {
		if msg.Kind == amqp.KindLargeExpense {
			largeMessages++
		}
	}
	if largeMessages != 2 {
		t.Errorf("published %d large-expense messages, want 2", largeMessages)
	}
}

func TestCreateExpensePublishFailureDoesNotFailWrite(t *testing.T) {
	store := memstore.New()
	publisher := &capturePublisher{err: errors.New("broker down")}
	svc := newExpenseService(store, publisher, 100)
	ctx := context.Background()

	result, err := svc.CreateExpense(ctx, 1, ExpenseInput{
		Category: "Food",
		Amount:   core.Money{Cents: 1000},
		Date:     core.NewDate(2025, 6, 10),
	})
	if err != nil {
		t.Fatalf("CreateExpense() error = %v, write must survive publish failure", err)
	}
	if result.ID == 0 {
		t.Error("expense id should be set")
	}
	if !result.LargeExpense {
		t.Error("large flag should still be reported when publishing fails")
	}
}

func TestCreateIncomeAndListMonth(t *testing.T) {
	store := memstore.New()
	svc := newExpenseService(store, nil, 0)
	ctx := context.Background()
	const userID = 1

	if _, err := svc.CreateIncome(ctx, userID, IncomeInput{
		Source: "Salary",
		Amount: core.Money{Cents: 300000},
		Date:   core.NewDate(2025, 6, 1),
	}); err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}
	if _, err := svc.CreateExpense(ctx, userID, ExpenseInput{
		Category: "Food",
		Amount:   core.Money{Cents: 4500},
		Date:     core.NewDate(2025, 6, 10),
	}); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	expenses, incomes, err := svc.ListMonth(ctx, userID, "2025-06")
	if err != nil {
		t.Fatalf("ListMonth() error = %v", err)
	}
	if len(expenses) != 1 || len(incomes) != 1 {
		t.Errorf("ListMonth() = %d expenses, %d incomes; want 1 and 1", len(expenses), len(incomes))
	}

	if _, _, err := svc.ListMonth(ctx, userID, "bogus"); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Errorf("ListMonth(bogus) error = %v, want ErrInvalidPeriod", err)
	}

	if err := svc.ClearAll(ctx, userID); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	expenses, incomes, err = svc.ListMonth(ctx, userID, "2025-06")
	if err != nil {
		t.Fatalf("ListMonth() after clear error = %v", err)
	}
	if len(expenses) != 0 || len(incomes) != 0 {
		t.Errorf("after ClearAll: %d expenses, %d incomes; want none", len(expenses), len(incomes))
	}
}

func TestCreateIncomeValidation(t *testing.T) {
	svc := newExpenseService(memstore.New(), nil, 0)

	_, err := svc.CreateIncome(context.Background(), 1, IncomeInput{Source: "Salary", Date: core.NewDate(2025, 6, 1)})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("CreateIncome() error = %v, want ValidationError", err)
	}
}
