package amqp

import (
	"encoding/json"
	"time"
)

// Alert kinds carried on the queue.
const (
	KindBudgetAlert  = "budget_alert"
	KindLargeExpense = "large_expense"
)

// AlertMessage is the payload published when a budget crosses its warning
// or exceeded threshold, or when a single expense passes the large-expense
// threshold. The message carries everything the notifier needs; the worker
// never goes back to the database.
type AlertMessage struct {
	Kind        string    `json:"kind"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	Month       string    `json:"month,omitempty"`
	Severity    string    `json:"severity,omitempty"`
	Message     string    `json:"message"`
	BudgetCents int64     `json:"budget_cents,omitempty"`
	SpentCents  int64     `json:"spent_cents,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(userID int64, category, month, severity, message string, budgetCents, spentCents int64) *AlertMessage {
	return &AlertMessage{
		Kind:        KindBudgetAlert,
		UserID:      userID,
		Category:    category,
		Month:       month,
		Severity:    severity,
		Message:     message,
		BudgetCents: budgetCents,
		SpentCents:  spentCents,
		Timestamp:   time.Now(),
	}
}

func NewLargeExpenseMessage(userID int64, category, message string, amountCents int64) *AlertMessage {
	return &AlertMessage{
		Kind:        KindLargeExpense,
		UserID:      userID,
		Category:    category,
		Message:     message,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
