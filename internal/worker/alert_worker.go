// Package worker holds the queue consumers run by the notifier binary.
package worker

import (
	"fmt"
	"log/slog"

	"dinero/internal/amqp"
	"dinero/internal/core"
)

// AlertWorker handles budget and large-expense alert messages. Delivery
// here is the notification channel itself: the worker logs the alert in
// a form downstream log shipping can route to users.
type AlertWorker struct {
	logger *slog.Logger
}

func NewAlertWorker(logger *slog.Logger) *AlertWorker {
	return &AlertWorker{logger: logger}
}

// HandleAlert processes one alert message. A non-nil return requeues the
// delivery, so only transient conditions should error; malformed kinds
// are dropped with a log line instead.
func (w *AlertWorker) HandleAlert(msg *amqp.AlertMessage) error {
	switch msg.Kind {
	case amqp.KindBudgetAlert:
		w.logger.Warn("Budget alert",
			"user_id", msg.UserID,
			"category", msg.Category,
			"month", msg.Month,
			"severity", msg.Severity,
			"budget", core.Money{Cents: msg.BudgetCents}.String(),
			"spent", core.Money{Cents: msg.SpentCents}.String(),
			"message", msg.Message)
	case amqp.KindLargeExpense:
		w.logger.Warn("Large expense alert",
			"user_id", msg.UserID,
			"category", msg.Category,
			"amount", core.Money{Cents: msg.AmountCents}.String(),
			"message", msg.Message)
	default:
		w.logger.Error("Dropping alert with unknown kind", "kind", msg.Kind, "user_id", msg.UserID)
		return nil
	}
	return nil
}

// Describe returns a short human line for an alert, used in tests and
// for any channel that wants a single string.
func Describe(msg *amqp.AlertMessage) string {
	if msg.Kind == amqp.KindLargeExpense {
		return fmt.Sprintf("user %d: %s", msg.UserID, msg.Message)
	}
	return fmt.Sprintf("user %d [%s %s]: %s", msg.UserID, msg.Month, msg.Severity, msg.Message)
}
