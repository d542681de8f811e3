package worker

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"dinero/internal/amqp"
)

func TestHandleAlert(t *testing.T) {
	var buf bytes.Buffer
	w := NewAlertWorker(slog.New(slog.NewTextHandler(&buf, nil)))

	tests := []struct {
		name     string
		msg      *amqp.AlertMessage
		wantLogs []string
	}{
		{
			name:     "budget alert",
			msg:      amqp.NewBudgetAlertMessage(1, "Food", "2025-06", "warning", "Food: already spent 800.00 out of 1000.00 budget", 100000, 80000),
			wantLogs: []string{"Budget alert", "category=Food", "severity=warning"},
		},
		{
			name:     "large expense",
			msg:      amqp.NewLargeExpenseMessage(1, "Electronics", "Large expense recorded: 7500.00 (Electronics)", 750000),
			wantLogs: []string{"Large expense alert", "amount=7500.00"},
		},
		{
			name:     "unknown kind is dropped without requeue",
			msg:      &amqp.AlertMessage{Kind: "mystery", UserID: 1},
			wantLogs: []string{"unknown kind"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			if err := w.HandleAlert(tt.msg); err != nil {
				t.Fatalf("HandleAlert() error = %v", err)
			}
			for _, want := range tt.wantLogs {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("log output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	budget := amqp.NewBudgetAlertMessage(7, "Food", "2025-06", "exceeded", "Food: budget exceeded, spent 1100.00 / budget 1000.00", 100000, 110000)
	if got := Describe(budget); !strings.Contains(got, "2025-06") || !strings.Contains(got, "exceeded") {
		t.Errorf("Describe(budget) = %q", got)
	}

	large := amqp.NewLargeExpenseMessage(7, "Electronics", "Large expense recorded: 7500.00 (Electronics)", 750000)
	if got := Describe(large); !strings.HasPrefix(got, "user 7: ") {
		t.Errorf("Describe(large) = %q", got)
	}
}
