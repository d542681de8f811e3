package services

import (
	"context"
	"errors"
	"testing"

	"dinero/internal/core"
	"dinero/internal/storage/memstore"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(memstore.New())
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "Alice@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Register() returned zero id")
	}

	for _, identifier := range []string{"alice", "alice@example.com"} {
		u, err := svc.Login(ctx, identifier, "correct horse")
		if err != nil {
			t.Fatalf("Login(%q) error = %v", identifier, err)
		}
		if u.ID != id {
			t.Errorf("Login(%q) id = %d, want %d", identifier, u.ID, id)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	svc := NewAuthService(memstore.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "", "correct horse"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "alice", "wrong horse"},
		{"unknown user", "nobody", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.identifier, tt.password); !errors.Is(err, core.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(memstore.New())
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@example.com", "correct horse"},
		{"whitespace username", "   ", "a@example.com", "correct horse"},
		{"short password", "alice", "a@example.com", "short"},
		{"email without at sign", "alice", "not-an-email", "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Register() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	svc := NewAuthService(memstore.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "correct horse"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		email    string
		want     core.ConflictReason
	}{
		{"duplicate username", "alice", "other@example.com", core.DuplicateUsername},
		{"duplicate email", "bob", "ALICE@example.com", core.DuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, "correct horse")
			var conflict *core.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("Register() error = %v, want ConflictError", err)
			}
			if conflict.Reason != tt.want {
				t.Errorf("conflict reason = %q, want %q", conflict.Reason, tt.want)
			}
		})
	}
}

func TestSetDailyLimit(t *testing.T) {
	store := memstore.New()
	svc := NewAuthService(store)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.SetDailyLimit(ctx, id, &core.Money{Cents: 5000}); err != nil {
		t.Fatalf("SetDailyLimit() error = %v", err)
	}
	u, err := svc.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.DailyLimit == nil || u.DailyLimit.Cents != 5000 {
		t.Errorf("daily limit = %v, want 5000 cents", u.DailyLimit)
	}

	err = svc.SetDailyLimit(ctx, id, &core.Money{Cents: -1})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("SetDailyLimit(negative) error = %v, want ValidationError", err)
	}

	if err := svc.SetDailyLimit(ctx, id, nil); err != nil {
		t.Fatalf("SetDailyLimit(nil) error = %v", err)
	}
}
