package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"dinero/internal/core"
)

const minPasswordLength = 8

// AuthService owns registration and credential checks. Password hashes
// are bcrypt; login accepts username or email and collapses every failure
// into ErrInvalidCredentials so callers cannot probe which accounts exist.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account and returns its id. Email is optional;
// duplicates surface as *core.ConflictError from the store.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return 0, &core.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if email != "" && !strings.Contains(email, "@") {
		return 0, &core.ValidationError{Field: "email", Reason: "must contain @"}
	}
	if len(password) < minPasswordLength {
		return 0, &core.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, core.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Login verifies credentials for a username or email identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*core.User, error) {
	u, err := s.users.GetUserByLogin(ctx, strings.TrimSpace(identifier))
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, core.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*core.User, error) {
	return s.users.GetUser(ctx, id)
}

// SetDailyLimit sets or clears (nil) the user's per-day spending limit.
func (s *AuthService) SetDailyLimit(ctx context.Context, userID int64, limit *core.Money) error {
	if limit != nil {
		if err := limit.Validate(); err != nil {
			return &core.ValidationError{Field: "daily_limit", Reason: "must be a positive amount"}
		}
	}
	return s.users.SetDailyLimit(ctx, userID, limit)
}
