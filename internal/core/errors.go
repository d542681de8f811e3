package core

import "errors"

var (
	// ErrInvalidPeriod is returned for month tokens that do not parse as YYYY-MM.
	ErrInvalidPeriod = errors.New("invalid period: expected YYYY-MM")

	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotFound      = errors.New("not found")

	// ErrInvalidCredentials covers both unknown users and wrong passwords
	// so that login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConflictReason tags which unique field caused a store conflict. The store
// reports the field when it can determine it; services never guess from
// error text.
type ConflictReason string

const (
	DuplicateUsername ConflictReason = "duplicate_username"
	DuplicateEmail    ConflictReason = "duplicate_email"
	ConflictUnknown   ConflictReason = "unknown"
)

// ConflictError is returned by the store on unique-constraint violations.
type ConflictError struct {
	Reason ConflictReason
}

func (e *ConflictError) Error() string {
	switch e.Reason {
	case DuplicateUsername:
		return "conflict: username already taken"
	case DuplicateEmail:
		return "conflict: email already registered"
	}
	return "conflict: account already exists"
}

// ValidationError reports malformed input rejected before it reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}
