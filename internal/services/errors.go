package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors forming the service-level error taxonomy. Handlers map
// these onto HTTP statuses; anything else is an internal error.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
)

// Invite-specific outcomes the accept flow needs to distinguish.
var (
	ErrInviteAlreadyAccepted = errors.New("invite already accepted")
	ErrInviteCancelled       = errors.New("invite cancelled")
	ErrInviteExpired         = errors.New("invite expired")
)

// QuotaExceededError is returned when an account hits its source cap. It
// carries the configured limit and the current count for UI messaging.
type QuotaExceededError struct {
	Limit int
	Count int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("source limit reached: %d of %d sources in use", e.Count, e.Limit)
}

// validationError wraps ErrValidation with a caller-facing message.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// isDuplicateKey reports whether an error is a unique-constraint violation.
// Matches both the Postgres and SQLite driver error texts since neither GORM
// connection is opened with error translation.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
