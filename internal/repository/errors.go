package repository

import (
	"strings"

	apperrors "github.com/devcred/devcred-backend/internal/errors"
)

// Common repository errors. These alias the application sentinels so
// the response layer can map them to API error codes with errors.Is.
var (
	ErrNotFound       = apperrors.ErrNotFound
	ErrDuplicateEntry = apperrors.ErrDuplicateEntry
	ErrInvalidInput   = apperrors.ErrInvalidInput

	// ErrSelfRequest is returned when a user directs a request at themselves
	ErrSelfRequest = apperrors.ErrSelfRequest

	// ErrForbidden is returned when the actor is not allowed to act on a record
	ErrForbidden = apperrors.ErrForbidden

	// ErrNoGrant is returned when contribution creation finds no unused
	// accepted request to consume
	ErrNoGrant = apperrors.ErrNoGrant
)

// isDuplicateKeyError checks if the error is a duplicate key violation
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505") // PostgreSQL unique violation code
}
