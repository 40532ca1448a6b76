package service

import (
	"errors"
	"fmt"

	"github.com/freshfold/laundry-api/internal/domain"
)

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when a username or password is wrong
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)

	// ErrAccountInactive is returned when a deactivated account tries to log in
	ErrAccountInactive = fmt.Errorf("account is deactivated: %w", ErrUnauthorized)

	// ErrPasswordConfirmation is returned when a re-authentication password is wrong
	ErrPasswordConfirmation = fmt.Errorf("password confirmation failed: %w", ErrUnauthorized)

	// ErrUserContextRequired is returned when an operation needs an authenticated caller
	ErrUserContextRequired = fmt.Errorf("user context required: %w", ErrUnauthorized)

	ErrUserNotFound          = notFound("user")
	ErrItemNotFound          = notFound("item")
	ErrOrderNotFound         = notFound("order")
	ErrBudgetEntryNotFound   = notFound("budget entry")
	ErrSnapshotNotFound      = notFound("report snapshot")
	ErrArchiveNotFound       = notFound("snapshot archive")
	ErrUsernameTaken         = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrCannotRemoveLastAdmin = fmt.Errorf("cannot deactivate the last active admin: %w", ErrConflict)
	ErrInconsistentReport    = errors.New("report totals do not match expense details")
	ErrStorageNotConfigured  = errors.New("archive storage is not configured")
)

// NotFoundError names the kind of resource that was missing
type NotFoundError struct {
	Resource string
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// Is makes every NotFoundError match ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a storage failure with the operation that failed
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func invalid(field, message string) error {
	return domain.NewValidationError(field, message)
}
