// internal/errors/errors.go
package appErrors

import "fmt"

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Detail)
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing or soft-deleted entity.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	Resource string
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Detail)
}

func NewConflict(resource, format string, args ...any) error {
	return &ConflictError{Resource: resource, Detail: fmt.Sprintf(format, args...)}
}

// AuthError reports a failed login against the external platform.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("external platform login failed: %s", e.Detail)
}

func NewAuth(format string, args ...any) error {
	return &AuthError{Detail: fmt.Sprintf(format, args...)}
}

// ExternalSyncError reports a non-2xx response from the external platform.
// Status and Body are kept so callers can decide whether to roll back.
type ExternalSyncError struct {
	Status int
	Body   string
}

func (e *ExternalSyncError) Error() string {
	return fmt.Sprintf("external sync failed with status %d: %s", e.Status, e.Body)
}

func NewExternalSync(status int, body string) error {
	return &ExternalSyncError{Status: status, Body: body}
}

// PersistenceError wraps a local storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
