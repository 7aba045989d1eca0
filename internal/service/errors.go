package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is(); the API layer maps them to HTTP status
// codes.
var (
	// ErrInvalidTaskStatus indicates a task update carried a status value
	// outside the todo/in_progress/completed set.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrPermissionDenied indicates the acting user is not allowed to perform
	// the operation (e.g., a non-staff user reassigning a task).
	// API layer should map this to HTTP 403 Forbidden.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrTaskCreateFailed indicates task persistence failed for a reason the
	// caller should not see in detail; the cause is logged.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrTaskCreateFailed = errors.New("failed to create task")

	// ErrInvalidCredentials indicates a login attempt with an unknown email
	// or a wrong password.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAttachmentsDisabled indicates attachment upload was requested but no
	// object store is configured.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrAttachmentsDisabled = errors.New("attachment storage is not configured")
)

// ServiceError is a custom error type carrying the failed operation and a
// caller-safe message alongside the underlying cause.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
