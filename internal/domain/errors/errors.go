// Package errors defines application-specific error types carrying both an
// HTTP status and a stable business error code, so delivery code can map
// domain outcomes to responses without inspecting database or provider
// errors directly.
package errors

import (
	"net/http"

	"shorts/internal/errors"
)

// AppError is the contract every predefined application error satisfies.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Session-related errors
	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_REQUIRED",
		"No active session",
		"",
	)

	ErrSessionRejected = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_REJECTED",
		"The identity provider rejected the supplied credentials",
		"",
	)

	ErrAuthTimeout = NewBaseError(
		http.StatusUnauthorized,
		"AUTH_TIMEOUT",
		"Authentication did not complete in time",
		"",
	)

	// Job-related errors
	ErrEmptyVideoURL = NewBaseError(
		http.StatusBadRequest,
		"EMPTY_VIDEO_URL",
		"A video URL is required",
		"",
	)

	ErrJobCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"JOB_CREATION_FAILED",
		"Failed to queue the job",
		"",
	)

	ErrJobNotFound = NewBaseError(
		http.StatusNotFound,
		"JOB_NOT_FOUND",
		"Job not found",
		"",
	)

	// Identity-persistence errors
	ErrIdentityPersistFailed = NewBaseError(
		http.StatusInternalServerError,
		"IDENTITY_PERSIST_FAILED",
		"Failed to record the user identity",
		"",
	)
)

// NewDatabaseExecuteError wraps an underlying database error into a generic
// application error, keeping the driver detail out of user-facing messages.
func NewDatabaseExecuteError(err error, message string) error {
	base := NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_EXECUTE_FAILED",
		message,
		err.Error(),
	)

	return errors.Wrap(base, message)
}
