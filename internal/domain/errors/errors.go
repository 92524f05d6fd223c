package errors

import (
	"net/http"

	"beacon/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError carrying the same business code, so WithDetails copies still match.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Authentication-related errors
	ErrAuthenticationRequired = NewBaseError(
		http.StatusUnauthorized,
		"AUTHENTICATION_REQUIRED",
		"Authentication token is required",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Invalid or expired token",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Connection is not authenticated",
		"",
	)

	ErrAuthServiceUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"CONNECTION_ERROR",
		"Authentication service unavailable",
		"",
	)

	// Notification-related errors
	ErrNotificationNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Notification not found",
		"",
	)

	ErrMarkReadFailed = NewBaseError(
		http.StatusInternalServerError,
		"MARK_READ_ERROR",
		"Failed to mark notification as read",
		"",
	)

	// Device-related errors
	ErrDeviceNotFound = NewBaseError(
		http.StatusNotFound,
		"DEVICE_NOT_FOUND",
		"Device not found",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// PresenceRegistryError is returned when the shared presence store cannot be reached
type PresenceRegistryError struct {
	err     error
	details string
}

// NewPresenceRegistryError creates a presence store error
func NewPresenceRegistryError(err error, details string) AppError {
	return &PresenceRegistryError{
		err:     err,
		details: details,
	}
}

func (e *PresenceRegistryError) Error() string {
	return errors.Wrap(e.err, "presence registry failed").Error()
}

func (e *PresenceRegistryError) Unwrap() error {
	return e.err
}

func (e *PresenceRegistryError) HTTPCode() int {
	return http.StatusServiceUnavailable
}

func (e *PresenceRegistryError) ErrorCode() string {
	return "PRESENCE_UNAVAILABLE"
}

func (e *PresenceRegistryError) Message() string {
	return "Presence registry unavailable"
}

func (e *PresenceRegistryError) Details() string {
	return e.details
}

// FanoutError is returned when a delivery cannot be handed to the fan-out bus
type FanoutError struct {
	err     error
	details string
}

// NewFanoutError creates a fan-out bus error
func NewFanoutError(err error, details string) AppError {
	return &FanoutError{
		err:     err,
		details: details,
	}
}

func (e *FanoutError) Error() string {
	return errors.Wrap(e.err, "fan-out publish failed").Error()
}

func (e *FanoutError) Unwrap() error {
	return e.err
}

func (e *FanoutError) HTTPCode() int {
	return http.StatusServiceUnavailable
}

func (e *FanoutError) ErrorCode() string {
	return "FANOUT_UNAVAILABLE"
}

func (e *FanoutError) Message() string {
	return "Delivery bus unavailable"
}

func (e *FanoutError) Details() string {
	return e.details
}
