package errors

import (
	"errors"
	"fmt"
)

// ErrorType categorizes application errors for callers that need to map them
// onto retry or transport semantics.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError is a structured application error.
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError builds a non-retryable caller error.
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// Predefined common errors
var (
	ErrInvalidLimits   = NewValidationError("INVALID_LIMITS", "Velocity limits must be positive")
	ErrMissingUserID   = NewValidationError("MISSING_USER_ID", "User ID is required")
	ErrMissingDeviceID = NewValidationError("MISSING_DEVICE_ID", "Device ID is required")
	ErrNilReport       = NewValidationError("INVALID_REPORT", "Suspicious activity report cannot be empty")
)

// Wrap marks err as an internal failure of the named operation. The result
// unwraps to err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   err,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}
