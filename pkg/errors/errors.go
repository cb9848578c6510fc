package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Per-item filesystem errors collected into ItemOutcome values
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrPermission    ErrorCode = "PERMISSION"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrSourceIsDest  ErrorCode = "SOURCE_IS_DESTINATION"
	ErrNoSpace       ErrorCode = "INSUFFICIENT_SPACE"
	ErrCancelled     ErrorCode = "CANCELLED"

	// History errors
	ErrEmptyHistory ErrorCode = "EMPTY_HISTORY"

	// Coordinator errors
	ErrCommandFailed      ErrorCode = "COMMAND_FAILED"
	ErrStagingUnavailable ErrorCode = "STAGING_UNAVAILABLE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// FmanError represents a structured error with code and details
type FmanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FmanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FmanError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FmanError) Is(target error) bool {
	var targetErr *FmanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FmanError with the given code and message
func New(code ErrorCode, message string) *FmanError {
	return &FmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FmanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FmanError {
	return &FmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FmanError
func Wrap(err error, code ErrorCode, message string) *FmanError {
	if err == nil {
		return nil
	}
	return &FmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FmanError {
	if err == nil {
		return nil
	}
	return &FmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FmanError) WithDetail(key string, value interface{}) *FmanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fmanErr *FmanError
	if errors.As(err, &fmanErr) {
		return fmanErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FmanError
func GetErrorCode(err error) ErrorCode {
	var fmanErr *FmanError
	if errors.As(err, &fmanErr) {
		return fmanErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FmanError
func GetErrorDetails(err error) map[string]interface{} {
	var fmanErr *FmanError
	if errors.As(err, &fmanErr) {
		return fmanErr.Details
	}
	return nil
}
