package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Precondition errors
	ErrCodePreconditionMissing ErrorCode = "PRECONDITION_MISSING"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"

	// Session errors
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeArchiveFailed   ErrorCode = "ARCHIVE_FAILED"

	// Remote asset-store errors
	ErrCodeTagNotFound    ErrorCode = "TAG_NOT_FOUND"
	ErrCodeUploadFailed   ErrorCode = "UPLOAD_FAILED"
	ErrCodeDownloadFailed ErrorCode = "DOWNLOAD_FAILED"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// General errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// HandoffError represents a structured error with context
type HandoffError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *HandoffError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HandoffError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *HandoffError) WithDetail(key string, value interface{}) *HandoffError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *HandoffError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new HandoffError
func New(code ErrorCode, message string) *HandoffError {
	return &HandoffError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a HandoffError
func Wrap(err error, code ErrorCode, message string) *HandoffError {
	return &HandoffError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific HandoffError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	handoffErr, ok := err.(*HandoffError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return handoffErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	handoffErr, ok := err.(*HandoffError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return handoffErr.Code
}
