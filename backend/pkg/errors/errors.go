package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGitHub represents GitHub API errors
	ErrorTypeGitHub ErrorType = "github"
	// ErrorTypeData represents malformed API payloads
	ErrorTypeData ErrorType = "data"
	// ErrorTypeExport represents CSV export errors
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInput represents invalid user input
	ErrorTypeInput ErrorType = "input"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// GitHub Errors

// HTTPError is returned when the API answers with a non-2xx status
type HTTPError struct {
	*BaseError
	URL        string
	StatusCode int
	Body       []byte
}

func NewHTTPError(url string, statusCode int, body []byte) *HTTPError {
	return &HTTPError{
		BaseError:  NewBaseError(ErrorTypeGitHub, fmt.Sprintf("GET %s returned status %d", url, statusCode), nil),
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

// DecodeError is returned when a page body is not a JSON array of objects
type DecodeError struct {
	*BaseError
	URL string
}

func NewDecodeError(url string, err error) *DecodeError {
	return &DecodeError{
		BaseError: NewBaseError(ErrorTypeGitHub, fmt.Sprintf("failed to decode page %s", url), err),
		URL:       url,
	}
}

// Data Errors

// MissingFieldError is returned when an account record lacks its identifier
type MissingFieldError struct {
	*BaseError
	Field string
	Index int
}

func NewMissingFieldError(field string, index int) *MissingFieldError {
	return &MissingFieldError{
		BaseError: NewBaseError(ErrorTypeData, fmt.Sprintf("record %d has no %q field", index, field), nil),
		Field:     field,
		Index:     index,
	}
}

// Export Errors

// ExportError is returned when the CSV file cannot be written or read
type ExportError struct {
	*BaseError
	Path string
}

func NewExportError(path string, err error) *ExportError {
	return &ExportError{
		BaseError: NewBaseError(ErrorTypeExport, fmt.Sprintf("csv export failed: %s", path), err),
		Path:      path,
	}
}

// Input Errors

// ErrEmptyUsername is returned when no account name was given
var ErrEmptyUsername = NewBaseError(ErrorTypeInput, "username is required", nil)

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type typed interface {
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType { return e.Type }

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if t, ok := err.(typed); ok && t.errorType() == errType {
		return true
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}
