// Package errors provides a lightweight structured error type (IndexError)
// for category-based classification across the indexing passes and the CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an IndexError for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Vault and filesystem errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRotation   ErrorCategory = "rotation"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// IndexError is a structured error with category, severity, and context
type IndexError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for IndexError
type ContextFields map[string]any

// Error implements the error interface
func (e *IndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *IndexError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *IndexError) WithContext(key string, value any) *IndexError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new IndexError
func New(category ErrorCategory, severity ErrorSeverity, message string) *IndexError {
	return &IndexError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new IndexError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *IndexError {
	return &IndexError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
