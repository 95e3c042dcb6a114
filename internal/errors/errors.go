package errors

import (
	"errors"
	"fmt"
)

// ForcError is the structured error type for forc.
// It provides rich context for error handling, logging, and user presentation.
type ForcError struct {
	// Code is the unique error code (e.g., "ERR_201_MANIFEST_IO").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ForcError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ForcError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work against the package-level sentinels.
func (e *ForcError) Is(target error) bool {
	if t, ok := target.(*ForcError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ForcError) WithDetail(key, value string) *ForcError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *ForcError) WithSuggestion(suggestion string) *ForcError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ForcError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *ForcError {
	return &ForcError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a ForcError from an existing error.
// The error's message becomes the ForcError message.
func Wrap(code string, err error) *ForcError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// Sentinel returns a bare error carrying only a code, for use with errors.Is.
func Sentinel(code string) *ForcError {
	return &ForcError{Code: code, Category: categoryFromCode(code)}
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	var fe *ForcError
	if errors.As(err, &fe) {
		return fe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a ForcError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var fe *ForcError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
