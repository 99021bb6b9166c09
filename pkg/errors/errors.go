// Package errors defines the structured error taxonomy of the
// reconciliation engine.
//
// Three propagation classes exist:
//   - Input-shape errors (missing Invoice section, undecodable payload)
//     abort the whole reconciliation call.
//   - Classification-rule errors are represented as data (the INVALID
//     category) by the classifier package and never surface here.
//   - Scoring errors are isolated to a single field by the scorer and
//     never surface here either.
//
// Errors carry a category, a code, an optional suggestion for the
// operator, and free-form context, with the cause's stack trace preserved.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by subsystem.
type ErrorCategory string

const (
	CategoryInput          ErrorCategory = "input"
	CategoryConfiguration  ErrorCategory = "configuration"
	CategoryClassification ErrorCategory = "classification"
	CategoryReconciliation ErrorCategory = "reconciliation"
	CategoryFile           ErrorCategory = "file"
	CategoryInternal       ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	// Input-shape errors
	CodeMissingSection ErrorCode = "missing_section"
	CodeInvalidPayload ErrorCode = "invalid_payload"
	CodeEmptyPayload   ErrorCode = "empty_payload"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"

	// Classification errors
	CodeInvalidWBSCode ErrorCode = "invalid_wbs_code"

	// Reconciliation errors
	CodeProcessingError ErrorCode = "processing_error"

	// File errors
	CodeFileNotFound ErrorCode = "file_not_found"
	CodeFileRead     ErrorCode = "file_read"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// Context carries free-form key/value details about an error.
type Context map[string]interface{}

// EngineError is the base error type for all engine errors.
type EngineError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns the process exit code for the error category.
func (e *EngineError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryInput:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryClassification, CategoryReconciliation, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext attaches a key/value detail to the error.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion attaches an operator-facing suggestion.
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a new EngineError.
func New(category ErrorCategory, code ErrorCode, message string) *EngineError {
	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with engine error context.
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// InputError creates an input-shape error. These are fatal to the single
// reconciliation call and never retried internally.
func InputError(code ErrorCode, detail string, cause error) *EngineError {
	var message, suggestion string
	switch code {
	case CodeMissingSection:
		message = fmt.Sprintf("extraction result is missing the required section: %s", detail)
		suggestion = "the upstream extraction contract was violated; check the extraction payload"
	case CodeInvalidPayload:
		message = fmt.Sprintf("payload could not be decoded: %s", detail)
		suggestion = "verify the payload is structured JSON or a single JSON-encoded string"
	case CodeEmptyPayload:
		message = fmt.Sprintf("payload is empty: %s", detail)
		suggestion = "supply a non-empty JSON payload"
	default:
		message = fmt.Sprintf("invalid input: %s", detail)
	}

	e := New(CategoryInput, code, message).WithSuggestion(suggestion)
	e.Cause = cause
	return e
}

// ConfigError creates a configuration error.
func ConfigError(detail string, cause error) *EngineError {
	e := New(CategoryConfiguration, CodeInvalidConfig,
		fmt.Sprintf("invalid configuration: %s", detail)).
		WithSuggestion("check the threshold profile and CLI flags")
	e.Cause = cause
	return e
}

// FileError creates a file access error.
func FileError(code ErrorCode, path string, cause error) *EngineError {
	var message string
	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
	default:
		message = fmt.Sprintf("failed to read file: %s", path)
	}

	e := New(CategoryFile, code, message).
		WithSuggestion("check the file path and permissions").
		WithContext("path", path)
	e.Cause = cause
	return e
}

// IsCategory reports whether err is an EngineError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Category == category
	}
	return false
}

// GetExitCode extracts the exit code from any error.
func GetExitCode(err error) int {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.GetExitCode()
	}
	return 1
}
