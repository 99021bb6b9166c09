package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestEngineError_Error(t *testing.T) {
	plain := New(CategoryInput, CodeInvalidPayload, "payload could not be decoded")
	if plain.Error() != "payload could not be decoded" {
		t.Errorf("Error() = %q", plain.Error())
	}

	withSuggestion := plain.WithSuggestion("check the JSON")
	if !strings.Contains(withSuggestion.Error(), "suggestion: check the JSON") {
		t.Errorf("suggestion missing from message: %q", withSuggestion.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	wrapped := Wrap(cause, CategoryFile, CodeFileRead, "failed to read extraction payload")

	if wrapped.Cause != cause {
		t.Error("cause not preserved")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if len(wrapped.StackTrace) == 0 {
		t.Error("wrapped error should carry a stack trace")
	}
	if Wrap(nil, CategoryFile, CodeFileRead, "x") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestInputError_Messages(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		detail   string
		wantPart string
	}{
		{CodeMissingSection, "Invoice", "missing the required section: Invoice"},
		{CodeInvalidPayload, "reference data", "could not be decoded"},
		{CodeEmptyPayload, "extraction result", "payload is empty"},
	}

	for _, tt := range tests {
		err := InputError(tt.code, tt.detail, nil)
		if err.Category != CategoryInput {
			t.Errorf("category = %s, want input", err.Category)
		}
		if !strings.Contains(err.Message, tt.wantPart) {
			t.Errorf("message %q missing %q", err.Message, tt.wantPart)
		}
		if err.Suggestion == "" {
			t.Errorf("input error %s should carry a suggestion", tt.code)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{New(CategoryFile, CodeFileNotFound, "x"), 2},
		{New(CategoryInput, CodeInvalidPayload, "x"), 3},
		{New(CategoryConfiguration, CodeInvalidConfig, "x"), 4},
		{New(CategoryReconciliation, CodeProcessingError, "x"), 5},
		{New(CategoryInternal, CodeUnexpectedError, "x"), 5},
		{stderrors.New("plain"), 1},
		{nil, 1},
	}

	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.expected {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
		}
	}
}

func TestIsCategory(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/missing.json", nil)

	if !IsCategory(err, CategoryFile) {
		t.Error("direct category check failed")
	}
	if IsCategory(err, CategoryInput) {
		t.Error("wrong category should not match")
	}

	wrapped := fmt.Errorf("reading inputs: %w", err)
	if !IsCategory(wrapped, CategoryFile) {
		t.Error("category check should see through fmt.Errorf wrapping")
	}

	if IsCategory(stderrors.New("plain"), CategoryFile) {
		t.Error("plain errors have no category")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileRead, "read failed").
		WithContext("path", "/tmp/x.json").
		WithContext("attempt", 2)

	if err.Context["path"] != "/tmp/x.json" {
		t.Errorf("context path = %v", err.Context["path"])
	}
	if err.Context["attempt"] != 2 {
		t.Errorf("context attempt = %v", err.Context["attempt"])
	}
}
