package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "docsite.yaml" {
			t.Errorf("expected context file=docsite.yaml, got %v", file)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		base := NotFoundError("document not found").WithContext("path", "/docs/x").Build()
		wrapped := fmt.Errorf("assemble: %w", base)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryNotFound) {
			t.Error("expected not_found category through wrapping")
		}
		if GetCategory(stderrors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to report internal category")
		}
	})

	t.Run("Cause unwrapping", func(t *testing.T) {
		cause := stderrors.New("disk on fire")
		err := WrapError(cause, CategoryFileSystem, "read failed").Build()
		if !stderrors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
		if err.Error() != "[filesystem:error] read failed: disk on fire" {
			t.Errorf("unexpected error string %q", err.Error())
		}
	})
}

func TestErrorBuilderConvenience(t *testing.T) {
	cases := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		fatal    bool
	}{
		{"config", ConfigError("x").Build(), CategoryConfig, true},
		{"validation", ValidationError("x").Build(), CategoryValidation, false},
		{"not found", NotFoundError("x").Build(), CategoryNotFound, false},
		{"parse", ParseError("x").Build(), CategoryParse, false},
		{"render", RenderError("x").Build(), CategoryRender, true},
		{"filesystem", FileSystemError("x").Build(), CategoryFileSystem, false},
		{"internal", InternalError("x").Build(), CategoryInternal, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Category() != tc.category {
				t.Errorf("category = %s, want %s", tc.err.Category(), tc.category)
			}
			if tc.err.IsFatal() != tc.fatal {
				t.Errorf("fatal = %v, want %v", tc.err.IsFatal(), tc.fatal)
			}
		})
	}
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "left"}
	b := ErrorContext{"b": 2, "shared": "right"}
	merged := a.Merge(b)
	if v, _ := merged.GetString("shared"); v != "right" {
		t.Errorf("expected right-hand precedence, got %q", v)
	}
	if len(merged) != 3 {
		t.Errorf("expected 3 keys, got %d", len(merged))
	}
}
