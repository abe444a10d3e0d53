// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "world.yaml"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "world.yaml")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "world.yaml") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !errors.Is(err, originalErr) {
			t.Errorf("error should wrap the original error, got: %v", err)
		}
	})

	t.Run("non-CUE error keeps its message", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("decode: field kind is not a string")
		err := FormatError(originalErr, "worldc.cue")
		if got, want := err.Error(), "worldc.cue: decode: field kind is not a string"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			t.Errorf("plain error should not become a *SchemaError, got %v", schemaErr)
		}
	})

	t.Run("non-CUE error without filepath is returned as is", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		if err := FormatError(originalErr, ""); err != originalErr {
			t.Errorf("FormatError() = %v, want the original error", err)
		}
	})

	t.Run("CUE error becomes a SchemaError", func(t *testing.T) {
		t.Parallel()

		v := cuecontext.New().CompileString("a: int & \"x\"")
		err := FormatError(v.Err(), "world.yaml")
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected *SchemaError, got %T: %v", err, err)
		}
		if len(schemaErr.Violations) == 0 {
			t.Fatal("expected at least one violation")
		}
		for _, v := range schemaErr.Violations {
			if v.Message == "" {
				t.Errorf("violation %+v has an empty message", v)
			}
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: []string{}, expected: ""},
		{name: "single element", path: []string{"Skyloft"}, expected: "Skyloft"},
		{name: "nested path", path: []string{"Skyloft", "Bazaar", "locations"}, expected: "Skyloft > Bazaar > locations"},
		{name: "quoted label", path: []string{`"Central Skyloft"`, "Bazaar"}, expected: "Central Skyloft > Bazaar"},
		{name: "list index", path: []string{"items", "3", "kind"}, expected: "items[3] > kind"},
		{name: "leading number is a key", path: []string{"7", "name"}, expected: "7 > name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestSchemaError_Error(t *testing.T) {
	t.Parallel()

	t.Run("single violation", func(t *testing.T) {
		t.Parallel()

		err := &SchemaError{
			FilePath:   "Skyloft.yaml",
			Violations: []Violation{{Path: "Skyloft > Bazaar > can_sleep", Message: "conflicting values"}},
		}
		want := "Skyloft.yaml: Skyloft > Bazaar > can_sleep: conflicting values"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("multiple violations", func(t *testing.T) {
		t.Parallel()

		err := &SchemaError{
			FilePath: "items.yaml",
			Violations: []Violation{
				{Path: "items[0] > kind", Message: "invalid value"},
				{Message: "incomplete value"},
			},
		}
		got := err.Error()
		for _, want := range []string{"items.yaml: schema validation failed", "items[0] > kind: invalid value", "\n  incomplete value"} {
			if !strings.Contains(got, want) {
				t.Errorf("Error() = %q, missing %q", got, want)
			}
		}
	})
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()

		if err := CheckFileSize(make([]byte, 100), 100, "world.yaml"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("exceeds limit", func(t *testing.T) {
		t.Parallel()

		err := CheckFileSize(make([]byte, 101), 100, "world.yaml")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("unexpected message: %v", err)
		}
	})
}

func TestSchemaError_NoFilePath(t *testing.T) {
	t.Parallel()

	err := &SchemaError{Violations: []Violation{{Path: "Skyloft", Message: "field not allowed"}}}
	if got, want := err.Error(), "Skyloft: field not allowed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
