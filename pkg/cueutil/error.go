// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// Violation is a single schema violation.
	Violation struct {
		// Path is the location of the invalid value, e.g. "Skyloft > Bazaar > locations".
		Path string
		// Message is the CUE error message without the path prefix.
		Message string
	}

	// SchemaError lists every violation found in one file.
	SchemaError struct {
		FilePath   string
		Violations []Violation
	}
)

// Error implements the error interface.
func (e *SchemaError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Path != "" {
			lines = append(lines, v.Path+": "+v.Message)
		} else {
			lines = append(lines, v.Message)
		}
	}
	var msg string
	if len(lines) == 1 {
		msg = lines[0]
	} else {
		msg = "schema validation failed:\n  " + strings.Join(lines, "\n  ")
	}
	if e.FilePath == "" {
		return msg
	}
	return e.FilePath + ": " + msg
}

// FormatError converts a CUE error into a *SchemaError. Non-CUE errors are
// wrapped with the file path when one is given.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	var cueErr errors.Error
	if !errors.As(err, &cueErr) {
		if filePath == "" {
			return err
		}
		return fmt.Errorf("%s: %w", filePath, err)
	}
	cueErrors := errors.Errors(err)

	out := &SchemaError{FilePath: filePath}
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if msg == "" {
			msg = e.Error()
		}
		v := Violation{Path: pathStr, Message: msg}
		// Disjunctions report the same violation once per branch.
		if !slices.Contains(out.Violations, v) {
			out.Violations = append(out.Violations, v)
		}
	}
	return out
}

// formatPath renders a CUE error path as "a > b > c". Labels that CUE quotes
// (keys with spaces or punctuation) are unquoted, and numeric labels after
// the first element are rendered as list indices ("items[3]").
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	var result strings.Builder
	for i, part := range path {
		if unquoted, err := strconv.Unquote(part); err == nil {
			part = unquoted
		}
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(" > ")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
