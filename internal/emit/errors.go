// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"errors"
	"fmt"

	"github.com/invowk/worldc/internal/issue"
)

var (
	// ErrTooManyValues is returned when an enumeration does not fit its
	// generated integer type.
	ErrTooManyValues = errors.New("too many values for generated type")
	// ErrFormat is returned when generated source does not parse.
	ErrFormat = errors.New("generated source does not parse")
	// ErrWrite is returned when an output file cannot be written.
	ErrWrite = errors.New("cannot write output")
)

type (
	// TooManyValuesError reports an enumeration larger than MaxValues.
	TooManyValuesError struct {
		Type  string
		Count int
	}

	// FormatError wraps a go/format failure. It indicates a bug in the
	// emitter, never in the world description.
	FormatError struct {
		File string
		Err  error
	}

	// WriteError reports a failure to write or read back an output file.
	WriteError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *TooManyValuesError) Error() string {
	return fmt.Sprintf("%d %s values do not fit in uint16 (max %d)", e.Count, e.Type, MaxValues)
}

// Unwrap returns ErrTooManyValues for errors.Is() compatibility.
func (e *TooManyValuesError) Unwrap() error { return ErrTooManyValues }

// IssueId implements issue.Categorized.
func (e *TooManyValuesError) IssueId() issue.Id { return issue.WorldStructureId }

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting %s: %v", e.File, e.Err)
}

// Is matches ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// Unwrap returns the go/format error.
func (e *FormatError) Unwrap() error { return e.Err }

// IssueId implements issue.Categorized.
func (e *FormatError) IssueId() issue.Id { return issue.OutputWriteFailedId }

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Is matches ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// Unwrap returns the underlying I/O error.
func (e *WriteError) Unwrap() error { return e.Err }

// IssueId implements issue.Categorized.
func (e *WriteError) IssueId() issue.Id { return issue.OutputWriteFailedId }
