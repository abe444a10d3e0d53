// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"

	"github.com/invowk/worldc/internal/issue"
)

var (
	// ErrDuplicateKey is returned when a mapping declares the same key twice.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnexpectedNode is returned when a YAML node has the wrong shape.
	ErrUnexpectedNode = errors.New("unexpected YAML node")
)

type (
	// Pos is a position in a source file.
	Pos struct {
		File string
		Line int
	}

	// FileError reports a failure to read or decode one source file.
	FileError struct {
		Pos   Pos
		Issue issue.Id
		Err   error
	}

	// DuplicateKeyError reports a key declared twice in one mapping, or a
	// region declared in two world files.
	DuplicateKeyError struct {
		Key   string
		Pos   Pos
		First Pos
	}
)

// String renders the position as "file:line", or just the file when the
// line is unknown.
func (p Pos) String() string {
	if p.Line <= 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error { return e.Err }

// IssueId implements issue.Categorized.
func (e *FileError) IssueId() issue.Id { return e.Issue }

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: key %q already declared at %s", e.Pos, e.Key, e.First)
}

// Unwrap returns ErrDuplicateKey for errors.Is() compatibility.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// IssueId implements issue.Categorized.
func (e *DuplicateKeyError) IssueId() issue.Id { return issue.WorldFileInvalidId }
