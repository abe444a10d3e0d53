// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/worldc/internal/issue"
)

var (
	// ErrSyntax is returned when requirement text does not parse.
	ErrSyntax = errors.New("requirement syntax error")
	// ErrUnknownItem is returned for an Item reference to an unregistered item.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownEvent is returned for an Event reference that no area defines.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownArea is returned for an Area reference that matches no area.
	ErrUnknownArea = errors.New("unknown area")
	// ErrUnknownMacro is returned for a bare name that resolves to nothing.
	ErrUnknownMacro = errors.New("unknown macro")
	// ErrMacroCycle is returned when macros reference each other in a cycle.
	ErrMacroCycle = errors.New("macro cycle")
	// ErrInvalidCount is returned for a count on a flag item.
	ErrInvalidCount = errors.New("invalid item count")
	// ErrDuplicateMacro is returned when a scope defines a macro twice.
	ErrDuplicateMacro = errors.New("duplicate macro")
)

type (
	// ParseError reports requirement text that does not match the grammar.
	ParseError struct {
		Text string
		// Pos is the byte offset of the offending token.
		Pos int
		// Token is the offending source text, empty at end of input.
		Token string
		Msg   string
	}

	// UnknownItemError reports an Item reference to an unregistered item.
	UnknownItemError struct {
		Name string
	}

	// UnknownEventError reports an Event reference that no area defines.
	UnknownEventError struct {
		Name string
	}

	// UnknownAreaError reports an Area reference that matches no area.
	UnknownAreaError struct {
		Name string
	}

	// UnknownMacroError reports a bare name that is not an item, event, area
	// or macro visible from Scope.
	UnknownMacroError struct {
		Name  string
		Scope string
	}

	// MacroCycleError reports macros whose bodies reference each other.
	MacroCycleError struct {
		Scope string
		// Cycle is a closed path, e.g. ["a", "b", "a"].
		Cycle []string
	}

	// InvalidCountError reports a count above one on a flag item.
	InvalidCountError struct {
		Item  string
		Count int
	}

	// DuplicateMacroError reports a macro defined twice in one scope.
	DuplicateMacroError struct {
		Name  string
		Scope string
	}

	// CompileError attaches the owning entity and the source text to a
	// compilation failure.
	CompileError struct {
		// Subject names what owns the requirement, e.g. `location "Chest" in Skyloft - Bazaar`.
		Subject string
		// Origin is the source position, e.g. "world/skyloft.yaml:12".
		Origin string
		Text   string
		Err    error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	near := "at end of input"
	if e.Token != "" {
		near = fmt.Sprintf("near %q", e.Token)
	}
	return fmt.Sprintf("syntax error at offset %d %s: %s", e.Pos, near, e.Msg)
}

// Unwrap returns ErrSyntax for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrSyntax }

// IssueId implements issue.Categorized.
func (e *ParseError) IssueId() issue.Id { return issue.RequirementSyntaxId }

// Error implements the error interface.
func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q", e.Name)
}

// Unwrap returns ErrUnknownItem for errors.Is() compatibility.
func (e *UnknownItemError) Unwrap() error { return ErrUnknownItem }

// IssueId implements issue.Categorized.
func (e *UnknownItemError) IssueId() issue.Id { return issue.UnresolvedReferenceId }

// Error implements the error interface.
func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("event %q is not defined by any area", e.Name)
}

// Unwrap returns ErrUnknownEvent for errors.Is() compatibility.
func (e *UnknownEventError) Unwrap() error { return ErrUnknownEvent }

// IssueId implements issue.Categorized.
func (e *UnknownEventError) IssueId() issue.Id { return issue.UnresolvedReferenceId }

// Error implements the error interface.
func (e *UnknownAreaError) Error() string {
	return fmt.Sprintf("unknown area %q", e.Name)
}

// Unwrap returns ErrUnknownArea for errors.Is() compatibility.
func (e *UnknownAreaError) Unwrap() error { return ErrUnknownArea }

// IssueId implements issue.Categorized.
func (e *UnknownAreaError) IssueId() issue.Id { return issue.UnresolvedReferenceId }

// Error implements the error interface.
func (e *UnknownMacroError) Error() string {
	return fmt.Sprintf("unknown name %q: not an item, event, area or macro visible from %s", e.Name, e.Scope)
}

// Unwrap returns ErrUnknownMacro for errors.Is() compatibility.
func (e *UnknownMacroError) Unwrap() error { return ErrUnknownMacro }

// IssueId implements issue.Categorized.
func (e *UnknownMacroError) IssueId() issue.Id { return issue.UnresolvedReferenceId }

// Error implements the error interface.
func (e *MacroCycleError) Error() string {
	return fmt.Sprintf("macro cycle in %s: %s", e.Scope, strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrMacroCycle for errors.Is() compatibility.
func (e *MacroCycleError) Unwrap() error { return ErrMacroCycle }

// IssueId implements issue.Categorized.
func (e *MacroCycleError) IssueId() issue.Id { return issue.MacroCycleId }

// Error implements the error interface.
func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("item %q is a flag and cannot be required %d times", e.Item, e.Count)
}

// Unwrap returns ErrInvalidCount for errors.Is() compatibility.
func (e *InvalidCountError) Unwrap() error { return ErrInvalidCount }

// IssueId implements issue.Categorized.
func (e *InvalidCountError) IssueId() issue.Id { return issue.UnresolvedReferenceId }

// Error implements the error interface.
func (e *DuplicateMacroError) Error() string {
	return fmt.Sprintf("macro %q defined twice in %s", e.Name, e.Scope)
}

// Unwrap returns ErrDuplicateMacro for errors.Is() compatibility.
func (e *DuplicateMacroError) Unwrap() error { return ErrDuplicateMacro }

// IssueId implements issue.Categorized.
func (e *DuplicateMacroError) IssueId() issue.Id { return issue.NameCollisionId }

// Error implements the error interface.
func (e *CompileError) Error() string {
	var sb strings.Builder
	if e.Origin != "" {
		sb.WriteString(e.Origin)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "%s: requirement %q: %v", e.Subject, e.Text, e.Err)
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error { return e.Err }

// IssueId implements issue.Categorized using the underlying category.
func (e *CompileError) IssueId() issue.Id { return issue.CategoryOf(e.Err) }
