// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/loader"
	"github.com/invowk/worldc/pkg/logic"
)

var (
	// ErrDanglingExit is returned when an exit names an area that does not exist.
	ErrDanglingExit = errors.New("dangling exit")
	// ErrDuplicateStage is returned when two regions declare the same stage name.
	ErrDuplicateStage = errors.New("duplicate stage")
	// ErrSleepTimeOfDay is returned when a sleeping area is fixed to one time of day.
	ErrSleepTimeOfDay = errors.New("sleeping area with a fixed time of day")
	// ErrIncompleteRequirements is returned when requirement keys and declared
	// entities do not match one to one.
	ErrIncompleteRequirements = errors.New("incomplete requirements")
)

type (
	// DanglingExitError reports a map or logic exit whose target is unknown.
	DanglingExitError struct {
		// Origin is the stage-qualified origin area.
		Origin string
		Key    string
		Logic  bool
		Reason string
		Pos    loader.Pos
	}

	// DuplicateStageError reports a stage name declared twice.
	DuplicateStageError struct {
		Name  string
		Pos   loader.Pos
		First loader.Pos
	}

	// SleepTimeOfDayError reports a can_sleep area fixed to Day or Night.
	SleepTimeOfDayError struct {
		Area      string
		TimeOfDay logic.TimeOfDay
		Pos       loader.Pos
	}

	// StructureError reports an invalid region, stage or area property.
	StructureError struct {
		Pos loader.Pos
		Err error
	}

	// IncompleteRequirementsError lists requirement keys that are missing
	// for a declared entity, orphaned without one, or that reference
	// ordinals outside the world.
	IncompleteRequirementsError struct {
		Missing []string
		Orphans []string
		Invalid []string
	}
)

// Error implements the error interface.
func (e *DanglingExitError) Error() string {
	kind := "map exit"
	if e.Logic {
		kind = "logic exit"
	}
	reason := e.Reason
	if reason == "" {
		reason = "no such area"
	}
	return fmt.Sprintf("%s: %s %q of %s: %s", e.Pos, kind, e.Key, e.Origin, reason)
}

// Unwrap returns ErrDanglingExit for errors.Is() compatibility.
func (e *DanglingExitError) Unwrap() error { return ErrDanglingExit }

// IssueId implements issue.Categorized.
func (e *DanglingExitError) IssueId() issue.Id { return issue.DanglingExitId }

// Error implements the error interface.
func (e *DuplicateStageError) Error() string {
	return fmt.Sprintf("%s: stage %q already declared at %s", e.Pos, e.Name, e.First)
}

// Unwrap returns ErrDuplicateStage for errors.Is() compatibility.
func (e *DuplicateStageError) Unwrap() error { return ErrDuplicateStage }

// IssueId implements issue.Categorized.
func (e *DuplicateStageError) IssueId() issue.Id { return issue.NameCollisionId }

// Error implements the error interface.
func (e *SleepTimeOfDayError) Error() string {
	return fmt.Sprintf("%s: area %q allows sleeping but only %s is possible there", e.Pos, e.Area, e.TimeOfDay)
}

// Unwrap returns ErrSleepTimeOfDay for errors.Is() compatibility.
func (e *SleepTimeOfDayError) Unwrap() error { return ErrSleepTimeOfDay }

// IssueId implements issue.Categorized.
func (e *SleepTimeOfDayError) IssueId() issue.Id { return issue.WorldStructureId }

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

// Unwrap returns the underlying error.
func (e *StructureError) Unwrap() error { return e.Err }

// IssueId implements issue.Categorized.
func (e *StructureError) IssueId() issue.Id { return issue.WorldStructureId }

// Error implements the error interface.
func (e *IncompleteRequirementsError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Orphans) > 0 {
		parts = append(parts, "orphaned: "+strings.Join(e.Orphans, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid references: "+strings.Join(e.Invalid, ", "))
	}
	return "requirement table is incomplete: " + strings.Join(parts, "; ")
}

// Unwrap returns ErrIncompleteRequirements for errors.Is() compatibility.
func (e *IncompleteRequirementsError) Unwrap() error { return ErrIncompleteRequirements }

// IssueId implements issue.Categorized.
func (e *IncompleteRequirementsError) IssueId() issue.Id { return issue.IncompleteRequirementsId }
