// SPDX-License-Identifier: MPL-2.0

package logic

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Day is the daytime state.
	Day TimeOfDay = 1 << iota
	// Night is the nighttime state.
	Night

	// Both means day and night are both possible.
	Both = Day | Night
	// AnyTime is the requirement qualifier satisfied at either time of day.
	AnyTime = Both
)

// ErrInvalidTimeOfDay is returned when a time-of-day name is not recognized.
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

type (
	// TimeOfDay is a two-bit flag set over Day and Night.
	TimeOfDay uint8

	// InvalidTimeOfDayError is returned by ParseTimeOfDay for unknown names.
	// It wraps ErrInvalidTimeOfDay for errors.Is() compatibility.
	InvalidTimeOfDayError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidTimeOfDayError) Error() string {
	return fmt.Sprintf("invalid time of day %q (valid: Day, Night, Both)", e.Value)
}

// Unwrap returns ErrInvalidTimeOfDay.
func (e *InvalidTimeOfDayError) Unwrap() error { return ErrInvalidTimeOfDay }

// ParseTimeOfDay parses a case-insensitive time-of-day name. "Any" is accepted
// as a synonym of "Both".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "dayonly":
		return Day, nil
	case "night", "nightonly":
		return Night, nil
	case "both", "any":
		return Both, nil
	default:
		return 0, &InvalidTimeOfDayError{Value: s}
	}
}

// Has reports whether every state in o is also in t.
func (t TimeOfDay) Has(o TimeOfDay) bool {
	return o != 0 && t&o == o
}

// IsSingle reports whether t forces exactly one state.
func (t TimeOfDay) IsSingle() bool {
	return t == Day || t == Night
}

// String returns the canonical name.
func (t TimeOfDay) String() string {
	switch t {
	case Day:
		return "Day"
	case Night:
		return "Night"
	case Both:
		return "Both"
	case 0:
		return "None"
	default:
		return fmt.Sprintf("TimeOfDay(%d)", uint8(t))
	}
}
