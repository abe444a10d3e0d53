// SPDX-License-Identifier: MPL-2.0

package logic

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "Day", want: Day},
		{in: "night", want: Night},
		{in: " Both ", want: Both},
		{in: "any", want: Both},
		{in: "DayOnly", want: Day},
		{in: "dusk", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidTimeOfDay) {
					t.Errorf("error does not wrap ErrInvalidTimeOfDay: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDay_Predicates(t *testing.T) {
	t.Parallel()

	if !Both.Has(Day) || !Both.Has(Night) || !Both.Has(Both) {
		t.Error("Both should contain every state")
	}
	if Day.Has(Night) || Day.Has(Both) {
		t.Error("Day should contain only Day")
	}
	if Day.Has(0) {
		t.Error("no time of day is never contained")
	}
	if !Day.IsSingle() || !Night.IsSingle() || Both.IsSingle() {
		t.Error("IsSingle mismatch")
	}
	if Both.String() != "Both" || TimeOfDay(0).String() != "None" {
		t.Errorf("unexpected names %q %q", Both, TimeOfDay(0))
	}
}

func TestTimeSet(t *testing.T) {
	t.Parallel()

	s := NewTimeSet[uint16](10)
	if !s.Add(3, Day) {
		t.Fatal("Add should report a change")
	}
	if s.Add(3, Day) {
		t.Error("repeated Add should not report a change")
	}
	s.Add(4, Both)

	if s.Get(3) != Day || s.Get(4) != Both || s.Get(5) != 0 {
		t.Errorf("Get mismatch: %v %v %v", s.Get(3), s.Get(4), s.Get(5))
	}
	if !s.Holds(3, AnyTime) || !s.Holds(3, Day) || s.Holds(3, Night) {
		t.Error("Holds mismatch for a day-only member")
	}
	if s.Holds(5, AnyTime) {
		t.Error("absent member should not hold")
	}

	c := s.Clone()
	c.Add(5, Night)
	if s.Get(5) != 0 {
		t.Error("Clone must not share storage")
	}
	if got := s.Night().Slice(); len(got) != 1 || got[0] != 4 {
		t.Errorf("Night() = %v, want [4]", got)
	}
}
