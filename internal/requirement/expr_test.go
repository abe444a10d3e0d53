// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"testing"

	"github.com/invowk/worldc/pkg/logic"
)

func TestNormalization(t *testing.T) {
	t.Parallel()

	a, b, c := Flag(0), Flag(1), Flag(2)
	tests := []struct {
		name string
		got  Expr
		want string
	}{
		{name: "empty and", got: And(), want: "True"},
		{name: "empty or", got: Or(), want: "False"},
		{name: "single term", got: And(a), want: "Flag(0)"},
		{name: "flatten and", got: And(a, And(b, c)), want: "And(Flag(0), Flag(1), Flag(2))"},
		{name: "flatten or", got: Or(Or(a, b), c), want: "Or(Flag(0), Flag(1), Flag(2))"},
		{name: "no cross flatten", got: And(a, Or(b, c)), want: "And(Flag(0), Or(Flag(1), Flag(2)))"},
		{name: "dedupe", got: Or(a, b, a), want: "Or(Flag(0), Flag(1))"},
		{name: "and identity", got: And(True(), a), want: "Flag(0)"},
		{name: "and absorbing", got: And(a, False(), b), want: "False"},
		{name: "or absorbing", got: Or(a, True()), want: "True"},
		{name: "nested absorbing", got: And(a, And(b, False())), want: "False"},
		{name: "double negation", got: Not(Not(a)), want: "Flag(0)"},
		{name: "area and count", got: And(Count(3, 5), AreaAt(2, logic.Day)), want: "And(Count(3, 5), Area(2, Day))"},
		{name: "event", got: Not(Event(4)), want: "Not(Event(4))"},
		{name: "and keeps specific time", got: And(AreaAt(2, logic.Night), a, AreaAt(2, logic.AnyTime)), want: "And(Area(2, Night), Flag(0))"},
		{name: "and keeps both single times", got: And(AreaAt(2, logic.Day), AreaAt(2, logic.Night)), want: "And(Area(2, Day), Area(2, Night))"},
		{name: "and other area untouched", got: And(AreaAt(2, logic.Night), AreaAt(3, logic.AnyTime)), want: "And(Area(2, Night), Area(3, Both))"},
		{name: "or keeps any time", got: Or(AreaAt(2, logic.Day), AreaAt(2, logic.AnyTime)), want: "Area(2, Both)"},
		{name: "or day or night", got: Or(a, AreaAt(2, logic.Day), AreaAt(2, logic.Night)), want: "Or(Flag(0), Area(2, Both))"},
		{name: "nested and absorbs", got: And(AreaAt(1, logic.Day), And(a, AreaAt(1, logic.AnyTime))), want: "And(Area(1, Day), Flag(0))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.got.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
