// SPDX-License-Identifier: MPL-2.0

package items

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/worldc/internal/issue"
)

func TestNewRegistry_DenseOrdinalsPerKind(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry([]Entry{
		{Name: "Slingshot", Kind: KindFlag},
		{Name: "Gratitude Crystal", Kind: KindCounter},
		{Name: "Bomb_Bag", Kind: KindFlag},
		{Name: "Key Piece", Kind: KindCounter},
		{Name: "Clawshots", Kind: KindFlag},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	wantFlags := []Item{
		{Name: "Slingshot", Kind: KindFlag, Ordinal: 0},
		{Name: "Bomb_Bag", Kind: KindFlag, Ordinal: 1},
		{Name: "Clawshots", Kind: KindFlag, Ordinal: 2},
	}
	if diff := cmp.Diff(wantFlags, r.Flags()); diff != "" {
		t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
	}
	wantCounters := []Item{
		{Name: "Gratitude Crystal", Kind: KindCounter, Ordinal: 0},
		{Name: "Key Piece", Kind: KindCounter, Ordinal: 1},
	}
	if diff := cmp.Diff(wantCounters, r.Counters()); diff != "" {
		t.Errorf("Counters() mismatch (-want +got):\n%s", diff)
	}
	if r.FlagCount() != 3 || r.CounterCount() != 2 || r.Len() != 5 {
		t.Errorf("counts = %d/%d/%d, want 3/2/5", r.FlagCount(), r.CounterCount(), r.Len())
	}
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry([]Entry{
		{Name: "Bomb Bag", Kind: KindFlag},
		{Name: "Gratitude_Crystal", Kind: KindCounter},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		query    string
		wantKind Kind
		wantOK   bool
	}{
		{query: "Bomb Bag", wantKind: KindFlag, wantOK: true},
		{query: "Bomb_Bag", wantKind: KindFlag, wantOK: true},
		{query: "Gratitude Crystal", wantKind: KindCounter, wantOK: true},
		{query: "bomb bag", wantOK: false},
		{query: "Hook Beetle", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			it, ok := r.Lookup(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			}
			if ok && it.Kind != tt.wantKind {
				t.Errorf("Lookup(%q).Kind = %s, want %s", tt.query, it.Kind, tt.wantKind)
			}
		})
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]Entry{
		{Name: "Slingshot", Kind: KindFlag, Line: 1},
		{Name: "Slingshot", Kind: KindCounter, Line: 4},
		{Name: "Harp", Kind: "song", Line: 7},
		{Name: "  ", Kind: KindFlag, Line: 9},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var dup *DuplicateItemError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateItemError in %v", err)
	}
	if dup.FirstLine != 1 || dup.Line != 4 {
		t.Errorf("DuplicateItemError lines = %d/%d, want 1/4", dup.FirstLine, dup.Line)
	}
	if !errors.Is(err, ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind in %v", err)
	}
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName in %v", err)
	}
	if got := issue.CategoryOf(dup); got != issue.NameCollisionId {
		t.Errorf("CategoryOf(duplicate) = %d, want NameCollisionId", got)
	}
}

func TestNewRegistry_DuplicateAfterNormalization(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]Entry{
		{Name: "Bomb Bag", Kind: KindFlag},
		{Name: "Bomb_Bag", Kind: KindFlag},
	})
	if !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("NewRegistry() error = %v, want ErrDuplicateItem", err)
	}
}
