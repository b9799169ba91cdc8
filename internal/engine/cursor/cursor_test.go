package cursor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectionBounds(t *testing.T) {
	sel := NewSelection(10, 4)
	if sel.Start() != 4 || sel.End() != 10 {
		t.Errorf("bounds = [%d, %d), want [4, 10)", sel.Start(), sel.End())
	}
	if sel.Len() != 6 {
		t.Errorf("Len() = %d, want 6", sel.Len())
	}
	if !sel.IsBackward() {
		t.Error("expected backward selection")
	}
	if got := sel.Normalize(); got != (Selection{Anchor: 4, Head: 10}) {
		t.Errorf("Normalize() = %s", got)
	}
}

func TestSelectionCollapse(t *testing.T) {
	sel := NewSelection(2, 8)
	if got := sel.CollapseToStart(); got != NewCursorSelection(2) {
		t.Errorf("CollapseToStart() = %s", got)
	}
	if got := sel.CollapseToEnd(); got != NewCursorSelection(8) {
		t.Errorf("CollapseToEnd() = %s", got)
	}
}

func TestSelectionClamp(t *testing.T) {
	tests := []struct {
		in   Selection
		max  int
		want Selection
	}{
		{Selection{0, 5}, 10, Selection{0, 5}},
		{Selection{3, 20}, 10, Selection{3, 10}},
		{Selection{-2, 4}, 10, Selection{0, 4}},
		{Selection{15, 12}, 10, Selection{10, 10}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(tt.max); got != tt.want {
			t.Errorf("%s.Clamp(%d) = %s, want %s", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestSelectionValid(t *testing.T) {
	if !NewSelection(0, 5).Valid(5) {
		t.Error("[0,5] should be valid for length 5")
	}
	if NewSelection(0, 6).Valid(5) {
		t.Error("[0,6] should be invalid for length 5")
	}
	if NewSelection(-1, 2).Valid(5) {
		t.Error("negative anchor should be invalid")
	}
}

func TestSelectionString(t *testing.T) {
	if got := NewCursorSelection(3).String(); got != "Cursor(3)" {
		t.Errorf("String() = %q", got)
	}
	if got := NewSelection(5, 1).String(); got != "Selection(5←1)" {
		t.Errorf("String() = %q", got)
	}
}

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		edit   Edit
		want   int
	}{
		{"edit before", 10, Edit{Range{0, 2}, 5}, 13},
		{"edit after", 3, Edit{Range{5, 6}, 0}, 3},
		{"edit spans", 4, Edit{Range{2, 8}, 1}, 3},
		{"insert at offset", 4, Edit{Range{4, 4}, 3}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAfterReplace(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		n    int
		want Selection
	}{
		{"backward selection", NewSelection(6, 2), 5, NewCursorSelection(7)},
		{"insert at caret", NewCursorSelection(4), 3, NewCursorSelection(7)},
		{"delete range", NewSelection(2, 5), 0, NewCursorSelection(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AfterReplace(tt.sel, tt.n); got != tt.want {
				t.Errorf("AfterReplace() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		text string
		want []int
	}{
		{"", []int{0}},
		{"abc", []int{0, 1, 2, 3}},
		{"e\u0301x", []int{0, 2, 3}},
		{"🇩🇪!", []int{0, 2, 3}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Boundaries(tt.text)); diff != "" {
			t.Errorf("Boundaries(%q) mismatch (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestGraphemeSteps(t *testing.T) {
	text := "ae\u0301b"
	if got := NextGrapheme(text, 1); got != 3 {
		t.Errorf("NextGrapheme(1) = %d, want 3", got)
	}
	if got := PrevGrapheme(text, 3); got != 1 {
		t.Errorf("PrevGrapheme(3) = %d, want 1", got)
	}
	if got := NextGrapheme(text, 4); got != 4 {
		t.Errorf("NextGrapheme at end = %d", got)
	}
	if got := PrevGrapheme(text, 0); got != 0 {
		t.Errorf("PrevGrapheme at start = %d", got)
	}
}

func TestMove(t *testing.T) {
	text := "hello"
	tests := []struct {
		name   string
		sel    Selection
		dir    Direction
		extend bool
		want   Selection
	}{
		{"forward", NewCursorSelection(1), Forward, false, NewCursorSelection(2)},
		{"backward", NewCursorSelection(1), Backward, false, NewCursorSelection(0)},
		{"extend", NewCursorSelection(1), Forward, true, NewSelection(1, 2)},
		{"collapse forward", NewSelection(1, 3), Forward, false, NewCursorSelection(3)},
		{"collapse backward", NewSelection(1, 3), Backward, false, NewCursorSelection(1)},
		{"clamped at end", NewCursorSelection(5), Forward, false, NewCursorSelection(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Move(text, tt.sel, tt.dir, tt.extend); got != tt.want {
				t.Errorf("Move() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLineBounds(t *testing.T) {
	text := "one\ntwo\nthree"
	if got := LineStart(text, 6); got != 4 {
		t.Errorf("LineStart(6) = %d, want 4", got)
	}
	if got := LineEnd(text, 5); got != 7 {
		t.Errorf("LineEnd(5) = %d, want 7", got)
	}
	if got := LineEnd(text, 9); got != 13 {
		t.Errorf("LineEnd(9) = %d, want 13", got)
	}
	if got := LineStart(text, 2); got != 0 {
		t.Errorf("LineStart(2) = %d, want 0", got)
	}
}
