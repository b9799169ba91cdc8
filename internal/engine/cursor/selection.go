package cursor

import "fmt"

// Range is a half-open rune range [Start, End) of plain text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Selection represents a range of selected plain text.
// Anchor is where the selection started; Head is the caret (where typing occurs).
// When Anchor == Head, this represents a caret with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor int
	Head   int
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a collapsed selection (a caret) at offset.
func NewCursorSelection(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewRangeSelection creates a forward selection covering r.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection is collapsed.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection in runes.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// Cursor returns the head position.
func (s Selection) Cursor() int {
	return s.Head
}

// IsBackward returns true if the selection extends backward (head < anchor).
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Extend returns a new selection with the anchor fixed and the head at offset.
func (s Selection) Extend(offset int) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// MoveTo returns a new caret at offset.
func (s Selection) MoveTo(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// CollapseToStart collapses the selection to its start position.
func (s Selection) CollapseToStart() Selection {
	return s.MoveTo(s.Start())
}

// CollapseToEnd collapses the selection to its end position.
func (s Selection) CollapseToEnd() Selection {
	return s.MoveTo(s.End())
}

// Normalize returns a forward selection (anchor <= head).
func (s Selection) Normalize() Selection {
	return Selection{Anchor: s.Start(), Head: s.End()}
}

// Contains returns true if offset is within [Start, End).
// A caret contains nothing.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start() && offset < s.End()
}

// Valid reports whether both ends lie in [0, length].
func (s Selection) Valid(length int) bool {
	return s.Anchor >= 0 && s.Anchor <= length && s.Head >= 0 && s.Head <= length
}

// Clamp returns a selection clamped to the valid range [0, maxOffset].
func (s Selection) Clamp(maxOffset int) Selection {
	return Selection{
		Anchor: clamp(s.Anchor, maxOffset),
		Head:   clamp(s.Head, maxOffset),
	}
}

func clamp(v, maxOffset int) int {
	if v < 0 {
		return 0
	}
	if v > maxOffset {
		return maxOffset
	}
	return v
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}

// SameRange returns true if two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}
