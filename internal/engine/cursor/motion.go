package cursor

import "github.com/rivo/uniseg"

// Boundaries returns the rune offsets of every grapheme cluster boundary in
// text, including 0 and the rune length of text.
func Boundaries(text string) []int {
	out := []int{0}
	pos := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		pos += len(g.Runes())
		out = append(out, pos)
	}
	return out
}

// NextGrapheme returns the first grapheme boundary strictly after offset,
// or offset itself at the end of text.
func NextGrapheme(text string, offset int) int {
	for _, b := range Boundaries(text) {
		if b > offset {
			return b
		}
	}
	return offset
}

// PrevGrapheme returns the last grapheme boundary strictly before offset,
// or 0 at the start of text.
func PrevGrapheme(text string, offset int) int {
	prev := 0
	for _, b := range Boundaries(text) {
		if b >= offset {
			break
		}
		prev = b
	}
	return prev
}

// Direction of a caret motion.
type Direction int

const (
	Backward Direction = iota
	Forward
)

// Move moves the selection head one grapheme in dir. When extend is false
// a non-empty selection collapses to the side it is moving toward instead
// of moving.
func Move(text string, sel Selection, dir Direction, extend bool) Selection {
	if !extend && !sel.IsEmpty() {
		if dir == Forward {
			return sel.CollapseToEnd()
		}
		return sel.CollapseToStart()
	}
	var head int
	if dir == Forward {
		head = NextGrapheme(text, sel.Head)
	} else {
		head = PrevGrapheme(text, sel.Head)
	}
	if extend {
		return sel.Extend(head)
	}
	return sel.MoveTo(head)
}

// LineStart returns the offset of the start of the line containing offset.
func LineStart(text string, offset int) int {
	runes := []rune(text)
	if offset > len(runes) {
		offset = len(runes)
	}
	for i := offset; i > 0; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	return 0
}

// LineEnd returns the offset of the end of the line containing offset,
// before its newline.
func LineEnd(text string, offset int) int {
	runes := []rune(text)
	for i := max(offset, 0); i < len(runes); i++ {
		if runes[i] == '\n' {
			return i
		}
	}
	return len(runes)
}
