package cursor

// Edit describes a replacement of the plain range Range by NewLen runes.
type Edit struct {
	Range  Range
	NewLen int
}

// Delta returns the change in document length caused by the edit.
func (e Edit) Delta() int {
	return e.NewLen - e.Range.Len()
}

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset int, edit Edit) int {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + edit.NewLen
}

// AfterReplace returns the caret that follows replacing the selection with
// n runes: collapsed at the end of the new text.
func AfterReplace(sel Selection, n int) Selection {
	edit := Edit{Range: sel.Range(), NewLen: n}
	return NewCursorSelection(TransformOffset(sel.End(), edit))
}
