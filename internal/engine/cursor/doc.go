// Package cursor provides caret and selection handling over the plain
// text of a run document.
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The caret position (where typing would occur)
//
// All offsets are rune offsets. Caret motion steps over whole grapheme
// clusters, so a combining sequence or an emoji with modifiers is never
// split.
//
// Basic usage:
//
//	sel := cursor.NewCursorSelection(10)
//	sel = sel.Extend(20)
//	sel = cursor.Move(text, sel, cursor.Forward, false)
//
// Selection is an immutable value type and safe for concurrent use.
package cursor
