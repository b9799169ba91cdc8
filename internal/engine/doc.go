// Package engine provides the markdown input engine for mdinput.
//
// The engine package serves as the main facade, combining the run
// document, selection handling, clipboard operations and debounced
// undo/redo into a unified, thread-safe API. It is the component an
// editable surface and a renderer talk to.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - style: registry of inline styles (delimiters, attributes, precedence)
//   - markdown: parser from markdown source to runs, and back
//   - rundoc: immutable run documents and their structural edits
//   - offset: mapping between plain, markdown and run coordinates
//   - cursor: selections and grapheme-aware caret motion
//   - history: debounced snapshot undo/redo
//
// # Coordinates
//
// Selections are measured in runes of the plain text the user sees, with
// all markdown delimiters stripped. The markdown source is what the
// clipboard carries.
//
// # Basic Usage
//
//	e := engine.New(nil, engine.WithClipboard(clipboard.NewMemory()))
//	defer e.Close()
//
//	e.PasteText("*bold*")  // one bold run, caret at 4
//	e.Type(" text")        // plain text after it
//	e.SetSelection(0, 4)
//	e.ToggleStyle("italic")
//	e.Undo()
//
// # History
//
// Paste, typing and deletion are recorded with a debounce window: edits
// inside one window become one undo step. Cut, select-all, reset, clear
// and style toggles are recorded immediately.
//
// # Thread Safety
//
// All Editor operations are thread-safe. Paste reads the clipboard
// without holding the lock; a result that arrives after the document has
// changed is discarded with ErrStalePaste. Subscribers are notified after
// the lock is released.
package engine
