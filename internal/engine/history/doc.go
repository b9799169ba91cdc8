// Package history provides debounced undo/redo for the editor.
//
// History stores immutable snapshots (Entry) of the document and selection
// rather than inverse operations. Three pieces of state matter:
//
//   - present: the entry the session is currently in
//   - undo / redo stacks: entries reachable by Undo and Redo
//   - pending: a snapshot waiting for the debounce window to elapse
//
// # Debouncing
//
// Record replaces the pending snapshot and restarts the single debounce
// timer. Records that arrive within the window collapse into one undo
// step; records separated by more than the window each get their own:
//
//	h := history.NewFromDocument(doc, sel, history.WithDebounce(300*time.Millisecond))
//	h.Record(doc1, sel1, "paste")
//	// ... more than 300ms later
//	h.Record(doc2, sel2, "paste")
//	entry, ok := h.Undo() // restores doc1
//
// RecordImmediate bypasses the timer for discrete operations such as cut.
// Undo and Redo commit a pending snapshot before moving between stacks.
//
// # Time
//
// The timer comes from an injected clock.Clock. Tests use clock.Manual to
// step time deterministically.
//
// # Thread Safety
//
// All methods are safe for concurrent use; the debounce timer fires on
// its own goroutine with the real clock. OnCommit callbacks run without
// the lock held.
package history
