package history

import (
	"sync"
	"time"

	"github.com/dshills/mdinput/internal/clock"
	"github.com/dshills/mdinput/internal/engine/cursor"
	"github.com/dshills/mdinput/internal/engine/rundoc"
)

// History manages debounced undo/redo snapshots for one editing session.
//
// The present entry is the state the session is in. Record stores a
// pending snapshot and (re)starts the debounce timer; when the timer fires
// the present entry moves to the undo stack and the pending snapshot
// becomes present. A burst of records inside one window therefore yields a
// single undo step. At most one timer is outstanding at any time.
type History struct {
	mu sync.Mutex

	present   Entry
	undoStack []Entry
	redoStack []Entry

	// Debounce state
	pending *Entry
	timer   clock.Timer
	seq     uint64 // invalidates superseded timer callbacks

	// Configuration
	clock      clock.Clock
	debounce   time.Duration
	maxEntries int
	onCommit   func(Entry)

	closed bool
}

// New creates a history whose present state is initial.
func New(initial Entry, opts ...Option) *History {
	h := &History{
		present:    initial,
		clock:      clock.Real{},
		debounce:   DefaultDebounce,
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewFromDocument creates a history whose present state is a snapshot of doc.
func NewFromDocument(doc *rundoc.Document, sel cursor.Selection, opts ...Option) *History {
	h := New(Entry{}, opts...)
	h.present = NewEntry(doc, sel, "initial", h.clock.Now())
	return h
}

// Record stores a pending snapshot. Any redo history is discarded. The
// snapshot is committed once no further record arrives for the debounce
// window.
func (h *History) Record(doc *rundoc.Document, sel cursor.Selection, label string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}

	e := NewEntry(doc, sel, label, h.clock.Now())
	h.redoStack = nil
	h.pending = &e
	h.stopTimerLocked()

	if h.debounce <= 0 {
		committed := h.commitLocked()
		h.mu.Unlock()
		h.notify(committed)
		return
	}

	h.seq++
	seq := h.seq
	h.timer = h.clock.AfterFunc(h.debounce, func() { h.fire(seq) })
	h.mu.Unlock()
}

// RecordImmediate commits a snapshot without waiting. A pending snapshot
// is committed first as its own entry.
func (h *History) RecordImmediate(doc *rundoc.Document, sel cursor.Selection, label string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}

	h.redoStack = nil
	committed := h.flushLocked()
	e := NewEntry(doc, sel, label, h.clock.Now())
	h.pending = &e
	committed = append(committed, h.commitLocked())
	h.mu.Unlock()

	h.notify(committed...)
}

// Flush commits the pending snapshot, if any, without waiting for the
// debounce window. It reports whether a snapshot was committed.
func (h *History) Flush() bool {
	h.mu.Lock()
	committed := h.flushLocked()
	h.mu.Unlock()

	h.notify(committed...)
	return len(committed) > 0
}

// Undo flushes any pending snapshot, then moves the present entry to the
// redo stack and restores the most recent undo entry. It returns false and
// changes nothing when there is nothing to undo.
func (h *History) Undo() (Entry, bool) {
	h.mu.Lock()
	committed := h.flushLocked()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		h.notify(committed...)
		return Entry{}, false
	}

	h.redoStack = append(h.redoStack, h.present)
	h.present = h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	restored := h.present
	h.mu.Unlock()

	h.notify(committed...)
	return restored, true
}

// Redo restores the most recently undone entry. It returns false and
// changes nothing when there is nothing to redo.
func (h *History) Redo() (Entry, bool) {
	h.mu.Lock()
	committed := h.flushLocked()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		h.notify(committed...)
		return Entry{}, false
	}

	h.undoStack = append(h.undoStack, h.present)
	h.present = h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	restored := h.present
	h.mu.Unlock()

	h.notify(committed...)
	return restored, true
}

// fire is the debounce timer callback.
func (h *History) fire(seq uint64) {
	h.mu.Lock()
	if h.seq != seq || h.pending == nil {
		h.mu.Unlock()
		return
	}
	h.timer = nil
	committed := h.commitLocked()
	h.mu.Unlock()

	h.notify(committed)
}

// flushLocked commits the pending snapshot if there is one.
func (h *History) flushLocked() []Entry {
	h.stopTimerLocked()
	if h.pending == nil {
		return nil
	}
	return []Entry{h.commitLocked()}
}

// commitLocked makes the pending snapshot present. pending must be set.
func (h *History) commitLocked() Entry {
	h.undoStack = append(h.undoStack, h.present)
	h.present = *h.pending
	h.pending = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
	return h.present
}

func (h *History) stopTimerLocked() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	// Invalidate a callback that is already running.
	h.seq++
}

func (h *History) notify(entries ...Entry) {
	if h.onCommit == nil {
		return
	}
	for _, e := range entries {
		h.onCommit(e)
	}
}

// Present returns the entry the session is currently in.
func (h *History) Present() Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.present
}

// Pending returns the snapshot waiting for the debounce window, if any.
func (h *History) Pending() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return Entry{}, false
	}
	return *h.pending, true
}

// CanUndo returns true if undo is available. A pending snapshot counts,
// since Undo commits it first.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0 || h.pending != nil
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of committed undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history and any pending snapshot. The
// present entry is kept.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopTimerLocked()
	h.pending = nil
	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo entries, oldest first.
func (h *History) RedoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(stack []Entry) []EntryInfo {
	result := make([]EntryInfo, len(stack))
	for i, e := range stack {
		result[i] = e.Info()
	}
	return result
}

// PeekUndo returns the entry Undo would restore without restoring it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return EntryInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].Info(), true
}

// PeekRedo returns the entry Redo would restore without restoring it.
func (h *History) PeekRedo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return EntryInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].Info(), true
}

// SetDebounce changes the debounce window for subsequent records.
func (h *History) SetDebounce(d time.Duration) {
	if d < 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.debounce = d
}

// Debounce returns the debounce window.
func (h *History) Debounce() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.debounce
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// Close commits any pending snapshot and stops accepting records.
func (h *History) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	committed := h.flushLocked()
	h.closed = true
	h.mu.Unlock()

	h.notify(committed...)
}
