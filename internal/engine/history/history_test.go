package history

import (
	"testing"
	"time"

	"github.com/dshills/mdinput/internal/clock"
	"github.com/dshills/mdinput/internal/engine/cursor"
	"github.com/dshills/mdinput/internal/engine/markdown"
	"github.com/dshills/mdinput/internal/engine/rundoc"
	"github.com/dshills/mdinput/internal/engine/style"
)

const window = 300 * time.Millisecond

// Helper to create a history over an empty document driven by a manual clock.
func newTestHistory(opts ...Option) (*History, *clock.Manual) {
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	opts = append([]Option{WithClock(clk), WithDebounce(window)}, opts...)
	h := NewFromDocument(rundoc.Empty(style.Default()), cursor.Selection{}, opts...)
	return h, clk
}

func doc(src string) *rundoc.Document {
	return markdown.Parse(style.Default(), src)
}

func caretAtEnd(d *rundoc.Document) cursor.Selection {
	return cursor.NewCursorSelection(d.PlainLen())
}

func TestRecordCoalescesWithinWindow(t *testing.T) {
	h, clk := newTestHistory()

	h.Record(doc("a"), cursor.NewCursorSelection(1), "type")
	clk.Advance(100 * time.Millisecond)
	h.Record(doc("ab"), cursor.NewCursorSelection(2), "type")
	clk.Advance(window - time.Millisecond)

	if h.UndoCount() != 0 {
		t.Fatalf("UndoCount() = %d before window elapsed", h.UndoCount())
	}
	if p, ok := h.Pending(); !ok || p.Document.Text() != "ab" {
		t.Fatalf("Pending() = %v, %v", p.Document, ok)
	}

	clk.Advance(time.Millisecond)
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if got := h.Present().Document.Text(); got != "ab" {
		t.Errorf("Present() = %q, want ab", got)
	}
	if _, ok := h.Pending(); ok {
		t.Error("pending snapshot left after commit")
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers outstanding", clk.Pending())
	}
}

func TestSeparatedRecordsAreIndependent(t *testing.T) {
	h, clk := newTestHistory()

	first := doc("*bold*")
	h.Record(first, caretAtEnd(first), "paste")
	clk.Advance(window + time.Millisecond)

	second := doc("*bold*@here")
	h.Record(second, caretAtEnd(second), "paste")
	clk.Advance(window + time.Millisecond)

	e, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() returned false")
	}
	if !e.Document.Equal(first) {
		t.Errorf("after undo = %s, want %s", e.Document, first)
	}

	e, ok = h.Redo()
	if !ok {
		t.Fatal("Redo() returned false")
	}
	if got := e.Document.Markdown(); got != "*bold*@here" {
		t.Errorf("after redo = %q", got)
	}
}

func TestUndoFlushesPending(t *testing.T) {
	h, clk := newTestHistory()

	h.Record(doc("x"), cursor.NewCursorSelection(1), "type")
	e, ok := h.Undo()
	if !ok {
		t.Fatal("Undo() with pending snapshot returned false")
	}
	if !e.Document.IsEmpty() {
		t.Errorf("undo restored %s, want empty", e.Document)
	}
	if h.RedoCount() != 1 {
		t.Errorf("RedoCount() = %d, want 1", h.RedoCount())
	}

	// The superseded timer must not commit anything later.
	clk.Advance(time.Second)
	if h.UndoCount() != 0 || !h.Present().Document.IsEmpty() {
		t.Errorf("stale timer changed state: undo=%d present=%s", h.UndoCount(), h.Present().Document)
	}
}

func TestUndoRedoEmptyAreNoOps(t *testing.T) {
	h, _ := newTestHistory()
	before := h.Present()

	if _, ok := h.Undo(); ok {
		t.Error("Undo() on empty history returned true")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo() on empty history returned true")
	}
	if h.Present().ID != before.ID {
		t.Error("present entry changed")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	h, clk := newTestHistory()

	h.RecordImmediate(doc("one"), cursor.NewCursorSelection(3), "cut")
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}

	h.Record(doc("two"), cursor.NewCursorSelection(3), "type")
	if h.CanRedo() {
		t.Error("Record did not clear redo stack")
	}
	clk.Advance(window)
	if got := h.Present().Document.Text(); got != "two" {
		t.Errorf("Present() = %q", got)
	}
}

func TestRecordImmediateCommitsPendingSeparately(t *testing.T) {
	h, clk := newTestHistory()

	h.Record(doc("typed"), cursor.NewCursorSelection(5), "type")
	h.RecordImmediate(doc("ty"), cursor.NewCursorSelection(2), "cut")

	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", h.UndoCount())
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers outstanding", clk.Pending())
	}

	e, _ := h.Undo()
	if got := e.Document.Text(); got != "typed" {
		t.Errorf("first undo = %q, want typed", got)
	}
	e, _ = h.Undo()
	if !e.Document.IsEmpty() {
		t.Errorf("second undo = %s, want empty", e.Document)
	}
}

func TestZeroDebounceCommitsImmediately(t *testing.T) {
	h, _ := newTestHistory(WithDebounce(0))
	h.Record(doc("now"), cursor.NewCursorSelection(3), "type")
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
}

func TestMaxEntries(t *testing.T) {
	h, _ := newTestHistory(WithMaxEntries(3))
	for _, s := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		h.RecordImmediate(doc(s), caretAtEnd(doc(s)), "type")
	}
	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, want 3", h.UndoCount())
	}
	info := h.UndoInfo()
	if info[0].Length != 2 {
		t.Errorf("oldest kept entry length = %d, want 2", info[0].Length)
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() after SetMaxEntries = %d", h.UndoCount())
	}
}

func TestOnCommit(t *testing.T) {
	var labels []string
	h, clk := newTestHistory(WithOnCommit(func(e Entry) { labels = append(labels, e.Label) }))

	h.Record(doc("a"), cursor.NewCursorSelection(1), "type")
	clk.Advance(window)
	h.RecordImmediate(doc(""), cursor.Selection{}, "clear")

	if len(labels) != 2 || labels[0] != "type" || labels[1] != "clear" {
		t.Errorf("commits = %v", labels)
	}
}

func TestPeekAndInfo(t *testing.T) {
	h, _ := newTestHistory()
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo() on empty history")
	}

	h.RecordImmediate(doc("*x*"), cursor.NewCursorSelection(1), "paste")
	info, ok := h.PeekUndo()
	if !ok || info.Label != "initial" || info.Length != 0 {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}

	h.Undo()
	info, ok = h.PeekRedo()
	if !ok || info.Label != "paste" || info.Length != 1 {
		t.Errorf("PeekRedo() = %+v, %v", info, ok)
	}
	if len(h.RedoInfo()) != 1 {
		t.Errorf("RedoInfo() = %v", h.RedoInfo())
	}
}

func TestRestoredSelectionIsClamped(t *testing.T) {
	e := NewEntry(doc("abc"), cursor.NewSelection(1, 10), "select", time.Time{})
	if got := e.RestoredSelection(); got != cursor.NewSelection(1, 3) {
		t.Errorf("RestoredSelection() = %s", got)
	}
}

func TestEntriesHaveDistinctIDs(t *testing.T) {
	a := NewEntry(doc("a"), cursor.Selection{}, "", time.Time{})
	b := NewEntry(doc("a"), cursor.Selection{}, "", time.Time{})
	if a.ID == b.ID {
		t.Error("entries share an ID")
	}
}

func TestClear(t *testing.T) {
	h, clk := newTestHistory()
	h.RecordImmediate(doc("a"), cursor.NewCursorSelection(1), "type")
	h.Record(doc("ab"), cursor.NewCursorSelection(2), "type")

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("history not cleared")
	}
	clk.Advance(time.Second)
	if got := h.Present().Document.Text(); got != "a" {
		t.Errorf("Present() = %q, want a", got)
	}
}

func TestCloseFlushesAndStops(t *testing.T) {
	h, clk := newTestHistory()
	h.Record(doc("a"), cursor.NewCursorSelection(1), "type")
	h.Close()

	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() after Close = %d, want 1", h.UndoCount())
	}
	h.Record(doc("ab"), cursor.NewCursorSelection(2), "type")
	clk.Advance(time.Second)
	if got := h.Present().Document.Text(); got != "a" {
		t.Errorf("record after Close took effect: %q", got)
	}
}

func TestSetDebounce(t *testing.T) {
	h, clk := newTestHistory()
	h.SetDebounce(50 * time.Millisecond)
	if h.Debounce() != 50*time.Millisecond {
		t.Fatalf("Debounce() = %v", h.Debounce())
	}
	h.Record(doc("a"), cursor.NewCursorSelection(1), "type")
	clk.Advance(50 * time.Millisecond)
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
}
