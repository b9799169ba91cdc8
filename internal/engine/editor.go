package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dshills/mdinput/internal/clock"
	"github.com/dshills/mdinput/internal/engine/cursor"
	"github.com/dshills/mdinput/internal/engine/history"
	"github.com/dshills/mdinput/internal/engine/markdown"
	"github.com/dshills/mdinput/internal/engine/offset"
	"github.com/dshills/mdinput/internal/engine/rundoc"
	"github.com/dshills/mdinput/internal/engine/style"
	"github.com/dshills/mdinput/internal/notify"
)

// Editor is the main facade for the markdown input engine.
// It combines the run document, selection, clipboard and debounced
// undo/redo into a unified, thread-safe API.
//
// Every mutating operation computes a new document first and only then
// swaps it in, records history and notifies subscribers, so a failing
// operation leaves the editor unchanged.
type Editor struct {
	mu sync.Mutex

	// Core state
	reg     *style.Registry
	doc     *rundoc.Document
	sel     cursor.Selection
	seq     uint64
	history *history.History

	// Collaborators
	clip      Clipboard
	surface   Surface
	logger    Logger
	notifier  *notify.Notifier
	ownNotify bool

	// Configuration
	clock          clock.Clock
	debounce       time.Duration
	maxUndoEntries int
	liveMarkdown   bool
	initContent    string
	exampleContent string

	closed bool
}

// New creates a new Editor over the given style registry. A nil registry
// uses the built-in styles.
func New(reg *style.Registry, opts ...Option) *Editor {
	if reg == nil {
		reg = style.Default()
	}
	e := &Editor{
		reg:            reg,
		logger:         nopLogger{},
		clock:          clock.Real{},
		debounce:       DefaultDebounce,
		maxUndoEntries: DefaultMaxUndoEntries,
		liveMarkdown:   true,
		exampleContent: DefaultExampleContent,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.notifier == nil {
		e.notifier = notify.New()
		e.ownNotify = true
	}

	e.doc = markdown.Parse(reg, e.initContent)
	e.sel = cursor.NewCursorSelection(e.doc.PlainLen())
	e.history = history.NewFromDocument(e.doc, e.sel,
		history.WithClock(e.clock),
		history.WithDebounce(e.debounce),
		history.WithMaxEntries(e.maxUndoEntries),
		history.WithOnCommit(func(entry history.Entry) {
			e.logger.Debug("history commit", "label", entry.Label, "id", entry.ID, "len", entry.Document.PlainLen())
		}),
	)

	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Registry returns the style registry.
func (e *Editor) Registry() *style.Registry {
	return e.reg
}

// Document returns the current document. Documents are immutable.
func (e *Editor) Document() *rundoc.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Selection returns the current selection.
func (e *Editor) Selection() cursor.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel
}

// Text returns the plain-text projection shown to the user.
func (e *Editor) Text() string {
	return e.Document().Text()
}

// Markdown returns the markdown source of the document.
func (e *Editor) Markdown() string {
	return e.Document().Markdown()
}

// CaretOffset returns the plain offset of the caret (the selection head).
func (e *Editor) CaretOffset() int {
	return e.Selection().Head
}

// CaretStyle returns the style of the character before the caret. It is
// empty for plain text and at the start of the document.
func (e *Editor) CaretStyle() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos, err := offset.PlainToRun(e.doc, e.sel.Head, offset.Left)
	if err != nil || pos.Offset == 0 {
		return ""
	}
	return e.doc.Run(pos.Run).Style
}

// Seq returns the edit sequence number. It increases on every change.
func (e *Editor) Seq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// History returns the history manager, for inspection.
func (e *Editor) History() *history.History {
	return e.history
}

// CanUndo returns true if undo is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// Subscribe registers fn for every change. fn runs after the editor lock
// is released, so it may call back into the editor.
func (e *Editor) Subscribe(fn func(Change)) *notify.Subscription {
	return e.notifier.SubscribeTopic(notify.TopicDocument, func(ev notify.Event) {
		if ch, ok := ev.Value.(Change); ok {
			fn(ch)
		}
	})
}

// ============================================================================
// Clipboard Operations
// ============================================================================

// Paste reads the clipboard and replaces the selection with its content
// parsed as markdown. The caret lands after the inserted content and the
// edit is recorded with the debounce window.
//
// The clipboard is read without holding the editor lock. If the document
// changed while the read was in flight the result is discarded and
// ErrStalePaste returned.
func (e *Editor) Paste(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	seq := e.seq
	clip := e.clip
	e.mu.Unlock()

	if clip == nil {
		return fmt.Errorf("paste: %w", ErrClipboardUnavailable)
	}
	text, err := clip.Read(ctx)
	if err != nil {
		e.logger.Warn("clipboard read failed", "err", err)
		return fmt.Errorf("paste: %w", err)
	}

	ch, err := e.paste(text, &seq)
	return e.finish(ch, err)
}

// PasteText pastes text directly, as delivered by a bracketed terminal paste.
func (e *Editor) PasteText(text string) error {
	ch, err := e.paste(text, nil)
	return e.finish(ch, err)
}

func (e *Editor) paste(text string, seq *uint64) (*Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if seq != nil && *seq != e.seq {
		e.logger.Debug("discarding stale paste", "readSeq", *seq, "seq", e.seq)
		return nil, ErrStalePaste
	}
	if err := e.syncSelectionLocked(); err != nil {
		return nil, err
	}

	frag := markdown.ParseFragment(e.reg, text)
	start, end := e.sel.Start(), e.sel.End()
	doc, err := e.doc.ReplaceWithDocument(start, end, frag)
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	doc, sel, err := canonical(doc, cursor.AfterReplace(e.sel, frag.PlainLen()))
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	return e.applyLocked(doc, sel, KindPaste, recordDebounced), nil
}

// Cut removes the selection and writes its markdown to the clipboard. A
// collapsed selection is a no-op. The clipboard is written first; if that
// fails nothing changes. Cut is recorded in history immediately.
func (e *Editor) Cut(ctx context.Context) error {
	ch, err := e.cut(ctx)
	return e.finish(ch, err)
}

func (e *Editor) cut(ctx context.Context) (*Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if err := e.syncSelectionLocked(); err != nil {
		return nil, err
	}
	if e.sel.IsEmpty() {
		return nil, nil
	}

	start, end := e.sel.Start(), e.sel.End()
	extracted, remaining, err := e.doc.ExtractRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("cut: %w", err)
	}
	remaining, sel, err := canonical(remaining, cursor.AfterReplace(e.sel, 0))
	if err != nil {
		return nil, fmt.Errorf("cut: %w", err)
	}
	if err := e.writeClipboardLocked(ctx, extracted.Markdown()); err != nil {
		return nil, fmt.Errorf("cut: %w", err)
	}
	return e.applyLocked(remaining, sel, KindCut, recordImmediate), nil
}

// Copy writes the markdown of the selection to the clipboard. A collapsed
// selection is a no-op.
func (e *Editor) Copy(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if err := e.syncSelectionLocked(); err != nil {
		return err
	}
	if e.sel.IsEmpty() {
		return nil
	}
	frag, err := e.doc.Slice(e.sel.Start(), e.sel.End())
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err := e.writeClipboardLocked(ctx, frag.Markdown()); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

func (e *Editor) writeClipboardLocked(ctx context.Context, text string) error {
	if e.clip == nil {
		return ErrClipboardUnavailable
	}
	if err := e.clip.Write(ctx, text); err != nil {
		e.logger.Warn("clipboard write failed", "err", err)
		return err
	}
	return nil
}

// ============================================================================
// Document Operations
// ============================================================================

// SelectAll selects the whole document and records it immediately.
func (e *Editor) SelectAll() error {
	ch, err := e.replaceAll(nil, KindSelect, true)
	return e.finish(ch, err)
}

// Reset replaces the document with the example content and puts the caret
// at its end. Recorded immediately.
func (e *Editor) Reset() error {
	ch, err := e.replaceAll(markdown.Parse(e.reg, e.exampleContent), KindReset, false)
	return e.finish(ch, err)
}

// Clear empties the document. Recorded immediately.
func (e *Editor) Clear() error {
	ch, err := e.replaceAll(rundoc.Empty(e.reg), KindClear, false)
	return e.finish(ch, err)
}

// replaceAll swaps in doc (nil keeps the current one) and selects either
// the whole document or a caret at its end.
func (e *Editor) replaceAll(doc *rundoc.Document, kind ChangeKind, selectAll bool) (*Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if doc == nil {
		doc = e.doc
	}
	sel := cursor.NewCursorSelection(doc.PlainLen())
	if selectAll {
		sel = cursor.NewSelection(0, doc.PlainLen())
	}
	ch := e.applyLocked(doc, sel, kind, recordImmediate)
	if e.surface != nil {
		e.surface.Focus()
	}
	return ch, nil
}

// Type replaces the selection with typed text.
//
// In live markdown mode the text is spliced into the markdown source at
// the caret and the source re-parsed, so delimiters typed by the user
// take effect as soon as a span is closed. Otherwise the text is inserted
// structurally and takes the style of the run it lands inside. Either way
// the result is the document its markdown parses to.
func (e *Editor) Type(text string) error {
	ch, err := e.typeText(text)
	return e.finish(ch, err)
}

func (e *Editor) typeText(text string) (*Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if err := e.syncSelectionLocked(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	start, end := e.sel.Start(), e.sel.End()
	doc, err := e.doc.DeleteRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}

	sel := cursor.AfterReplace(e.sel, utf8.RuneCountInString(text))
	if e.liveMarkdown {
		doc, sel, err = spliceMarkdown(doc, start, text)
	} else if doc, err = doc.Insert(start, text); err == nil {
		doc, sel, err = canonical(doc, sel)
	}
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	return e.applyLocked(doc, sel, KindEdit, recordDebounced), nil
}

// spliceMarkdown inserts text into the markdown source of doc at the plain
// offset at, re-parses, and maps the caret back to plain coordinates.
func spliceMarkdown(doc *rundoc.Document, at int, text string) (*rundoc.Document, cursor.Selection, error) {
	mdAt, err := offset.PlainToMarkdown(doc, at)
	if err != nil {
		return nil, cursor.Selection{}, err
	}
	src := []rune(doc.Markdown())
	spliced := string(src[:mdAt]) + text + string(src[mdAt:])

	next, caret := markdown.ParseMapped(doc.Registry(), spliced, mdAt+utf8.RuneCountInString(text))
	return next, cursor.NewCursorSelection(caret[0]), nil
}

// canonical returns the document the markdown of doc parses to, with sel
// mapped onto it. Runs whose text holds delimiters of their own or of a
// neighbour do not survive the round trip; the parsed form wins.
func canonical(doc *rundoc.Document, sel cursor.Selection) (*rundoc.Document, cursor.Selection, error) {
	anchor, err := offset.PlainToMarkdown(doc, sel.Anchor)
	if err != nil {
		return nil, cursor.Selection{}, err
	}
	head, err := offset.PlainToMarkdown(doc, sel.Head)
	if err != nil {
		return nil, cursor.Selection{}, err
	}
	next, mapped := markdown.ParseMapped(doc.Registry(), doc.Markdown(), anchor, head)
	if next.Equal(doc) {
		return doc, sel, nil
	}
	return next, cursor.NewSelection(mapped[0], mapped[1]), nil
}

// DeleteBackward deletes the selection, or the grapheme cluster before a
// collapsed caret.
func (e *Editor) DeleteBackward() error {
	ch, err := e.deleteGrapheme(cursor.Backward)
	return e.finish(ch, err)
}

// DeleteForward deletes the selection, or the grapheme cluster after a
// collapsed caret.
func (e *Editor) DeleteForward() error {
	ch, err := e.deleteGrapheme(cursor.Forward)
	return e.finish(ch, err)
}

func (e *Editor) deleteGrapheme(dir cursor.Direction) (*Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if err := e.syncSelectionLocked(); err != nil {
		return nil, err
	}

	start, end := e.sel.Start(), e.sel.End()
	if e.sel.IsEmpty() {
		text := e.doc.Text()
		if dir == cursor.Backward {
			start = cursor.PrevGrapheme(text, start)
		} else {
			end = cursor.NextGrapheme(text, end)
		}
	}
	if start == end {
		return nil, nil
	}

	doc, err := e.doc.DeleteRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	doc, sel, err := canonical(doc, cursor.AfterReplace(cursor.NewSelection(start, end), 0))
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	return e.applyLocked(doc, sel, KindEdit, recordDebounced), nil
}

// ToggleStyle applies the named style to the selection, or removes it if
// the whole selection already has it. Recorded immediately. A collapsed
// selection is a no-op. If the restyled text would not survive its own
// markdown, as when bold wraps a literal "*", ErrConflictingDelimiter is
// returned and nothing changes.
func (e *Editor) ToggleStyle(name string) error {
	ch, err := e.toggleStyle(name)
	return e.finish(ch, err)
}

func (e *Editor) toggleStyle(name string) (*Change, error) {
	if !e.reg.Has(name) {
		return nil, fmt.Errorf("toggle %q: %w", name, ErrUnknownStyle)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if err := e.syncSelectionLocked(); err != nil {
		return nil, err
	}
	if e.sel.IsEmpty() {
		return nil, nil
	}

	start, end := e.sel.Start(), e.sel.End()
	current, uniform, err := e.doc.StyleAt(start, end)
	if err != nil {
		return nil, fmt.Errorf("toggle %q: %w", name, err)
	}
	target := name
	if uniform && current == name {
		target = ""
	}
	restyled, err := e.doc.Restyle(start, end, target)
	if err != nil {
		return nil, fmt.Errorf("toggle %q: %w", name, err)
	}
	doc, sel, err := canonical(restyled, e.sel)
	if err != nil {
		return nil, fmt.Errorf("toggle %q: %w", name, err)
	}
	if doc.Text() != restyled.Text() {
		return nil, fmt.Errorf("toggle %q: %w", name, ErrConflictingDelimiter)
	}
	return e.applyLocked(doc, sel, KindStyle, recordImmediate), nil
}

// ============================================================================
// Selection Operations
// ============================================================================

// SetSelection sets the selection. Offsets outside [0, length] fail with
// ErrOutOfRange.
func (e *Editor) SetSelection(anchor, focus int) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	sel := cursor.NewSelection(anchor, focus)
	if !sel.Valid(e.doc.PlainLen()) {
		n := e.doc.PlainLen()
		e.mu.Unlock()
		return fmt.Errorf("selection %s with length %d: %w", sel, n, ErrOutOfRange)
	}
	ch := e.applyLocked(e.doc, sel, KindSelect, recordNone)
	e.mu.Unlock()

	e.publish(ch)
	return nil
}

// MoveCaret moves the caret by delta grapheme clusters; negative moves
// backward. With extend the anchor stays put.
func (e *Editor) MoveCaret(delta int, extend bool) error {
	return e.moveSelection(func(text string, sel cursor.Selection) cursor.Selection {
		dir := cursor.Forward
		if delta < 0 {
			dir = cursor.Backward
			delta = -delta
		}
		for i := 0; i < delta; i++ {
			sel = cursor.Move(text, sel, dir, extend)
		}
		return sel
	})
}

// MoveLineStart moves the caret to the start of its line.
func (e *Editor) MoveLineStart(extend bool) error {
	return e.moveSelection(func(text string, sel cursor.Selection) cursor.Selection {
		return moveHead(sel, cursor.LineStart(text, sel.Head), extend)
	})
}

// MoveLineEnd moves the caret to the end of its line.
func (e *Editor) MoveLineEnd(extend bool) error {
	return e.moveSelection(func(text string, sel cursor.Selection) cursor.Selection {
		return moveHead(sel, cursor.LineEnd(text, sel.Head), extend)
	})
}

func moveHead(sel cursor.Selection, head int, extend bool) cursor.Selection {
	if extend {
		return sel.Extend(head)
	}
	return sel.MoveTo(head)
}

func (e *Editor) moveSelection(move func(text string, sel cursor.Selection) cursor.Selection) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if err := e.syncSelectionLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	sel := move(e.doc.Text(), e.sel)
	if sel == e.sel {
		e.mu.Unlock()
		return nil
	}
	ch := e.applyLocked(e.doc, sel, KindSelect, recordNone)
	e.mu.Unlock()

	e.publish(ch)
	return nil
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo restores the previous history entry. It returns false when there
// is nothing to undo.
func (e *Editor) Undo() bool {
	return e.restore(e.history.Undo, KindUndo)
}

// Redo restores the most recently undone entry. It returns false when
// there is nothing to redo.
func (e *Editor) Redo() bool {
	return e.restore(e.history.Redo, KindRedo)
}

func (e *Editor) restore(step func() (history.Entry, bool), kind ChangeKind) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	entry, ok := step()
	if !ok {
		e.mu.Unlock()
		return false
	}
	ch := e.applyLocked(entry.Document, entry.RestoredSelection(), kind, recordNone)
	e.mu.Unlock()

	e.logger.Debug(kind.String(), "entry", entry.ID, "label", entry.Label)
	e.publish(ch)
	return true
}

// SetDebounce changes the history debounce window.
func (e *Editor) SetDebounce(d time.Duration) {
	e.history.SetDebounce(d)
	e.logger.Info("debounce window changed", "debounce", d)
}

// Close commits pending history and releases the editor's notifier.
// Further operations fail with ErrClosed.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.history.Close()
	if e.ownNotify {
		e.notifier.Close()
	}
}

// ============================================================================
// Internal
// ============================================================================

// syncSelectionLocked adopts the surface selection, if a surface is attached.
func (e *Editor) syncSelectionLocked() error {
	if e.surface == nil {
		return nil
	}
	anchor, focus := e.surface.Selection()
	sel := cursor.NewSelection(anchor, focus)
	if !sel.Valid(e.doc.PlainLen()) {
		return fmt.Errorf("surface selection %s with length %d: %w", sel, e.doc.PlainLen(), ErrOutOfRange)
	}
	e.sel = sel
	return nil
}

// applyLocked swaps in the new state, records it and returns the change
// to publish once the lock is released.
func (e *Editor) applyLocked(doc *rundoc.Document, sel cursor.Selection, kind ChangeKind, mode recordMode) *Change {
	e.doc = doc
	e.sel = sel
	e.seq++

	switch mode {
	case recordDebounced:
		e.history.Record(doc, sel, kind.String())
	case recordImmediate:
		e.history.RecordImmediate(doc, sel, kind.String())
	}

	if e.surface != nil {
		e.surface.SetSelection(sel.Anchor, sel.Head)
	}
	return &Change{Kind: kind, Document: doc, Selection: sel, Seq: e.seq}
}

// finish publishes ch, if any, and returns err.
func (e *Editor) finish(ch *Change, err error) error {
	if err != nil {
		return err
	}
	e.publish(ch)
	return nil
}

func (e *Editor) publish(ch *Change) {
	if ch == nil {
		return
	}
	e.notifier.Publish(notify.Event{
		Topic:  notify.TopicDocument + "." + ch.Kind.String(),
		Value:  *ch,
		Source: "editor",
	})
}
