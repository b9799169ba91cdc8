package engine

import (
	"context"

	"github.com/dshills/mdinput/internal/engine/cursor"
	"github.com/dshills/mdinput/internal/engine/rundoc"
)

// Surface is the editable surface the document is shown in. Offsets are
// plain-text rune offsets.
type Surface interface {
	Selection() (anchor, focus int)
	SetSelection(anchor, focus int)
	Focus()
}

// Clipboard reads and writes clipboard text. Errors should wrap
// ErrClipboardUnavailable or ErrPermissionDenied.
type Clipboard interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, text string) error
}

// Logger receives structured log records as alternating key/value pairs.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// ChangeKind identifies the operation behind a Change.
type ChangeKind int

const (
	KindEdit ChangeKind = iota
	KindPaste
	KindCut
	KindUndo
	KindRedo
	KindReset
	KindClear
	KindSelect
	KindStyle
)

var kindNames = [...]string{
	KindEdit:   "edit",
	KindPaste:  "paste",
	KindCut:    "cut",
	KindUndo:   "undo",
	KindRedo:   "redo",
	KindReset:  "reset",
	KindClear:  "clear",
	KindSelect: "select",
	KindStyle:  "style",
}

// String returns the kind name.
func (k ChangeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Change describes the editor state after an operation. Renderers
// repaint from Document and restore the caret from Selection.
type Change struct {
	Kind      ChangeKind
	Document  *rundoc.Document
	Selection cursor.Selection
	Seq       uint64
}

// recordMode selects how an operation is recorded in history.
type recordMode int

const (
	recordNone recordMode = iota
	recordDebounced
	recordImmediate
)
