package engine

import (
	"time"

	"github.com/dshills/mdinput/internal/clock"
	"github.com/dshills/mdinput/internal/engine/history"
	"github.com/dshills/mdinput/internal/notify"
)

// Default configuration values.
const (
	DefaultDebounce       = history.DefaultDebounce
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// DefaultExampleContent is the document Reset restores.
const DefaultExampleContent = "Hello *world*! Try _italic_, ~strike~, `code` and a mention for @here."

// Option configures an Editor during creation.
type Option func(*Editor)

// WithContent sets the initial markdown content of the editor.
func WithContent(markdown string) Option {
	return func(e *Editor) {
		e.initContent = markdown
	}
}

// WithExampleContent sets the markdown document Reset restores.
func WithExampleContent(markdown string) Option {
	return func(e *Editor) {
		e.exampleContent = markdown
	}
}

// WithClock sets the clock driving the history debounce timer.
func WithClock(c clock.Clock) Option {
	return func(e *Editor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithDebounce sets the history debounce window.
func WithDebounce(d time.Duration) Option {
	return func(e *Editor) {
		if d >= 0 {
			e.debounce = d
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithClipboard sets the clipboard used by Paste, Cut and Copy.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) {
		e.clip = c
	}
}

// WithSurface attaches the editable surface whose selection the editor
// reads before and writes after every operation.
func WithSurface(s Surface) Option {
	return func(e *Editor) {
		e.surface = s
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLiveMarkdown selects how typed text is applied. When enabled (the
// default) typed text is spliced into the markdown source and re-parsed,
// so typing a closing delimiter styles the span it closes.
func WithLiveMarkdown(enabled bool) Option {
	return func(e *Editor) {
		e.liveMarkdown = enabled
	}
}

// WithNotifier publishes changes through n instead of a private notifier.
// The editor does not close a notifier it did not create.
func WithNotifier(n *notify.Notifier) Option {
	return func(e *Editor) {
		e.notifier = n
	}
}
