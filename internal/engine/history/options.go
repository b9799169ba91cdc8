package history

import (
	"time"

	"github.com/dshills/mdinput/internal/clock"
)

// Defaults.
const (
	DefaultDebounce   = 300 * time.Millisecond
	DefaultMaxEntries = 1000
)

// Option configures a History.
type Option func(*History)

// WithDebounce sets the window within which records coalesce.
func WithDebounce(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.debounce = d
		}
	}
}

// WithClock sets the clock used for timestamps and the debounce timer.
func WithClock(c clock.Clock) Option {
	return func(h *History) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithMaxEntries sets the maximum number of undo entries.
func WithMaxEntries(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// WithOnCommit registers a callback invoked after each snapshot commit.
// It runs without the history lock held, possibly on a timer goroutine.
func WithOnCommit(fn func(Entry)) Option {
	return func(h *History) {
		h.onCommit = fn
	}
}
