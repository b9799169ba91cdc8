package engine

import (
	"errors"

	"github.com/dshills/mdinput/internal/clipboard"
	"github.com/dshills/mdinput/internal/engine/rundoc"
	"github.com/dshills/mdinput/internal/engine/style"
)

// Errors returned by editor operations.
var (
	// ErrOutOfRange indicates an offset or selection outside the document.
	ErrOutOfRange = rundoc.ErrOutOfRange

	// ErrInvalidRange indicates a malformed range (e.g., end < start).
	ErrInvalidRange = rundoc.ErrInvalidRange

	// ErrUnknownStyle indicates a style name missing from the registry.
	ErrUnknownStyle = style.ErrUnknownStyle

	// ErrClipboardUnavailable indicates the clipboard could not be reached.
	ErrClipboardUnavailable = clipboard.ErrUnavailable

	// ErrPermissionDenied indicates clipboard access was refused.
	ErrPermissionDenied = clipboard.ErrPermissionDenied

	// ErrStalePaste indicates a clipboard read completed after the document
	// had already changed; its result was discarded.
	ErrStalePaste = errors.New("stale paste discarded")

	// ErrConflictingDelimiter indicates a restyle whose text contains
	// delimiters that would change the text once its markdown is parsed.
	ErrConflictingDelimiter = errors.New("text conflicts with style delimiters")

	// ErrClosed indicates an operation on a closed editor.
	ErrClosed = errors.New("editor is closed")
)
