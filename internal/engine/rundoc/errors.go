package rundoc

import (
	"errors"

	"github.com/dshills/mdinput/internal/engine/style"
)

// Errors returned by document operations.
var (
	// ErrOutOfRange indicates an offset outside [0, PlainLen].
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange indicates a range with start > end or bounds outside the document.
	ErrInvalidRange = errors.New("invalid range")

	// ErrUnknownStyle is returned when a run names an unregistered style.
	ErrUnknownStyle = style.ErrUnknownStyle
)
