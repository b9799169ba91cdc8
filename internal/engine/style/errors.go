package style

import "errors"

// Errors returned by registry operations.
var (
	// ErrUnknownStyle indicates a style name that is not registered.
	ErrUnknownStyle = errors.New("unknown style")

	// ErrDuplicateStyle indicates a style name registered twice.
	ErrDuplicateStyle = errors.New("duplicate style")

	// ErrAmbiguousDelimiter indicates two styles with identical delimiters, or
	// an opening delimiter that is a strict prefix of another.
	ErrAmbiguousDelimiter = errors.New("ambiguous delimiter")

	// ErrInvalidDefinition indicates a malformed style definition.
	ErrInvalidDefinition = errors.New("invalid style definition")
)
