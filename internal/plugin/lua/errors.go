package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrBadStyle is returned when a script passes a malformed style table.
	ErrBadStyle = errors.New("bad style table")
)

// ScriptError ties a failure to the script that caused it.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("style plugin %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
