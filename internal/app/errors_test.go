package app

import (
	"errors"
	"io/fs"
	"testing"
)

func TestOperationError(t *testing.T) {
	tests := []struct {
		err  *OperationError
		want string
	}{
		{NewOperationError("load config", "/etc/mdinput.toml", fs.ErrNotExist), "load config /etc/mdinput.toml: file does not exist"},
		{NewOperationError("open terminal", "", errors.New("no tty")), "open terminal: no tty"},
		{NewOperationError("quit", "", nil), "quit"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	err := error(NewOperationError("load config", "x", fs.ErrNotExist))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is does not reach the wrapped error")
	}

	var nilErr *OperationError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Error("nil OperationError should be inert")
	}
}
