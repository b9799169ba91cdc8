// Package clipboard provides clipboard backends for the editor.
//
// Both backends satisfy the editor's Clipboard interface: Read and Write
// take a context and fail with an error wrapping ErrUnavailable or
// ErrPermissionDenied. Failures are non-fatal to the editor.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// Errors returned by clipboard backends.
var (
	// ErrUnavailable indicates the clipboard could not be reached.
	ErrUnavailable = errors.New("clipboard unavailable")

	// ErrPermissionDenied indicates access to the clipboard was refused.
	ErrPermissionDenied = errors.New("clipboard permission denied")

	// ErrUnknownBackend indicates an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown clipboard backend")
)

// Backend names accepted by New.
const (
	BackendSystem = "system"
	BackendMemory = "memory"
)

// Clipboard reads and writes clipboard text.
type Clipboard interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, text string) error
}

// New returns the backend with the given name. The system backend falls
// back to memory when the platform has no clipboard utility, and reports
// that through fellBack.
func New(name string) (cb Clipboard, fellBack bool, err error) {
	switch name {
	case "", BackendSystem:
		if sysclip.Unsupported {
			return NewMemory(), true, nil
		}
		return System{}, false, nil
	case BackendMemory:
		return NewMemory(), false, nil
	default:
		return nil, false, fmt.Errorf("%q: %w", name, ErrUnknownBackend)
	}
}

// Memory is an in-process clipboard. Failures can be injected for tests.
type Memory struct {
	mu       sync.Mutex
	text     string
	readErr  error
	writeErr error
	reads    int
	writes   int
}

// NewMemory creates an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns the clipboard contents.
func (m *Memory) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("read: %w: %v", ErrUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.text, nil
}

// Write replaces the clipboard contents.
func (m *Memory) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write: %w: %v", ErrUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	return nil
}

// Set replaces the contents without counting as a write.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// Text returns the contents without counting as a read.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// FailReads makes subsequent reads return err. A nil err clears it.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent writes return err. A nil err clears it.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Counts returns the number of reads and writes attempted.
func (m *Memory) Counts() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

// System is the platform clipboard.
type System struct{}

// Read returns the platform clipboard text.
func (System) Read(ctx context.Context) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := sysclip.ReadAll()
		ch <- result{text, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("read: %w: %v", ErrUnavailable, r.err)
		}
		return r.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("read: %w: %v", ErrUnavailable, ctx.Err())
	}
}

// Write replaces the platform clipboard text.
func (System) Write(ctx context.Context, text string) error {
	ch := make(chan error, 1)
	go func() { ch <- sysclip.WriteAll(text) }()

	select {
	case err := <-ch:
		if err != nil {
			return fmt.Errorf("write: %w: %v", ErrUnavailable, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("write: %w: %v", ErrUnavailable, ctx.Err())
	}
}
