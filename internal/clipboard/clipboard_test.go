package clipboard

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryReadWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Write(ctx, "*bold*"); err != nil {
		t.Fatal(err)
	}
	got, err := m.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "*bold*" {
		t.Errorf("Read() = %q", got)
	}
	if r, w := m.Counts(); r != 1 || w != 1 {
		t.Errorf("Counts() = %d, %d", r, w)
	}
}

func TestMemoryInjectedFailures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Set("keep")

	m.FailWrites(ErrPermissionDenied)
	if err := m.Write(ctx, "lost"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Write() error = %v", err)
	}
	if m.Text() != "keep" {
		t.Errorf("failed write changed contents to %q", m.Text())
	}

	m.FailReads(ErrUnavailable)
	if _, err := m.Read(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Read() error = %v", err)
	}

	m.FailReads(nil)
	if got, err := m.Read(ctx); err != nil || got != "keep" {
		t.Errorf("Read() after clearing = %q, %v", got, err)
	}
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	if _, err := m.Read(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Read() error = %v", err)
	}
	if err := m.Write(ctx, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Write() error = %v", err)
	}
}

func TestNew(t *testing.T) {
	cb, fellBack, err := New(BackendMemory)
	if err != nil || fellBack {
		t.Fatalf("New(memory) = %v, %v", fellBack, err)
	}
	if _, ok := cb.(*Memory); !ok {
		t.Errorf("New(memory) returned %T", cb)
	}

	if _, _, err := New("carrier-pigeon"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(unknown) error = %v", err)
	}

	cb, _, err = New(BackendSystem)
	if err != nil || cb == nil {
		t.Errorf("New(system) = %v, %v", cb, err)
	}
}
