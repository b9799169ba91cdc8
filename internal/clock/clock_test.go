package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualAdvanceFiresDueTimers(t *testing.T) {
	m := NewManual(epoch)
	var fired []string

	m.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "late") })
	m.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })

	m.Advance(200 * time.Millisecond)
	if len(fired) != 1 || fired[0] != "early" {
		t.Fatalf("after 200ms fired = %v", fired)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", m.Pending())
	}

	m.Advance(100 * time.Millisecond)
	if len(fired) != 2 || fired[1] != "late" {
		t.Fatalf("after 300ms fired = %v", fired)
	}
	if got := m.Now(); !got.Equal(epoch.Add(300 * time.Millisecond)) {
		t.Errorf("Now() = %v", got)
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("first Stop() should return true")
	}
	if timer.Stop() {
		t.Error("second Stop() should return false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual(epoch)
	timer := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	if timer.Stop() {
		t.Error("Stop() after firing should return false")
	}
}

func TestManualNowInsideCallback(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(50*time.Millisecond, func() { at = m.Now() })
	m.Advance(time.Second)
	if !at.Equal(epoch.Add(50 * time.Millisecond)) {
		t.Errorf("callback saw %v, want deadline", at)
	}
}

func TestManualChainedTimers(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var schedule func()
	schedule = func() {
		count++
		if count < 3 {
			m.AfterFunc(10*time.Millisecond, schedule)
		}
	}
	m.AfterFunc(10*time.Millisecond, schedule)
	m.Advance(100 * time.Millisecond)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestRealClock(t *testing.T) {
	var c Clock = Real{}
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer did not fire")
	}
}
