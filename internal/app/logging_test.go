package app

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	l := NewLogger(LoggerConfig{Level: level, Output: buf, Prefix: "mdinput"})
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 6e6, time.UTC) }
	return l
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelDebug).WithComponent("editor").WithField("session", "abc")

	l.Info("history commit", "label", "paste", "len", 4, "note", "two words")

	want := `2026-01-02T03:04:05.006 [INFO] mdinput: history commit label=paste len=4 note="two words" {component=editor, session=abc}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestLoggerOddKeyvals(t *testing.T) {
	var buf bytes.Buffer
	fixedLogger(&buf, LogLevelDebug).Warn("x", "dangling")
	if !strings.Contains(buf.String(), "dangling=(missing)") {
		t.Errorf("got %q", buf.String())
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelWarn)
	child := l.WithComponent("app")

	child.Debug("d")
	child.Info("i")
	child.Warn("w")
	child.Error("e")
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", got, buf.String())
	}

	l.SetLevel(LogLevelDebug)
	buf.Reset()
	child.Debug("d")
	if buf.Len() == 0 {
		t.Error("child did not pick up the parent's level change")
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing")
	NullLogger.WithComponent("x").Info("still nothing")
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"Error":   LogLevelError,
		"bogus":   LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if LogLevel(9).String() != "UNKNOWN" {
		t.Errorf("LogLevel(9).String() = %q", LogLevel(9).String())
	}
}
