// Package app wires configuration, plugins, the editor and the terminal
// into the interactive mdinput application.
package app

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger writes leveled key=value log lines. It satisfies the editor's
// Logger interface.
type Logger struct {
	mu       *sync.Mutex
	level    *LogLevel
	output   io.Writer
	prefix   string
	fields   map[string]any
	disabled bool
	now      func() time.Time
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "mdinput",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level := cfg.Level
	return &Logger{
		mu:     &sync.Mutex{},
		level:  &level,
		output: cfg.Output,
		prefix: cfg.Prefix,
		fields: make(map[string]any),
		now:    time.Now,
	}
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{mu: &sync.Mutex{}, level: new(LogLevel), output: io.Discard, disabled: true, now: time.Now}

// WithField returns a logger that adds key=value to every line. The
// derived logger shares the parent's level and output.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	child := *l
	child.fields = fields
	return &child
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum log level for this logger and its children.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

// Level returns the minimum log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log(LogLevelDebug, msg, keyvals)
}

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log(LogLevelInfo, msg, keyvals)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.log(LogLevelWarn, msg, keyvals)
}

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log(LogLevelError, msg, keyvals)
}

// log writes a line of the form
//
//	2006-01-02T15:04:05.000 [LEVEL] prefix: msg k=v k=v {field=v}
func (l *Logger) log(level LogLevel, msg string, keyvals []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disabled || level < *l.level {
		return
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02T15:04:05.000"))
	fmt.Fprintf(&sb, " [%s] ", level)
	if l.prefix != "" {
		sb.WriteString(l.prefix + ": ")
	}
	sb.WriteString(msg)

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			fmt.Fprintf(&sb, " %v=%s", keyvals[i], formatValue(keyvals[i+1]))
		} else {
			fmt.Fprintf(&sb, " %v=(missing)", keyvals[i])
		}
	}

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, formatValue(l.fields[k]))
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')

	_, _ = io.WriteString(l.output, sb.String())
}

// formatValue quotes strings containing spaces so lines stay parseable.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
