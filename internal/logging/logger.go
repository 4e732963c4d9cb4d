// Package logging wraps log/slog with the field names used across the engine.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with projection-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger writing human-readable text to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Nop creates a Logger that discards everything.
func Nop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WithComponent tags every record with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// WithKey adds the key of the item an operation works on.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{Logger: l.Logger.With("key", key)}
}

// LogReset logs a full rebuild of a projection.
func (l *Logger) LogReset(reason string, count int) {
	l.Debug("projection reset", "reason", reason, "count", count)
}

// LogChange logs a point change notification.
func (l *Logger) LogChange(action string, index, count int) {
	l.Debug("projection change", "action", action, "index", index, "count", count)
}

// LogSelection logs the outcome of a selection operation.
func (l *Logger) LogSelection(op string, selected, excluded int, all bool) {
	l.Debug("selection changed",
		"op", op,
		"selected", selected,
		"excluded", excluded,
		"all", all,
	)
}

// LogRejected logs an operation refused because of an invalid argument.
func (l *Logger) LogRejected(op string, err error) {
	l.Warn("operation rejected", "op", op, "error", err)
}
