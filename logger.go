package annogo

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/hupe1980/annogo/typesystem"
)

// Logger wraps slog.Logger with helpers for the attributes this package
// logs: store identity, view names, record types.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger from an existing slog.Logger. A nil argument
// yields a no-op logger.
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return &Logger{Logger: l}
}

// NoopLogger returns a logger that discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// NewTextLogger returns a logger writing human-readable lines to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewJSONLogger returns a logger writing JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// WithStore returns a logger with the store instance attached.
func (l *Logger) WithStore(id uuid.UUID) *Logger {
	return &Logger{Logger: l.With(slog.String("store", id.String()))}
}

// WithView returns a logger with the view name attached.
func (l *Logger) WithView(name string) *Logger {
	return &Logger{Logger: l.With(slog.String("view", name))}
}

// LogAdd logs one record insertion.
func (l *Logger) LogAdd(t *typesystem.Type, id uint64, err error) {
	if err != nil {
		l.Error("add record failed", slog.String("type", t.Name()), slog.Any("error", err))
		return
	}
	l.Debug("record added", slog.String("type", t.Name()), slog.Uint64("id", id))
}

// LogSelect logs the completion of a terminal select operation.
func (l *Logger) LogSelect(op string, t *typesystem.Type, err error) {
	if err != nil {
		l.Debug("select failed", slog.String("op", op), slog.Any("error", err))
		return
	}
	name := ""
	if t != nil {
		name = t.Name()
	}
	l.Debug("select completed", slog.String("op", op), slog.String("type", name))
}
