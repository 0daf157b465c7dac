package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the interface for structured logging used across the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// New creates a logger backed by the given slog handler. A nil handler falls
// back to the process default.
func New(handler slog.Handler) Logger {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &slogLogger{logger: slog.New(handler)}
}

// NewJSON creates a JSON logger writing to stderr at the given level.
func NewJSON(level slog.Level) Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(handler)}
}

// NewText creates a text logger at the given level, for local development.
func NewText(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(handler)}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// Noop returns a logger that discards everything. Useful in tests.
func Noop() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) With(...any) Logger { return n }
