// Package logger provides structured logging for matkit's CLI and HTTP
// server, backed by log/slog. Library code in pkg/matfile returns errors
// and stays log-free; commands build a Logger once and pass it down
// through context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is the logging interface the commands and server depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// New creates a Logger with the given handler.
func New(handler slog.Handler) Logger {
	return &slogLogger{
		logger: slog.New(handler),
	}
}

// Default is the fallback logger when nothing was configured: pretty
// output to stderr at info level, matching the CLI-first use of matkit.
func Default() Logger {
	return Pretty(os.Stderr, slog.LevelInfo)
}

// JSON creates a Logger with a JSON handler for server deployments.
func JSON(w io.Writer, level slog.Level) Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
}

// Pretty creates a Logger with colored single-line output for CLI use.
func Pretty(w io.Writer, level slog.Level) Logger {
	return New(NewPrettyHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// FromContext retrieves a Logger from the context, falling back to
// Default when none was attached.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return logger
	}
	return Default()
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

type loggerKey struct{}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{
		logger: l.logger.With(args...),
	}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{
		logger: l.logger.WithGroup(name),
	}
}

// ParseLevel converts a flag or config string to a slog.Level. Unknown
// strings fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
