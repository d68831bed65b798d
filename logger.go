package anongo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with anongo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithAttribute adds an attribute field to the logger.
func (l *Logger) WithAttribute(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("attribute", name),
	}
}

// LogEncode logs the encoding of the input table.
func (l *Logger) LogEncode(ctx context.Context, rows, quasiIdentifiers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encoding failed",
			"rows", rows,
			"quasi_identifiers", quasiIdentifiers,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "encoding completed",
			"rows", rows,
			"quasi_identifiers", quasiIdentifiers,
		)
	}
}

// LogSearch logs a completed lattice search.
func (l *Logger) LogSearch(ctx context.Context, latticeSize, checked int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"lattice_size", latticeSize,
			"checked", checked,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"lattice_size", latticeSize,
			"checked", checked,
			"duration", duration,
		)
	}
}

// LogAnonymize logs the outcome of one run.
func (l *Logger) LogAnonymize(ctx context.Context, levels []int, quality float64, suppressed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "anonymization failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "anonymization completed",
			"transformation", levels,
			"quality", quality,
			"suppressed_rows", suppressed,
		)
	}
}
