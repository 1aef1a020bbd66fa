package db

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with graph-specific fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr.
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

// NoopLogger discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithGraph tags the logger with a graph id.
func (l *Logger) WithGraph(id uuid.UUID) *Logger {
	return &Logger{
		Logger: l.Logger.With("graph", id.String()),
	}
}

// LogMutation logs a single mutation.
func (l *Logger) LogMutation(op string, t int64, err error) {
	if err != nil {
		l.Error("mutation failed",
			"op", op,
			"time", t,
			"error", err,
		)
	} else {
		l.Debug("mutation applied",
			"op", op,
			"time", t,
		)
	}
}

// LogIngest logs a bulk ingestion.
func (l *Logger) LogIngest(ctx context.Context, count, failed int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "ingest failed",
			"total", count,
			"failed", failed,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "ingest completed with failures",
			"total", count,
			"failed", failed,
		)
	default:
		l.InfoContext(ctx, "ingest completed",
			"count", count,
		)
	}
}

// LogReplay logs a journal replay.
func (l *Logger) LogReplay(ctx context.Context, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "journal replay failed",
			"records_replayed", records,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "journal replay completed",
			"records_replayed", records,
		)
	}
}
