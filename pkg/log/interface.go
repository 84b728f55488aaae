// Package log provides structured logging for matpipe pipeline operations.
//
// The package defines a minimal, slog-compatible Logger interface with a
// zerolog-backed default implementation. Pipeline stages log through this
// interface so tests can swap in a buffer-backed logger and assert on the
// structured output.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.StageKey, "autofeaturizer",
//	    log.PipeIDKey, pipeID,
//	)
//	logger.Info("featurization finished",
//	    log.RowsKey, frame.NumRows(),
//	    log.ColumnsKey, frame.NumCols(),
//	)
package log

import (
	"context"
)

// Logger is a structured logging interface compatible with Go's log/slog
// field conventions (alternating key/value pairs).
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If a field value is an error produced by pkg/errors, its stack trace
	// is attached under the stacktrace key.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a
// Level. Unknown names default to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
