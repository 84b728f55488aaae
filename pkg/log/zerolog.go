package log

import (
	"context"
	"io"
	"os"
	"sync"

	cerrors "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/hikarimat/matpipe/pkg/errors"
)

// StacktraceKey is the attribute key under which Error attaches stack traces
// extracted from cockroachdb/errors values.
const StacktraceKey = "stacktrace"

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger in the Logger interface.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

// NewLogger creates a Logger writing zerolog console output to w at the given
// level.
func NewLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(toZerologLevel(level)).
		With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// NewJSONLogger creates a Logger writing zerolog JSON lines to w. This is the
// CLI's production mode.
func NewJSONLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).
		Level(toZerologLevel(level)).
		With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

// emit applies alternating key/value fields to a zerolog event. Error values
// get their message plus, when available, the stack trace recorded by
// cockroachdb/errors.
func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
			if st := extractStacktrace(v); st != "" {
				e = e.Str(StacktraceKey, st)
			}
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

func extractStacktrace(err error) string {
	safeDetails := cerrors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// ===========================================================================
//
//	Global logger
//
// ===========================================================================

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewLogger(os.Stderr, LevelInfo)
)

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the process-wide default logger.
func SetLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Setup configures the default logger for the given level and output mode and
// bridges library warnings (pkg/errors.Warn) into it.
func Setup(level string, json bool) {
	var l Logger
	if json {
		l = NewJSONLogger(os.Stderr, ParseLevel(level))
	} else {
		l = NewLogger(os.Stderr, ParseLevel(level))
	}
	SetLogger(l)
	errors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn("pipeline warning", "warning", warning)
	})
}
