// Package log provides structured logging for mlapi model operations.
//
// It is a thin layer over the standard log/slog package: a JSON handler
// wrapped so that errors carrying cockroachdb/errors stack traces are emitted
// with a stacktrace attribute, plus attribute helpers for the fields models
// log (model name, operation, data shape).
package log

import (
	"fmt"
	"log/slog"
	"os"
)

// SetupLogger installs the default slog logger used by the library.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// Attribute keys shared across model packages.
const (
	ModelKey     = "model"
	OperationKey = "op"
	RowsKey      = "rows"
	ColsKey      = "cols"
	FormatKey    = "format"
)

// ShapeAttrs returns the standard attributes describing a matrix shape.
func ShapeAttrs(rows, cols int) []any {
	return []any{slog.Int(RowsKey, rows), slog.Int(ColsKey, cols)}
}
