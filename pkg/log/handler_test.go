package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	err := errors.New("fit failed")
	logger.Error("model error", ErrAttr(err))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("handler produced invalid JSON: %v", err)
	}

	stacktrace, ok := entry[StacktraceAttrKey].(string)
	if !ok || stacktrace == "" {
		t.Errorf("expected a %q attribute with the extracted stack, got %v", StacktraceAttrKey, entry)
	}
	if entry[ErrAttrKey] == nil {
		t.Errorf("expected the %q attribute to be preserved", ErrAttrKey)
	}
}

func TestErrFmtHandlerWithoutError(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("fitted", slog.Int(RowsKey, 100))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("handler produced invalid JSON: %v", err)
	}

	if _, ok := entry[StacktraceAttrKey]; ok {
		t.Error("records without an error attribute must not carry a stacktrace")
	}
	if entry[RowsKey] != float64(100) {
		t.Errorf("expected rows attribute 100, got %v", entry[RowsKey])
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := ToLogLevel(tt.level); got != tt.want {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestToLogLevelInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown level name")
		}
	}()
	ToLogLevel("verbose")
}

func TestShapeAttrs(t *testing.T) {
	attrs := ShapeAttrs(100, 10)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}

	rows, ok := attrs[0].(slog.Attr)
	if !ok || rows.Key != RowsKey || rows.Value.Int64() != 100 {
		t.Errorf("unexpected rows attribute: %v", attrs[0])
	}
	cols, ok := attrs[1].(slog.Attr)
	if !ok || cols.Key != ColsKey || cols.Value.Int64() != 10 {
		t.Errorf("unexpected cols attribute: %v", attrs[1])
	}
}
