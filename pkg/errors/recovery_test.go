package errors

import (
	"strings"
	"testing"
)

func TestRecoverConvertsPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "Model.Fit")
		panic("mat: dimension mismatch")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected an error from the recovered panic")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Operation != "Model.Fit" {
		t.Errorf("unexpected operation: %q", panicErr.Operation)
	}
	if !strings.Contains(err.Error(), "dimension mismatch") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRecoverWithoutPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "Model.Fit")
		return nil
	}

	if err := fn(); err != nil {
		t.Errorf("Recover must not fabricate an error: %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	err := SafeExecute("Model.Transform", func() error {
		panic("boom")
	})

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.StackTrace == "" {
		t.Error("PanicError should capture a stack trace")
	}
}
