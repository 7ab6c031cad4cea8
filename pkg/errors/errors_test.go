package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("Regression", "Predict")

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if notFitted.ModelName != "Regression" || notFitted.Method != "Predict" {
		t.Errorf("unexpected fields: %+v", notFitted)
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestDimensionError(t *testing.T) {
	tests := []struct {
		name     string
		axis     int
		wantWord string
	}{
		{name: "row axis", axis: 0, wantWord: "rows"},
		{name: "feature axis", axis: 1, wantWord: "features"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Fit", 10, 7, tt.axis)

			var dim *DimensionError
			if !As(err, &dim) {
				t.Fatalf("expected DimensionError, got %T", err)
			}
			if dim.Expected != 10 || dim.Got != 7 {
				t.Errorf("unexpected fields: %+v", dim)
			}
			if !strings.Contains(err.Error(), tt.wantWord) {
				t.Errorf("message %q should mention %q", err.Error(), tt.wantWord)
			}
		})
	}
}

func TestUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("StandardScaler.Fit", "csr", []string{"dense"})

	var unsupported *UnsupportedFormatError
	if !As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %T", err)
	}
	if unsupported.Format != "csr" {
		t.Errorf("unexpected format: %q", unsupported.Format)
	}
	if !strings.Contains(err.Error(), "dense") {
		t.Errorf("message should list accepted formats: %v", err)
	}
}

func TestTypeError(t *testing.T) {
	err := NewTypeError("Fit", "a dense or sparse matrix", "nil")

	var typeErr *TypeError
	if !As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %T", err)
	}
	if !strings.Contains(err.Error(), "expected a dense or sparse matrix") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	err := NewModelError("Fit", "empty data", ErrEmptyData)

	if !Is(err, ErrEmptyData) {
		t.Errorf("ModelError should unwrap to ErrEmptyData: %v", err)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(func(w error) {})

	warning := NewDataConversionWarning("csr", "dense", "model prefers dense input")
	Warn(warning)

	if captured == nil {
		t.Fatal("warning handler not invoked")
	}
	var conv *DataConversionWarning
	if !As(captured, &conv) {
		t.Fatalf("expected DataConversionWarning, got %T", captured)
	}
	if conv.FromType != "csr" || conv.ToType != "dense" {
		t.Errorf("unexpected fields: %+v", conv)
	}
}

func TestWrapPreservesType(t *testing.T) {
	err := Wrap(NewNotFittedError("SVD", "Transform"), "pipeline: stage svd")

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Errorf("wrapping should preserve the typed error: %v", err)
	}
}
