package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/pkg/errors"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1, 2, 3, 4},
			want:  0,
		},
		{
			name:  "constant offset",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2, 3, 4, 5},
			want:  1,
		},
		{
			name:  "mixed errors",
			yTrue: []float64{3, -0.5, 2, 7},
			yPred: []float64{2.5, 0.0, 2, 8},
			want:  0.375,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := MSE(yTrue, yPred)
			if err != nil {
				t.Fatalf("MSE returned error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MSE = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMSELengthMismatch(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewVecDense(2, []float64{1, 2})

	_, err := MSE(yTrue, yPred)

	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("DimensionError = %+v, want Expected 3 Got 2", dimErr)
	}
}

func TestRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{3, 4, 5, 6})

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE returned error: %v", err)
	}
	if math.Abs(got-2) > 1e-10 {
		t.Errorf("RMSE = %v, want 2", got)
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{3, -0.5, 2, 7})
	yPred := mat.NewVecDense(4, []float64{2.5, 0.0, 2, 8})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE returned error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-10 {
		t.Errorf("MAE = %v, want 0.5", got)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1, 2, 3, 4},
			want:  1,
		},
		{
			name:  "mean prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2.5, 2.5, 2.5, 2.5},
			want:  0,
		},
		{
			name:  "sklearn reference",
			yTrue: []float64{3, -0.5, 2, 7},
			yPred: []float64{2.5, 0.0, 2, 8},
			want:  0.9486081370449679,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := R2Score(yTrue, yPred)
			if err != nil {
				t.Fatalf("R2Score returned error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("R2Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestR2ScoreConstantTarget(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{5, 5, 5})
	yPred := mat.NewVecDense(3, []float64{4, 5, 6})

	_, err := R2Score(yTrue, yPred)

	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValueError for zero variance target, got %v", err)
	}
}

func TestMatrixVariants(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{3, -0.5, 2, 7})
	yPred := mat.NewDense(4, 1, []float64{2.5, 0.0, 2, 8})

	mse, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSEMatrix returned error: %v", err)
	}
	if math.Abs(mse-0.375) > 1e-10 {
		t.Errorf("MSEMatrix = %v, want 0.375", mse)
	}

	r2, err := R2ScoreMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2ScoreMatrix returned error: %v", err)
	}
	if math.Abs(r2-0.9486081370449679) > 1e-10 {
		t.Errorf("R2ScoreMatrix = %v, want ~0.9486", r2)
	}

	wide := mat.NewDense(4, 2, nil)
	if _, err := MSEMatrix(wide, wide); err == nil {
		t.Error("expected error for non column-vector input")
	}
}
