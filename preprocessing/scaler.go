// Package preprocessing provides feature transformers.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/core/model"
	"github.com/cran/mlapi/matrix"
)

// Near-zero scales are clamped to 1 to avoid division by zero on constant
// features.
const minScale = 1e-8

var (
	_ model.IncrementalTransformer = (*StandardScaler)(nil)
	_ model.InverseTransformer     = (*StandardScaler)(nil)
)

// StandardScaler standardizes features to zero mean and unit variance.
// It is both a batch transformer (Fit/Transform/FitTransform) and an online
// one: PartialFit folds successive batches into the running statistics using
// the parallel variance merge of Chan et al.
//
// Centering requires materializing every entry, so a scaler with WithMean
// set accepts dense input only; with WithMean off, sparse input is accepted
// and densified for computation.
type StandardScaler struct {
	State *model.State

	// WithMean controls whether the mean is subtracted.
	WithMean bool

	// WithStd controls whether features are divided by their standard
	// deviation.
	WithStd bool

	// Running statistics, exported for gob encoding.
	Mean  []float64
	M2    []float64 // sum of squared deviations from the running mean
	Scale []float64
	Count int64
}

// NewStandardScaler creates a scaler with the given centering and scaling
// behavior.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		State:    model.NewState(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a scaler that both centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

func (s *StandardScaler) formats() matrix.Capabilities {
	if s.WithMean {
		return matrix.DenseOnly()
	}
	return matrix.AnyFormat(matrix.Dense)
}

// Fit computes the per-feature statistics from X. The target y is ignored;
// it is accepted so the scaler satisfies the common fitting signature.
// Re-fitting resets previously accumulated statistics.
func (s *StandardScaler) Fit(X, y mat.Matrix) error {
	s.Reset()
	return s.PartialFit(X, nil)
}

// PartialFit folds one batch into the running statistics. The first call
// fixes the feature count.
func (s *StandardScaler) PartialFit(X, _ mat.Matrix) error {
	X, err := matrix.Negotiate("StandardScaler.PartialFit", X, s.formats())
	if err != nil {
		return err
	}
	if err := matrix.CheckNotEmpty("StandardScaler.PartialFit", X); err != nil {
		return err
	}

	rows, cols := X.Dims()

	if !s.State.IsFitted() {
		s.Mean = make([]float64, cols)
		s.M2 = make([]float64, cols)
		s.Scale = make([]float64, cols)
		s.Count = 0
		s.State.SetDimensions(cols, 0)
		s.State.SetFitted()
	} else if err := s.State.CheckFeatures("StandardScaler.PartialFit", cols); err != nil {
		return err
	}

	// Batch statistics.
	batchMean := make([]float64, cols)
	batchM2 := make([]float64, cols)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		batchMean[j] = sum / float64(rows)

		var m2 float64
		for i := 0; i < rows; i++ {
			d := X.At(i, j) - batchMean[j]
			m2 += d * d
		}
		batchM2[j] = m2
	}

	// Chan et al. merge of (count, mean, M2) pairs.
	n1 := float64(s.Count)
	n2 := float64(rows)
	total := n1 + n2
	for j := 0; j < cols; j++ {
		delta := batchMean[j] - s.Mean[j]
		s.Mean[j] += delta * n2 / total
		s.M2[j] += batchM2[j] + delta*delta*n1*n2/total
	}
	s.Count += int64(rows)
	s.State.SetDimensions(cols, int(s.Count))

	for j := 0; j < cols; j++ {
		if s.WithStd {
			s.Scale[j] = math.Sqrt(s.M2[j] / float64(s.Count))
			if s.Scale[j] < minScale {
				s.Scale[j] = 1.0
			}
		} else {
			s.Scale[j] = 1.0
		}
	}

	return nil
}

// Transform standardizes X using the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.State.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	X, err := matrix.Negotiate("StandardScaler.Transform", X, s.formats())
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if err := s.State.CheckFeatures("StandardScaler.Transform", cols); err != nil {
		return nil, err
	}

	result := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			value := X.At(i, j)
			if s.WithMean {
				value -= s.Mean[j]
			}
			result.Set(i, j, value/s.Scale[j])
		}
	}

	return result, nil
}

// FitTransform fits the statistics on X and returns the standardized X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X, nil); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.State.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}

	X, err := matrix.Negotiate("StandardScaler.InverseTransform", X, s.formats())
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if err := s.State.CheckFeatures("StandardScaler.InverseTransform", cols); err != nil {
		return nil, err
	}

	result := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			value := X.At(i, j) * s.Scale[j]
			if s.WithMean {
				value += s.Mean[j]
			}
			result.Set(i, j, value)
		}
	}

	return result, nil
}

// Reset returns the scaler to the unfitted state.
func (s *StandardScaler) Reset() {
	s.State.Reset()
	s.Mean = nil
	s.M2 = nil
	s.Scale = nil
	s.Count = 0
}

// IsFitted reports whether statistics have been accumulated.
func (s *StandardScaler) IsFitted() bool {
	return s.State.IsFitted()
}

// GetParams returns the scaler's hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String returns a short description of the scaler and its state.
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _ := s.State.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, nFeatures)
}
