package linear

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/core/model"
	"github.com/cran/mlapi/matrix"
	"github.com/cran/mlapi/metrics"
	"github.com/cran/mlapi/pkg/errors"
	"github.com/cran/mlapi/pkg/log"
)

// SGDRegressor is a linear regression model trained by stochastic gradient
// descent on squared loss. It is the online variant of Regression:
// PartialFit may be called repeatedly with successive batches and updates
// the existing weights instead of resetting them. The learning rate decays
// by inverse scaling, eta = eta0 / t^power.
type SGDRegressor struct {
	State *model.State

	// Hyperparameters, fixed at construction.
	Eta0    float64
	Power   float64
	MaxIter int
	Tol     float64

	// Learned parameters, exported for gob encoding.
	Weights   []float64
	Intercept float64

	// Training counters.
	NIter     int
	TotalStep int64
	LastLoss  float64
	Converged bool
}

var sgdFormats = matrix.AnyFormat(matrix.Dense)

var (
	_ model.IncrementalEstimator = (*SGDRegressor)(nil)
	_ model.Regressor            = (*SGDRegressor)(nil)
)

// NewSGDRegressor creates an unfitted SGD regressor with the scikit-learn
// default schedule (eta0 = 0.01, power = 0.25).
func NewSGDRegressor(opts ...SGDOption) *SGDRegressor {
	s := &SGDRegressor{
		State:   model.NewState(),
		Eta0:    0.01,
		Power:   0.25,
		MaxIter: 1000,
		Tol:     1e-3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PartialFit applies one pass of stochastic gradient descent over the batch.
// The first call fixes the feature count; later batches with a different
// column count fail with a DimensionError.
func (s *SGDRegressor) PartialFit(X, y mat.Matrix) error {
	X, err := matrix.Negotiate("SGDRegressor.PartialFit", X, sgdFormats)
	if err != nil {
		return err
	}
	if y == nil {
		return errors.NewTypeError("SGDRegressor.PartialFit", "a column vector target", "nil")
	}
	if err := matrix.CheckNotEmpty("SGDRegressor.PartialFit", X); err != nil {
		return err
	}
	if err := matrix.CheckSameRows("SGDRegressor.PartialFit", X, y); err != nil {
		return err
	}
	if err := matrix.CheckColumnVector("SGDRegressor.PartialFit", y); err != nil {
		return err
	}

	rows, cols := X.Dims()

	if !s.State.IsFitted() {
		s.Weights = make([]float64, cols)
		s.Intercept = 0
		s.State.SetDimensions(cols, rows)
		s.State.SetFitted()
	} else if err := s.State.CheckFeatures("SGDRegressor.PartialFit", cols); err != nil {
		return err
	}

	var lossSum float64
	for i := 0; i < rows; i++ {
		s.TotalStep++
		eta := s.Eta0 / math.Pow(float64(s.TotalStep), s.Power)

		pred := s.Intercept
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * s.Weights[j]
		}

		residual := pred - y.At(i, 0)
		lossSum += residual * residual

		for j := 0; j < cols; j++ {
			s.Weights[j] -= eta * residual * X.At(i, j)
		}
		s.Intercept -= eta * residual

		if math.IsNaN(s.Intercept) || math.IsInf(s.Intercept, 0) {
			return errors.NewNumericalInstabilityError("SGDRegressor.PartialFit",
				[]float64{eta, residual, s.Intercept}, s.NIter)
		}
	}

	s.NIter++
	s.LastLoss = lossSum / float64(rows)

	return nil
}

// Fit trains from scratch: it resets the model and runs up to MaxIter epochs
// of PartialFit over the full data, stopping early when the epoch loss
// improves by less than Tol. A ConvergenceWarning is emitted when MaxIter
// epochs pass without converging.
func (s *SGDRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "SGDRegressor.Fit")

	X, err = matrix.Negotiate("SGDRegressor.Fit", X, sgdFormats)
	if err != nil {
		return err
	}

	s.Reset()

	rows, cols := X.Dims()
	slog.Debug("fitting SGD regressor",
		slog.String(log.ModelKey, "SGDRegressor"),
		slog.Int(log.RowsKey, rows), slog.Int(log.ColsKey, cols),
		slog.Int("max_iter", s.MaxIter))

	prevLoss := math.Inf(1)
	for epoch := 0; epoch < s.MaxIter; epoch++ {
		if err := s.PartialFit(X, y); err != nil {
			return err
		}

		if math.Abs(prevLoss-s.LastLoss) < s.Tol {
			s.Converged = true
			return nil
		}
		prevLoss = s.LastLoss
	}

	errors.Warn(errors.NewConvergenceWarning("SGDRegressor", s.MaxIter, ""))
	return nil
}

// Predict returns one prediction per row of X.
func (s *SGDRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := s.State.RequireFitted("SGDRegressor", "Predict"); err != nil {
		return nil, err
	}

	X, err := matrix.Negotiate("SGDRegressor.Predict", X, sgdFormats)
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if err := s.State.CheckFeatures("SGDRegressor.Predict", cols); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := s.Intercept
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * s.Weights[j]
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Reset returns the model to the unfitted state.
func (s *SGDRegressor) Reset() {
	s.State.Reset()
	s.Weights = nil
	s.Intercept = 0
	s.NIter = 0
	s.TotalStep = 0
	s.LastLoss = 0
	s.Converged = false
}

// IsFitted reports whether at least one batch has been fitted.
func (s *SGDRegressor) IsFitted() bool {
	return s.State.IsFitted()
}

// NIterations returns the number of PartialFit calls applied so far.
func (s *SGDRegressor) NIterations() int {
	return s.NIter
}

// Score computes the coefficient of determination R² on (X, y).
func (s *SGDRegressor) Score(X, y mat.Matrix) (float64, error) {
	if err := s.State.RequireFitted("SGDRegressor", "Score"); err != nil {
		return 0, err
	}

	yPred, err := s.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// GetParams returns the model's hyperparameters.
func (s *SGDRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"eta0":     s.Eta0,
		"power_t":  s.Power,
		"max_iter": s.MaxIter,
		"tol":      s.Tol,
	}
}

// String returns a short description of the model and its state.
func (s *SGDRegressor) String() string {
	return fmt.Sprintf("SGDRegressor(eta0=%g, max_iter=%d, fitted=%t)", s.Eta0, s.MaxIter, s.IsFitted())
}
