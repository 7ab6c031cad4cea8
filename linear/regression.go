// Package linear provides linear regression models: an ordinary
// least-squares estimator fitted in one shot and a stochastic-gradient
// variant that learns incrementally from batches.
package linear

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/core/model"
	"github.com/cran/mlapi/core/parallel"
	"github.com/cran/mlapi/matrix"
	"github.com/cran/mlapi/metrics"
	"github.com/cran/mlapi/pkg/errors"
	"github.com/cran/mlapi/pkg/log"
)

// Rows below this threshold are processed sequentially.
const parallelThreshold = 1000

// Regression is an ordinary least-squares linear regression model.
// Hyperparameters are fixed at construction; Fit solves the least-squares
// problem by QR decomposition and moves the model to the fitted state.
type Regression struct {
	State *model.State

	// FitIntercept controls whether an intercept term is learned.
	FitIntercept bool

	// Learned parameters, exported for gob encoding.
	Weights   *mat.VecDense
	Intercept float64
}

var regressionFormats = matrix.AnyFormat(matrix.Dense)

var (
	_ model.Regressor       = (*Regression)(nil)
	_ model.ParameterGetter = (*Regression)(nil)
)

// NewRegression creates an unfitted linear regression model.
func NewRegression(opts ...Option) *Regression {
	r := &Regression{
		State:        model.NewState(),
		FitIntercept: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit learns the regression weights from X and the target column vector y.
// Re-fitting resets previously learned state.
func (r *Regression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Regression.Fit")

	X, err = matrix.Negotiate("Regression.Fit", X, regressionFormats)
	if err != nil {
		return err
	}
	if y == nil {
		return errors.NewTypeError("Regression.Fit", "a column vector target", "nil")
	}
	if err := matrix.CheckNotEmpty("Regression.Fit", X); err != nil {
		return err
	}
	if err := matrix.CheckSameRows("Regression.Fit", X, y); err != nil {
		return err
	}
	if err := matrix.CheckColumnVector("Regression.Fit", y); err != nil {
		return err
	}

	r.State.Reset()

	rows, cols := X.Dims()
	args := append([]any{slog.String(log.ModelKey, "Regression")}, log.ShapeAttrs(rows, cols)...)
	slog.Debug("fitting linear regression", args...)

	design := X
	if r.FitIntercept {
		// Prepend a ones column for the intercept term.
		aug := mat.NewDense(rows, cols+1, nil)
		parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				aug.Set(i, 0, 1.0)
				for j := 0; j < cols; j++ {
					aug.Set(i, j+1, X.At(i, j))
				}
			}
		})
		design = aug
	}

	// Least-squares solve via QR; handles over-determined systems without
	// forming the normal equations.
	_, dc := design.Dims()
	solution := mat.NewDense(dc, 1, nil)
	if err := solution.Solve(design, y); err != nil {
		return errors.NewModelError("Regression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	r.Weights = mat.NewVecDense(cols, nil)
	if r.FitIntercept {
		r.Intercept = solution.At(0, 0)
		for j := 0; j < cols; j++ {
			r.Weights.SetVec(j, solution.At(j+1, 0))
		}
	} else {
		r.Intercept = 0
		for j := 0; j < cols; j++ {
			r.Weights.SetVec(j, solution.At(j, 0))
		}
	}

	r.State.SetDimensions(cols, rows)
	r.State.SetFitted()

	return nil
}

// Predict returns one prediction per row of X.
func (r *Regression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.State.RequireFitted("Regression", "Predict"); err != nil {
		return nil, err
	}

	X, err := matrix.Negotiate("Regression.Predict", X, regressionFormats)
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if err := r.State.CheckFeatures("Regression.Predict", cols); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := r.Intercept
			for j := 0; j < cols; j++ {
				pred += X.At(i, j) * r.Weights.AtVec(j)
			}
			predictions.Set(i, 0, pred)
		}
	})

	return predictions, nil
}

// IsFitted reports whether Fit has completed successfully.
func (r *Regression) IsFitted() bool {
	return r.State.IsFitted()
}

// Coefficients returns a copy of the learned weights.
func (r *Regression) Coefficients() []float64 {
	if r.Weights == nil {
		return nil
	}

	coefs := make([]float64, r.Weights.Len())
	for i := range coefs {
		coefs[i] = r.Weights.AtVec(i)
	}
	return coefs
}

// Score computes the coefficient of determination R² on (X, y).
func (r *Regression) Score(X, y mat.Matrix) (float64, error) {
	if err := r.State.RequireFitted("Regression", "Score"); err != nil {
		return 0, err
	}

	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// GetParams returns the model's hyperparameters.
func (r *Regression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": r.FitIntercept,
	}
}

// String returns a short description of the model and its state.
func (r *Regression) String() string {
	if !r.IsFitted() {
		return fmt.Sprintf("Regression(fit_intercept=%t)", r.FitIntercept)
	}
	nFeatures, _ := r.State.GetDimensions()
	return fmt.Sprintf("Regression(fit_intercept=%t, n_features=%d)", r.FitIntercept, nFeatures)
}
