// Package decomposition provides matrix factorization models. A decomposer
// factors X ≈ P·Q, returns the factor matrix P from FitTransform and retains
// the components matrix Q; Transform projects new data onto Q by least
// squares, so the projection always reflects the data it is given.
package decomposition

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/core/model"
	"github.com/cran/mlapi/matrix"
	"github.com/cran/mlapi/pkg/errors"
	"github.com/cran/mlapi/pkg/log"
)

// TruncatedSVD performs dimensionality reduction by truncated singular value
// decomposition. Unlike PCA it does not center the data, which keeps sparse
// input usable.
//
// FitTransform factorizes X with a thin SVD and returns P = U_k·Σ_k (rows ×
// components); the components matrix Q = V_kᵀ (components × features) is
// retained for projecting new data.
type TruncatedSVD struct {
	State *model.State

	// NComponents is the target rank k, fixed at construction.
	NComponents int

	// Learned state, exported for gob encoding.
	Q              *mat.Dense
	SingularValues []float64
}

var svdFormats = matrix.AnyFormat(matrix.Dense)

var _ model.Decomposer = (*TruncatedSVD)(nil)

// NewTruncatedSVD creates an unfitted truncated SVD with the given rank.
func NewTruncatedSVD(nComponents int) *TruncatedSVD {
	return &TruncatedSVD{
		State:       model.NewState(),
		NComponents: nComponents,
	}
}

// FitTransform factorizes X and returns the factor matrix P (rows ×
// NComponents). It moves the model to the fitted state, replacing any
// previously learned components.
func (t *TruncatedSVD) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "TruncatedSVD.FitTransform")

	X, err = matrix.Negotiate("TruncatedSVD.FitTransform", X, svdFormats)
	if err != nil {
		return nil, err
	}
	if err := matrix.CheckNotEmpty("TruncatedSVD.FitTransform", X); err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	if t.NComponents < 1 {
		return nil, errors.NewValidationError("n_components", "must be at least 1", t.NComponents)
	}
	minDim := rows
	if cols < minDim {
		minDim = cols
	}
	if t.NComponents > minDim {
		return nil, errors.NewValidationError("n_components",
			fmt.Sprintf("must be at most min(rows, cols) = %d", minDim), t.NComponents)
	}

	t.Reset()

	slog.Debug("factorizing",
		slog.String(log.ModelKey, "TruncatedSVD"),
		slog.Int(log.RowsKey, rows), slog.Int(log.ColsKey, cols),
		slog.Int("n_components", t.NComponents))

	var svd mat.SVD
	if ok := svd.Factorize(matrix.ToDense(X), mat.SVDThin); !ok {
		return nil, errors.NewModelError("TruncatedSVD.FitTransform", "factorization failed", nil)
	}

	values := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	k := t.NComponents

	// P = U_k · Σ_k
	p := mat.NewDense(rows, k, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < k; j++ {
			p.Set(i, j, u.At(i, j)*values[j])
		}
	}

	// Q = V_kᵀ
	t.Q = mat.NewDense(k, cols, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < cols; j++ {
			t.Q.Set(i, j, v.At(j, i))
		}
	}

	t.SingularValues = values[:k]
	t.State.SetDimensions(cols, rows)
	t.State.SetFitted()

	return p, nil
}

// Transform projects X onto the stored components: it solves the
// least-squares problem min ‖X − P'·Q‖ for P' rather than returning the
// factor matrix cached at fit time, so the result depends on the data
// passed in. X must have the same column count as Q.
func (t *TruncatedSVD) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "TruncatedSVD.Transform")

	if err := t.State.RequireFitted("TruncatedSVD", "Transform"); err != nil {
		return nil, err
	}

	X, err = matrix.Negotiate("TruncatedSVD.Transform", X, svdFormats)
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	_, qCols := t.Q.Dims()
	if cols != qCols {
		return nil, errors.NewDimensionError("TruncatedSVD.Transform", qCols, cols, 1)
	}

	// Solve Qᵀ·P'ᵀ = Xᵀ in the least-squares sense. Qᵀ is features ×
	// components, so gonum uses a QR solve for the over-determined system.
	a := mat.DenseCopyOf(t.Q.T())
	b := mat.DenseCopyOf(matrix.ToDense(X).T())

	pt := mat.NewDense(t.NComponents, rows, nil)
	if err := pt.Solve(a, b); err != nil {
		return nil, errors.NewModelError("TruncatedSVD.Transform", "singular components matrix", errors.ErrSingularMatrix)
	}

	return mat.DenseCopyOf(pt.T()), nil
}

// Components returns the retained components matrix Q (components ×
// features), or nil before fitting.
func (t *TruncatedSVD) Components() mat.Matrix {
	if t.Q == nil {
		return nil
	}
	return t.Q
}

// ExplainedVariance returns the variance explained by each retained
// component, σ²/(n−1) for the n training rows.
func (t *TruncatedSVD) ExplainedVariance() []float64 {
	if !t.IsFitted() {
		return nil
	}
	_, nSamples := t.State.GetDimensions()
	if nSamples < 2 {
		return nil
	}

	variances := make([]float64, len(t.SingularValues))
	for i, sv := range t.SingularValues {
		variances[i] = sv * sv / float64(nSamples-1)
	}
	return variances
}

// Reset returns the model to the unfitted state.
func (t *TruncatedSVD) Reset() {
	t.State.Reset()
	t.Q = nil
	t.SingularValues = nil
}

// IsFitted reports whether FitTransform has completed successfully.
func (t *TruncatedSVD) IsFitted() bool {
	return t.State.IsFitted()
}

// GetParams returns the model's hyperparameters.
func (t *TruncatedSVD) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_components": t.NComponents,
	}
}

// String returns a short description of the model and its state.
func (t *TruncatedSVD) String() string {
	return fmt.Sprintf("TruncatedSVD(n_components=%d, fitted=%t)", t.NComponents, t.IsFitted())
}
