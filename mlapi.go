package mlapi

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/core/model"
)

// The subject-first call forms below re-dispatch to the model's own method
// and exist so multiple stages can be composed left to right without
// intermediate named variables. Each is a pure forwarding call, so its
// output is identical to the direct form for any input and fitted state.

// Fit trains m on (x, y). Equivalent to m.Fit(x, y).
func Fit(x, y mat.Matrix, m model.Fitter) error {
	return m.Fit(x, y)
}

// Predict returns m's predictions for x. Equivalent to m.Predict(x).
func Predict(x mat.Matrix, m model.Predictor) (mat.Matrix, error) {
	return m.Predict(x)
}

// Transform applies m's fitted transformation to x. Equivalent to
// m.Transform(x).
func Transform(x mat.Matrix, m model.Transformer) (mat.Matrix, error) {
	return m.Transform(x)
}

// FitTransform fits m on x and returns the transformed x. Equivalent to
// m.FitTransform(x).
func FitTransform(x mat.Matrix, m model.Transformer) (mat.Matrix, error) {
	return m.FitTransform(x)
}

// InverseTransform reverses m's transformation of x. Equivalent to
// m.InverseTransform(x).
func InverseTransform(x mat.Matrix, m model.InverseTransformer) (mat.Matrix, error) {
	return m.InverseTransform(x)
}

// PartialFit incrementally trains m on the batch (x, y). Equivalent to
// m.PartialFit(x, y).
func PartialFit(x, y mat.Matrix, m model.PartialFitter) error {
	return m.PartialFit(x, y)
}
