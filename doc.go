// Package mlapi establishes a naming and calling convention for machine
// learning model objects in Go, modeled on scikit-learn's estimator API.
//
// Three model categories share the convention:
//
//   - Estimators train on a feature matrix and a target (Fit) and produce
//     one prediction per row at inference time (Predict).
//   - Transformers map a feature matrix to a feature matrix with the same
//     row count (FitTransform, Transform).
//   - Decomposers factorize X ≈ P·Q, return P from FitTransform, retain the
//     components matrix Q and project new data onto it by least squares.
//
// Online variants of each category add PartialFit for batch-incremental
// training. The interfaces live in core/model; matrix-format negotiation
// between dense (gonum) and sparse (james-bowman/sparse) representations
// lives in package matrix; pipeline composition lives in package pipeline.
//
// # Quick start
//
//	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	reg := linear.NewRegression()
//	if err := reg.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	predictions, err := reg.Predict(mat.NewDense(2, 1, []float64{5, 6}))
//
// The same call can be written subject-first for left-to-right composition;
// the two forms are equivalent by construction:
//
//	err := mlapi.Fit(X, y, reg)
//	predictions, err := mlapi.Predict(XTest, reg)
//
// # Packages
//
//   - core/model: interface contracts and the fitted-state lifecycle
//   - matrix: dense/sparse format detection, negotiation and validation
//   - pipeline: stage chaining with row-identity checks and DOT export
//   - linear, preprocessing, decomposition: reference models for each
//     category
//   - metrics: regression metrics backing Score
//
// Models are not safe for concurrent mutation: callers must serialize
// Fit/PartialFit/Transform/Predict calls on the same instance.
package mlapi
