// Package model defines the calling convention every mlapi model follows.
//
// Models fall into three categories: estimators (Fit then Predict),
// transformers (FitTransform then Transform) and decomposers (transformers
// that factorize the input and retain a components matrix). Each capability
// is a separate interface so that a pipeline, or any other caller, can
// require exactly the operations it needs. Online variants add PartialFit
// for batch-incremental training.
//
// Every model is constructed with fixed hyperparameters and starts unfitted;
// Fit, FitTransform or the first PartialFit moves it to the fitted state,
// which gates the application-phase methods. Models own their learned
// parameters exclusively and are not safe for concurrent mutation; callers
// must serialize calls on the same instance.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that can be trained on a feature matrix X and an
// optional target y. Unsupervised models accept a nil y.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor produces one prediction row per input row. Predict returns a
// NotFittedError when called before a successful fit.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// StateReporter exposes the fitted-state lifecycle.
type StateReporter interface {
	IsFitted() bool
}

// Estimator is the supervised-model contract: train on (X, y), then predict.
type Estimator interface {
	Fitter
	Predictor
	StateReporter
}

// Transformer maps a feature matrix to a feature matrix with the same row
// count and possibly different column count. FitTransform combines fitting
// and the first application in one call; Transform requires fitted state and
// must preserve row identity (row i of the output corresponds to row i of
// the input).
type Transformer interface {
	FitTransform(X mat.Matrix) (mat.Matrix, error)
	Transform(X mat.Matrix) (mat.Matrix, error)
	StateReporter
}

// InverseTransformer is a transformer whose mapping can be reversed.
type InverseTransformer interface {
	Transformer
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// Decomposer factorizes X ≈ P·Q. FitTransform returns the factor matrix P
// and retains the components matrix Q; Transform projects new data onto the
// stored components by least squares rather than returning a cached P, so
// the result depends on the new input.
type Decomposer interface {
	Transformer

	// Components returns the retained factor matrix Q (components × features),
	// or nil before fitting.
	Components() mat.Matrix
}

// PartialFitter supports batch-incremental training. PartialFit may be
// called repeatedly; each call updates the learned state in place instead of
// resetting it. The first call fixes the expected column count and later
// calls with a different column count fail with a DimensionError.
type PartialFitter interface {
	PartialFit(X, y mat.Matrix) error
}

// IncrementalEstimator is the online variant of Estimator.
type IncrementalEstimator interface {
	Estimator
	PartialFitter

	// NIterations returns the number of PartialFit calls applied so far.
	NIterations() int
}

// IncrementalTransformer is the online variant of Transformer.
type IncrementalTransformer interface {
	Transformer
	PartialFitter
}

// IncrementalDecomposer is the online variant of Decomposer. How successive
// batches are merged into the factorization is implementation-defined.
type IncrementalDecomposer interface {
	Decomposer
	PartialFitter
}

// Scorer computes the coefficient of determination R² of the prediction.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces a regression model implements.
type Regressor interface {
	Estimator
	Scorer
}

// ParameterGetter exposes a model's hyperparameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
