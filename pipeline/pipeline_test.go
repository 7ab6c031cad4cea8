package pipeline_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/decomposition"
	"github.com/cran/mlapi/linear"
	"github.com/cran/mlapi/pipeline"
	"github.com/cran/mlapi/pkg/errors"
	"github.com/cran/mlapi/preprocessing"
)

func init() {
	errors.SetWarningHandler(func(error) {})
}

func regressionData(t *testing.T) (*mat.Dense, *mat.Dense) {
	t.Helper()
	rng := rand.New(rand.NewSource(11))

	X := mat.NewDense(100, 10, nil)
	y := mat.NewDense(100, 1, nil)
	for i := 0; i < 100; i++ {
		for j := 0; j < 10; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y.Set(i, 0, 2*X.At(i, 0)-X.At(i, 3)+0.01*rng.NormFloat64())
	}
	return X, y
}

func TestNewValidation(t *testing.T) {
	_, err := pipeline.New()
	require.Error(t, err, "empty pipeline must be rejected")

	_, err = pipeline.New(
		pipeline.NamedStage("regress", linear.NewRegression()),
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
	)
	require.Error(t, err, "a non-transformer intermediate stage must be rejected")

	_, err = pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
	)
	require.Error(t, err, "duplicate stage names must be rejected")

	_, err = pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("regress", linear.NewRegression()),
	)
	require.NoError(t, err)
}

func TestFitPredict(t *testing.T) {
	X, y := regressionData(t)

	pipe, err := pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("svd", decomposition.NewTruncatedSVD(5)),
		pipeline.NamedStage("regress", linear.NewRegression()),
	)
	require.NoError(t, err)

	assert.False(t, pipe.IsFitted())

	require.NoError(t, pipe.Fit(X, y))
	assert.True(t, pipe.IsFitted())

	pred, err := pipe.Predict(X)
	require.NoError(t, err)

	r, c := pred.Dims()
	assert.Equal(t, 100, r, "one prediction per input row")
	assert.Equal(t, 1, c)
}

func TestPredictBeforeFit(t *testing.T) {
	X, _ := regressionData(t)

	pipe, err := pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("regress", linear.NewRegression()),
	)
	require.NoError(t, err)

	_, err = pipe.Predict(X)
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted), "expected NotFittedError, got %v", err)
}

func TestTransformerPipeline(t *testing.T) {
	X, _ := regressionData(t)

	pipe, err := pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("svd", decomposition.NewTruncatedSVD(2)),
	)
	require.NoError(t, err)

	fitted, err := pipe.FitTransform(X)
	require.NoError(t, err)

	r, c := fitted.Dims()
	assert.Equal(t, 100, r)
	assert.Equal(t, 2, c)

	applied, err := pipe.Transform(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(fitted, applied, 1e-8),
		"Transform after FitTransform on the same data must reproduce the output")
}

func TestPredictRequiresPredictorFinalStage(t *testing.T) {
	X, _ := regressionData(t)

	pipe, err := pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("svd", decomposition.NewTruncatedSVD(2)),
	)
	require.NoError(t, err)
	require.NoError(t, pipe.Fit(X, nil))

	_, err = pipe.Predict(X)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a predictor")
}

func TestErrorNamesStage(t *testing.T) {
	X, y := regressionData(t)

	pipe, err := pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("regress", linear.NewRegression()),
	)
	require.NoError(t, err)
	require.NoError(t, pipe.Fit(X, y))

	// Wrong feature count surfaces the failing stage by name.
	_, err = pipe.Predict(mat.NewDense(5, 3, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"scale"`)
}

func TestDOT(t *testing.T) {
	pipe, err := pipeline.New(
		pipeline.NamedStage("scale", preprocessing.NewStandardScalerDefault()),
		pipeline.NamedStage("svd", decomposition.NewTruncatedSVD(2)),
		pipeline.NamedStage("regress", linear.NewRegression()),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pipe.DOT(&buf))

	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "scale")
	assert.Contains(t, out, "svd")
	assert.Contains(t, out, "regress")
}
