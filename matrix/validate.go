package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/pkg/errors"
)

// CheckNotEmpty returns an error if X has zero rows or zero columns.
func CheckNotEmpty(op string, X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return nil
}

// CheckSameRows returns a DimensionError if X and y disagree on row count.
// This catches a feature matrix paired with a target of the wrong length.
func CheckSameRows(op string, X, y mat.Matrix) error {
	rx, _ := X.Dims()
	ry, _ := y.Dims()
	if rx != ry {
		return errors.NewDimensionError(op, rx, ry, 0)
	}
	return nil
}

// CheckColumnVector returns a ValueError if y is not a single-column matrix.
func CheckColumnVector(op string, y mat.Matrix) error {
	_, c := y.Dims()
	if c != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	return nil
}

// CheckCols returns a DimensionError if X does not have want columns.
func CheckCols(op string, X mat.Matrix, want int) error {
	_, c := X.Dims()
	if c != want {
		return errors.NewDimensionError(op, want, c, 1)
	}
	return nil
}
