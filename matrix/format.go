// Package matrix handles the two matrix representations mlapi models accept:
// dense (gonum mat.Dense) and sparse (james-bowman/sparse COO/CSR/CSC/DOK,
// which implement gonum's mat.Matrix). Each model declares which
// representations it accepts and which it prefers; Negotiate checks the
// supplied input against that declaration and converts it to the preferred
// representation before any computation.
package matrix

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/cran/mlapi/pkg/errors"
)

// Format identifies the concrete representation of a matrix value.
type Format int

const (
	// Unknown is any mat.Matrix implementation this package does not
	// recognize as one of the supported representations.
	Unknown Format = iota
	// Dense is a gonum dense matrix or vector.
	Dense
	// COO is coordinate-format sparse.
	COO
	// CSR is compressed-sparse-row format.
	CSR
	// CSC is compressed-sparse-column format.
	CSC
	// DOK is dictionary-of-keys sparse, used while building matrices.
	DOK
)

// String returns the conventional short name of the format.
func (f Format) String() string {
	switch f {
	case Dense:
		return "dense"
	case COO:
		return "coo"
	case CSR:
		return "csr"
	case CSC:
		return "csc"
	case DOK:
		return "dok"
	default:
		return "unknown"
	}
}

// IsSparse reports whether the format stores only nonzero entries.
func (f Format) IsSparse() bool {
	switch f {
	case COO, CSR, CSC, DOK:
		return true
	default:
		return false
	}
}

// Detect returns the representation of m. A nil matrix is Unknown.
func Detect(m mat.Matrix) Format {
	switch m.(type) {
	case nil:
		return Unknown
	case *mat.Dense, *mat.VecDense, *mat.SymDense, *mat.TriDense:
		return Dense
	case *sparse.COO:
		return COO
	case *sparse.CSR:
		return CSR
	case *sparse.CSC:
		return CSC
	case *sparse.DOK:
		return DOK
	default:
		return Unknown
	}
}

// Capabilities declares which representations a model accepts and which it
// prefers to compute on. Negotiate converts accepted-but-unpreferred input.
type Capabilities struct {
	AcceptsDense  bool
	AcceptsSparse bool
	Prefers       Format
}

// DenseOnly declares a model that accepts and computes on dense input only.
func DenseOnly() Capabilities {
	return Capabilities{AcceptsDense: true, Prefers: Dense}
}

// SparseOnly declares a model that accepts and computes on sparse input only.
func SparseOnly() Capabilities {
	return Capabilities{AcceptsSparse: true, Prefers: CSR}
}

// AnyFormat declares a model that accepts both representations and converts
// to the given preferred format.
func AnyFormat(prefers Format) Capabilities {
	return Capabilities{AcceptsDense: true, AcceptsSparse: true, Prefers: prefers}
}

// acceptedNames lists the accepted format classes for error messages.
func (c Capabilities) acceptedNames() []string {
	var names []string
	if c.AcceptsDense {
		names = append(names, "dense")
	}
	if c.AcceptsSparse {
		names = append(names, "sparse")
	}
	return names
}

// Negotiate validates the representation of X against caps and returns X
// converted to the preferred representation.
//
// A nil or unrecognized input fails with a TypeError. A recognized input
// whose class (dense/sparse) is not accepted fails with an
// UnsupportedFormatError. An accepted input in a different representation
// than the preferred one is converted, emitting a DataConversionWarning.
func Negotiate(op string, X mat.Matrix, caps Capabilities) (mat.Matrix, error) {
	f := Detect(X)
	if f == Unknown {
		got := "nil"
		if X != nil {
			got = fmt.Sprintf("%T", X)
		}
		return nil, errors.NewTypeError(op, "a dense or sparse matrix", got)
	}

	if f.IsSparse() && !caps.AcceptsSparse || !f.IsSparse() && !caps.AcceptsDense {
		return nil, errors.NewUnsupportedFormatError(op, f.String(), caps.acceptedNames())
	}

	if f == caps.Prefers {
		return X, nil
	}

	converted, err := convert(X, caps.Prefers)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: converting %s input", op, f)
	}
	errors.Warn(errors.NewDataConversionWarning(f.String(), caps.Prefers.String(),
		fmt.Sprintf("%s prefers %s input", op, caps.Prefers)))
	return converted, nil
}

// convert rewrites m in the target representation.
func convert(m mat.Matrix, target Format) (mat.Matrix, error) {
	switch target {
	case Dense:
		return ToDense(m), nil
	case CSR:
		return ToCSR(m), nil
	case CSC:
		return ToCSR(m).ToCSC(), nil
	case COO:
		return ToCSR(m).ToCOO(), nil
	default:
		return nil, errors.Newf("cannot convert to format %q", target)
	}
}

// ToDense returns m as a dense matrix, copying unless m already is one.
func ToDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}

// ToCSR returns m in compressed-sparse-row form, copying unless m already
// is one.
func ToCSR(m mat.Matrix) *sparse.CSR {
	switch s := m.(type) {
	case *sparse.CSR:
		return s
	case *sparse.COO:
		return s.ToCSR()
	case *sparse.CSC:
		return s.ToCSR()
	case *sparse.DOK:
		return s.ToCSR()
	}

	r, c := m.Dims()
	dok := sparse.NewDOK(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				dok.Set(i, j, v)
			}
		}
	}
	return dok.ToCSR()
}
