// Package xgboost implements a compact depth-wise gradient-boosting backend
// with a train(params, dmatrix, rounds) entry point mirroring the upstream
// XGBoost training API.
package xgboost

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// DMatrix is the data container consumed by Train and Booster.Predict. The
// label may be nil for prediction-only matrices.
type DMatrix struct {
	Data  *mat.Dense
	Label *mat.VecDense
}

// NewDMatrix copies X (and y, when non-nil) into a DMatrix.
func NewDMatrix(X mat.Matrix, y mat.Matrix) (*DMatrix, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("xgboost.NewDMatrix", "empty data", errors.ErrEmptyData)
	}

	dm := &DMatrix{Data: mat.DenseCopyOf(X)}

	if y != nil {
		ry, cy := y.Dims()
		if ry != r {
			return nil, errors.NewDimensionError("xgboost.NewDMatrix", r, ry, 0)
		}
		if cy != 1 {
			return nil, errors.NewValueError("xgboost.NewDMatrix", "label must be a column vector")
		}
		dm.Label = mat.NewVecDense(r, nil)
		for i := 0; i < r; i++ {
			dm.Label.SetVec(i, y.At(i, 0))
		}
	}

	return dm, nil
}

// NumRows returns the number of samples in the matrix.
func (dm *DMatrix) NumRows() int {
	r, _ := dm.Data.Dims()
	return r
}

// NumFeatures returns the number of feature columns in the matrix.
func (dm *DMatrix) NumFeatures() int {
	_, c := dm.Data.Dims()
	return c
}
