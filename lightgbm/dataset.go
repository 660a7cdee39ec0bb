package lightgbm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// Dataset is the data container consumed by Train and Model.Predict. The
// label may be nil for prediction-only datasets.
type Dataset struct {
	Data  *mat.Dense
	Label *mat.VecDense
}

// NewDataset copies X (and y, when non-nil) into a Dataset.
func NewDataset(X mat.Matrix, y mat.Matrix) (*Dataset, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("lightgbm.NewDataset", "empty data", errors.ErrEmptyData)
	}

	ds := &Dataset{Data: mat.DenseCopyOf(X)}

	if y != nil {
		ry, cy := y.Dims()
		if ry != r {
			return nil, errors.NewDimensionError("lightgbm.NewDataset", r, ry, 0)
		}
		if cy != 1 {
			return nil, errors.NewValueError("lightgbm.NewDataset", "label must be a column vector")
		}
		ds.Label = mat.NewVecDense(r, nil)
		for i := 0; i < r; i++ {
			ds.Label.SetVec(i, y.At(i, 0))
		}
	}

	return ds, nil
}

// NumRows returns the number of samples in the dataset.
func (ds *Dataset) NumRows() int {
	r, _ := ds.Data.Dims()
	return r
}

// NumFeatures returns the number of feature columns in the dataset.
func (ds *Dataset) NumFeatures() int {
	_, c := ds.Data.Dims()
	return c
}
