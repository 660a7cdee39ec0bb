// Package neighbors provides distance-based base models for stacking.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/core/model"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// KNNRegressor predicts the uniform-weight mean target of the k nearest
// training samples under euclidean distance. Fit only stores the training
// data; all work happens at prediction time.
type KNNRegressor struct {
	model.BaseEstimator

	K int // number of neighbors

	x *mat.Dense
	y *mat.VecDense
}

// NewKNNRegressor creates a KNNRegressor with the given neighbor count.
func NewKNNRegressor(k int) *KNNRegressor {
	if k < 1 {
		k = 5
	}
	return &KNNRegressor{K: k}
}

// CloneUntrained returns a fresh, unfitted copy carrying the same k.
func (knn *KNNRegressor) CloneUntrained() model.Estimator {
	return NewKNNRegressor(knn.K)
}

// Fit stores the training data.
func (knn *KNNRegressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("KNNRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("KNNRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("KNNRegressor.Fit", "y must be a column vector")
	}

	knn.x = mat.DenseCopyOf(X)
	knn.y = mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		knn.y.SetVec(i, y.At(i, 0))
	}

	knn.SetFitted()
	return nil
}

// Predict returns the mean target of the k nearest training samples for each
// query row, as an n×1 matrix.
func (knn *KNNRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNNRegressor", "Predict")
	}

	nTrain, nFeatures := knn.x.Dims()
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("KNNRegressor.Predict", nFeatures, c, 1)
	}

	k := knn.K
	if k > nTrain {
		k = nTrain
	}

	type neighbor struct {
		dist float64
		idx  int
	}

	predictions := mat.NewDense(r, 1, nil)
	dists := make([]neighbor, nTrain)
	for i := 0; i < r; i++ {
		for t := 0; t < nTrain; t++ {
			var sum float64
			for j := 0; j < nFeatures; j++ {
				d := X.At(i, j) - knn.x.At(t, j)
				sum += d * d
			}
			dists[t] = neighbor{dist: math.Sqrt(sum), idx: t}
		}
		// Stable ordering keeps ties deterministic across runs.
		sort.SliceStable(dists, func(a, b int) bool {
			if dists[a].dist == dists[b].dist {
				return dists[a].idx < dists[b].idx
			}
			return dists[a].dist < dists[b].dist
		})

		var mean float64
		for t := 0; t < k; t++ {
			mean += knn.y.AtVec(dists[t].idx)
		}
		predictions.Set(i, 0, mean/float64(k))
	}
	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given data.
func (knn *KNNRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := knn.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	var mean float64
	for i := 0; i < r; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(r)

	var ssRes, ssTot float64
	for i := 0; i < r; i++ {
		d := y.At(i, 0) - pred.At(i, 0)
		ssRes += d * d
		m := y.At(i, 0) - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("KNNRegressor.Score", "constant target has no variance")
	}
	return 1 - ssRes/ssTot, nil
}
