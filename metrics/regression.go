// Package metrics provides regression evaluation metrics.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// column extracts the first column of an n×1 matrix, validating shape.
func column(op string, yTrue, yPred mat.Matrix) ([]float64, []float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty input")
	}
	if cTrue != 1 || cPred != 1 {
		return nil, nil, errors.NewValueError(op, "inputs must be column vectors (n×1 matrices)")
	}
	if rPred != rTrue {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}

	t := make([]float64, rTrue)
	p := make([]float64, rTrue)
	for i := 0; i < rTrue; i++ {
		t[i] = yTrue.At(i, 0)
		p[i] = yPred.At(i, 0)
	}
	return t, p, nil
}

// MSE computes the mean squared error between yTrue and yPred.
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := column("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range t {
		diff := t[i] - p[i]
		sum += diff * diff
	}
	return sum / float64(len(t)), nil
}

// RMSE computes the root mean squared error between yTrue and yPred.
func RMSE(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error between yTrue and yPred.
func MAE(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := column("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range t {
		sum += math.Abs(t[i] - p[i])
	}
	return sum / float64(len(t)), nil
}

// R2 computes the coefficient of determination.
// Returns 1 for a perfect fit and can be negative for a fit worse than the
// constant mean predictor.
func R2(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := column("R2", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var mean float64
	for _, v := range t {
		mean += v
	}
	mean /= float64(len(t))

	var ssRes, ssTot float64
	for i := range t {
		d := t[i] - p[i]
		ssRes += d * d
		m := t[i] - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("R2", "constant target has no variance")
	}
	return 1 - ssRes/ssTot, nil
}
