// Package linear provides linear base models for stacking.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/core/model"
	"github.com/YuminosukeSato/stackgo/core/parallel"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// LinearRegression is an ordinary least squares regression model fitted by
// the normal equations w = (X^T X)^{-1} X^T y.
type LinearRegression struct {
	model.BaseEstimator

	Weights   *mat.VecDense // learned coefficients
	Intercept float64       // learned intercept
	NFeatures int           // number of features seen during fit
}

// NewLinearRegression creates a new LinearRegression.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// CloneUntrained returns a fresh, unfitted copy of the model.
func (lr *LinearRegression) CloneUntrained() model.Estimator {
	return NewLinearRegression()
}

// Fit trains the model on X and the column vector y.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	// Prepend a column of ones for the intercept term.
	XWithIntercept := mat.NewDense(r, c+1, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	var XT mat.Dense
	XT.CloneFrom(XWithIntercept.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XWithIntercept)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Weights.SetVec(i, weights.AtVec(i+1))
	}

	lr.SetFitted()
	return nil
}

// Predict returns predictions y = X*w + intercept as an n×1 matrix.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := lr.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, sum)
	}
	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given data.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2Score(y, pred)
}

// r2Score computes R^2 between column vectors.
func r2Score(yTrue, yPred mat.Matrix) (float64, error) {
	r, _ := yTrue.Dims()
	if r == 0 {
		return 0, errors.NewValueError("r2Score", "empty input")
	}

	var mean float64
	for i := 0; i < r; i++ {
		mean += yTrue.At(i, 0)
	}
	mean /= float64(r)

	var ssRes, ssTot float64
	for i := 0; i < r; i++ {
		d := yTrue.At(i, 0) - yPred.At(i, 0)
		ssRes += d * d
		m := yTrue.At(i, 0) - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("r2Score", "constant target has no variance")
	}
	return 1 - ssRes/ssTot, nil
}
