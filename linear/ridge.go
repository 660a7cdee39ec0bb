package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/core/model"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// Ridge is an L2-regularized linear regression model fitted by the
// regularized normal equations w = (X^T X + αI)^{-1} X^T y. The intercept is
// not penalized.
type Ridge struct {
	model.BaseEstimator

	Alpha     float64       // regularization strength
	Weights   *mat.VecDense // learned coefficients
	Intercept float64       // learned intercept
	NFeatures int           // number of features seen during fit
}

// NewRidge creates a Ridge model with the given regularization strength.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

// CloneUntrained returns a fresh, unfitted copy carrying the same alpha.
func (rd *Ridge) CloneUntrained() model.Estimator {
	return NewRidge(rd.Alpha)
}

// Fit trains the model on X and the column vector y.
func (rd *Ridge) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("Ridge.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}
	if rd.Alpha < 0 {
		return errors.NewValueError("Ridge.Fit", "alpha must be non-negative")
	}

	rd.NFeatures = c

	XWithIntercept := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		XWithIntercept.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			XWithIntercept.Set(i, j+1, X.At(i, j))
		}
	}

	var XT mat.Dense
	XT.CloneFrom(XWithIntercept.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XWithIntercept)

	// Add α on the diagonal, skipping the intercept position.
	for j := 1; j <= c; j++ {
		XTX.Set(j, j, XTX.At(j, j)+rd.Alpha)
	}

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	rd.Intercept = weights.AtVec(0)
	rd.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		rd.Weights.SetVec(i, weights.AtVec(i+1))
	}

	rd.SetFitted()
	return nil
}

// Predict returns predictions y = X*w + intercept as an n×1 matrix.
func (rd *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rd.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	r, c := X.Dims()
	if c != rd.NFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", rd.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := rd.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * rd.Weights.AtVec(j)
		}
		predictions.Set(i, 0, sum)
	}
	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given data.
func (rd *Ridge) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rd.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2Score(y, pred)
}
