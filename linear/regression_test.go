package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	stackerrors "github.com/YuminosukeSato/stackgo/pkg/errors"
)

// linearData builds y = 2*x1 - x2 + 3 exactly.
func linearData(t *testing.T, n int) (*mat.Dense, *mat.Dense) {
	t.Helper()
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := float64(i % 7)
		x2 := float64(i%3) * 1.5
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		y.Set(i, 0, 2*x1-x2+3)
	}
	return X, y
}

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	X, y := linearData(t, 30)

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	require.True(t, lr.IsFitted())

	assert.InDelta(t, 2.0, lr.Weights.AtVec(0), 1e-8)
	assert.InDelta(t, -1.0, lr.Weights.AtVec(1), 1e-8)
	assert.InDelta(t, 3.0, lr.Intercept, 1e-8)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	assert.InDelta(t, y.At(0, 0), pred.At(0, 0), 1e-8)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-8)
}

func TestLinearRegressionPredictBeforeFit(t *testing.T) {
	lr := NewLinearRegression()
	_, err := lr.Predict(mat.NewDense(2, 2, nil))
	require.Error(t, err)

	var nf *stackerrors.NotFittedError
	assert.True(t, stackerrors.As(err, &nf))
}

func TestLinearRegressionFeatureMismatch(t *testing.T) {
	X, y := linearData(t, 20)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	_, err := lr.Predict(mat.NewDense(5, 3, nil))
	require.Error(t, err)

	var de *stackerrors.DimensionError
	assert.True(t, stackerrors.As(err, &de))
}

func TestLinearRegressionFitValidation(t *testing.T) {
	lr := NewLinearRegression()

	err := lr.Fit(mat.NewDense(4, 2, nil), mat.NewDense(3, 1, nil))
	require.Error(t, err)

	err = lr.Fit(mat.NewDense(4, 2, nil), mat.NewDense(4, 2, nil))
	require.Error(t, err)
}

func TestLinearRegressionCloneUntrained(t *testing.T) {
	X, y := linearData(t, 20)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	clone := lr.CloneUntrained()
	fresh, ok := clone.(*LinearRegression)
	require.True(t, ok)
	assert.False(t, fresh.IsFitted())
}

func TestRidgeShrinksTowardZero(t *testing.T) {
	X, y := linearData(t, 30)

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))

	rd := NewRidge(100.0)
	require.NoError(t, rd.Fit(X, y))
	require.True(t, rd.IsFitted())

	// Heavy regularization pulls coefficients toward zero.
	for j := 0; j < 2; j++ {
		assert.Less(t,
			abs(rd.Weights.AtVec(j)),
			abs(ols.Weights.AtVec(j))+1e-12,
		)
	}
}

func TestRidgeZeroAlphaMatchesOLS(t *testing.T) {
	X, y := linearData(t, 30)

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))

	rd := NewRidge(0)
	require.NoError(t, rd.Fit(X, y))

	assert.InDelta(t, ols.Weights.AtVec(0), rd.Weights.AtVec(0), 1e-8)
	assert.InDelta(t, ols.Weights.AtVec(1), rd.Weights.AtVec(1), 1e-8)
	assert.InDelta(t, ols.Intercept, rd.Intercept, 1e-8)
}

func TestRidgeNegativeAlpha(t *testing.T) {
	X, y := linearData(t, 20)
	err := NewRidge(-1).Fit(X, y)
	require.Error(t, err)
}

func TestRidgeCloneKeepsAlpha(t *testing.T) {
	rd := NewRidge(0.5)
	clone, ok := rd.CloneUntrained().(*Ridge)
	require.True(t, ok)
	assert.Equal(t, 0.5, clone.Alpha)
	assert.False(t, clone.IsFitted())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
