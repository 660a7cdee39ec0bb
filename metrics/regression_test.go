package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func col(values ...float64) *mat.Dense {
	return mat.NewDense(len(values), 1, values)
}

func TestMSE(t *testing.T) {
	yTrue := col(1, 2, 3)
	yPred := col(1, 2, 3)

	got, err := MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = MSE(col(0, 0), col(1, 3))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(col(0, 0), col(3, 4))
	require.NoError(t, err)
	assert.InDelta(t, 3.5355339059327378, got, 1e-12)
}

func TestMAE(t *testing.T) {
	got, err := MAE(col(1, 2, 3), col(2, 2, 1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestR2(t *testing.T) {
	yTrue := col(1, 2, 3, 4)

	got, err := R2(yTrue, yTrue)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	// Predicting the mean gives R2 = 0.
	got, err = R2(yTrue, col(2.5, 2.5, 2.5, 2.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	// A fit worse than the mean is negative.
	got, err = R2(yTrue, col(4, 3, 2, 1))
	require.NoError(t, err)
	assert.Less(t, got, 0.0)
}

func TestR2ConstantTarget(t *testing.T) {
	_, err := R2(col(5, 5, 5), col(5, 5, 5))
	require.Error(t, err)
}

func TestShapeValidation(t *testing.T) {
	_, err := MSE(col(1, 2), col(1, 2, 3))
	require.Error(t, err)

	_, err = MAE(mat.NewDense(3, 2, nil), mat.NewDense(3, 2, nil))
	require.Error(t, err)

	_, err = MSE(&mat.Dense{}, &mat.Dense{})
	require.Error(t, err)
}
