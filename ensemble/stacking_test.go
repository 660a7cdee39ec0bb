package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/core/model"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// meanRegressor always predicts the mean of the targets it was fitted on.
type meanRegressor struct {
	mean   float64
	fitted bool
	fits   int
}

func (m *meanRegressor) Fit(_, y mat.Matrix) error {
	r, _ := y.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		sum += y.At(i, 0)
	}
	m.mean = sum / float64(r)
	m.fitted = true
	m.fits++
	return nil
}

func (m *meanRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.fitted {
		return nil, errors.NewNotFittedError("meanRegressor", "Predict")
	}
	r, _ := X.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, m.mean)
	}
	return out, nil
}

// cloningMeanRegressor is a meanRegressor the stacker clones per fold.
type cloningMeanRegressor struct {
	meanRegressor
	clones int
}

func (m *cloningMeanRegressor) CloneUntrained() model.Estimator {
	m.clones++
	return &meanRegressor{}
}

// failingModel fails on Fit.
type failingModel struct{}

func (m *failingModel) Fit(_, _ mat.Matrix) error {
	return errors.New("fit exploded")
}

func (m *failingModel) Predict(_ mat.Matrix) (mat.Matrix, error) {
	return nil, errors.New("unreachable")
}

// countingBackend trains models that predict the ordinal of their Train call,
// making fold attribution visible in the outputs.
type countingBackend struct {
	trainCalls int
}

type countingDataset struct {
	rows int
}

type countingModel struct {
	value float64
}

func (b *countingBackend) Name() string { return "counting" }

func (b *countingBackend) NewDataset(X, _ mat.Matrix) (Dataset, error) {
	r, _ := X.Dims()
	return &countingDataset{rows: r}, nil
}

func (b *countingBackend) Train(_ map[string]interface{}, _ Dataset, _ int) (BoostedModel, error) {
	b.trainCalls++
	return &countingModel{value: float64(b.trainCalls)}, nil
}

func (m *countingModel) Predict(data Dataset) ([]float64, error) {
	ds := data.(*countingDataset)
	out := make([]float64, ds.rows)
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

// foldMeanBackend trains models that predict the mean of the fold's training
// targets, the boosting analog of meanRegressor.
type foldMeanBackend struct{}

type labeledDataset struct {
	rows int
	mean float64
	hasY bool
}

type foldMeanModel struct {
	value float64
}

func (b *foldMeanBackend) Name() string { return "foldmean" }

func (b *foldMeanBackend) NewDataset(X, y mat.Matrix) (Dataset, error) {
	r, _ := X.Dims()
	ds := &labeledDataset{rows: r}
	if y != nil {
		ry, _ := y.Dims()
		var sum float64
		for i := 0; i < ry; i++ {
			sum += y.At(i, 0)
		}
		ds.mean = sum / float64(ry)
		ds.hasY = true
	}
	return ds, nil
}

func (b *foldMeanBackend) Train(_ map[string]interface{}, train Dataset, _ int) (BoostedModel, error) {
	ds := train.(*labeledDataset)
	if !ds.hasY {
		return nil, errors.NewValueError("foldmean.Train", "unlabeled dataset")
	}
	return &foldMeanModel{value: ds.mean}, nil
}

func (m *foldMeanModel) Predict(data Dataset) ([]float64, error) {
	ds := data.(*labeledDataset)
	out := make([]float64, ds.rows)
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

// scenarioStacker builds the reference setup: 10 training rows with targets
// 1..10, 4 test rows, and a 2-fold partition with validation blocks [0,4]
// and [5,9].
func scenarioStacker(t *testing.T) *Stacker {
	t.Helper()

	XTrain := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		XTrain.Set(i, 0, float64(i))
		XTrain.Set(i, 1, float64(i)*2)
		y.Set(i, 0, float64(i+1))
	}
	XTest := mat.NewDense(4, 2, nil)
	for i := 0; i < 4; i++ {
		XTest.Set(i, 0, float64(100+i))
		XTest.Set(i, 1, float64(200+i))
	}

	folds := []Fold{
		{TrainIndices: []int{5, 6, 7, 8, 9}, ValIndices: []int{0, 1, 2, 3, 4}},
		{TrainIndices: []int{0, 1, 2, 3, 4}, ValIndices: []int{5, 6, 7, 8, 9}},
	}

	s, err := NewStacker(XTrain, XTest, y, folds)
	require.NoError(t, err)
	return s
}

// TestStackModelsScenario checks the reference scenario: each out-of-fold
// prediction equals the mean of the complementary fold's targets, and the
// test side averages the two fold means.
func TestStackModelsScenario(t *testing.T) {
	s := scenarioStacker(t)

	sTrain, sTest, err := s.StackModels([]model.Estimator{&meanRegressor{}})
	require.NoError(t, err)

	// mean(targets[5..9]) = 8, mean(targets[0..4]) = 3.
	for i := 0; i < 5; i++ {
		assert.InDelta(t, 8.0, sTrain.At(i, 0), 1e-12)
	}
	for i := 5; i < 10; i++ {
		assert.InDelta(t, 3.0, sTrain.At(i, 0), 1e-12)
	}
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 5.5, sTest.At(i, 0), 1e-12)
	}
}

// TestStackBoosterScenario checks the same scenario through the boosting
// path.
func TestStackBoosterScenario(t *testing.T) {
	s := scenarioStacker(t)

	sTrain, sTest, err := s.StackBooster(&foldMeanBackend{}, nil, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.InDelta(t, 8.0, sTrain.AtVec(i), 1e-12)
	}
	for i := 5; i < 10; i++ {
		assert.InDelta(t, 3.0, sTrain.AtVec(i), 1e-12)
	}
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 5.5, sTest.AtVec(i), 1e-12)
	}
}

// TestStackBoosterCoverage verifies every training position is written by
// exactly the fold that held it out, using a backend whose fold models
// predict their training ordinal.
func TestStackBoosterCoverage(t *testing.T) {
	nTrain, nTest := 12, 3
	XTrain := mat.NewDense(nTrain, 1, nil)
	XTest := mat.NewDense(nTest, 1, nil)
	y := mat.NewDense(nTrain, 1, nil)
	for i := 0; i < nTrain; i++ {
		XTrain.Set(i, 0, float64(i))
		y.Set(i, 0, float64(i))
	}

	folds := NewKFold(3, false, 0).Split(nTrain)
	s, err := NewStacker(XTrain, XTest, y, folds)
	require.NoError(t, err)

	backend := &countingBackend{}
	sTrain, sTest, err := s.StackBooster(backend, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, backend.trainCalls)

	// Fold i's model predicts i+1, so each validation block carries its
	// fold ordinal and no position is left at zero or overwritten.
	for i, fold := range folds {
		for _, idx := range fold.ValIndices {
			assert.Equal(t, float64(i+1), sTrain.AtVec(idx))
		}
	}

	// Averaging law: mean of 1, 2, 3.
	for i := 0; i < nTest; i++ {
		assert.InDelta(t, 2.0, sTest.AtVec(i), 1e-12)
	}
}

// TestStackModelsShapes verifies output dimensions follow the model count.
func TestStackModelsShapes(t *testing.T) {
	s := scenarioStacker(t)

	sTrain, sTest, err := s.StackModels([]model.Estimator{
		&meanRegressor{}, &meanRegressor{}, &meanRegressor{},
	})
	require.NoError(t, err)

	r, c := sTrain.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 3, c)

	r, c = sTest.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)
}

// TestStackModelsDeterminism verifies repeated runs are bit-identical for a
// deterministic base model and a fixed partition.
func TestStackModelsDeterminism(t *testing.T) {
	s := scenarioStacker(t)

	train1, test1, err := s.StackModels([]model.Estimator{&meanRegressor{}})
	require.NoError(t, err)
	train2, test2, err := s.StackModels([]model.Estimator{&meanRegressor{}})
	require.NoError(t, err)

	assert.True(t, mat.Equal(train1, train2))
	assert.True(t, mat.Equal(test1, test2))
}

// TestStackModelsSingleFold documents the degenerate single-fold case:
// out-of-fold predictions equal in-fold predictions.
func TestStackModelsSingleFold(t *testing.T) {
	XTrain := mat.NewDense(6, 1, nil)
	XTest := mat.NewDense(2, 1, nil)
	y := mat.NewDense(6, 1, nil)
	all := make([]int, 6)
	for i := 0; i < 6; i++ {
		XTrain.Set(i, 0, float64(i))
		y.Set(i, 0, float64(i))
		all[i] = i
	}

	folds := []Fold{{TrainIndices: all, ValIndices: all}}
	s, err := NewStacker(XTrain, XTest, y, folds)
	require.NoError(t, err)

	sTrain, sTest, err := s.StackModels([]model.Estimator{&meanRegressor{}})
	require.NoError(t, err)

	// Global mean of 0..5 everywhere.
	for i := 0; i < 6; i++ {
		assert.InDelta(t, 2.5, sTrain.At(i, 0), 1e-12)
	}
	for i := 0; i < 2; i++ {
		assert.InDelta(t, 2.5, sTest.At(i, 0), 1e-12)
	}
}

// TestStackModelsCloning verifies a Cloner base model is never fitted itself:
// each fold trains a fresh clone.
func TestStackModelsCloning(t *testing.T) {
	s := scenarioStacker(t)

	m := &cloningMeanRegressor{}
	_, _, err := s.StackModels([]model.Estimator{m})
	require.NoError(t, err)

	assert.Equal(t, 2, m.clones)
	assert.Equal(t, 0, m.fits)
	assert.False(t, m.fitted)
}

// TestStackModelsRefitFallback verifies a model without CloneUntrained is
// refit in place once per fold.
func TestStackModelsRefitFallback(t *testing.T) {
	s := scenarioStacker(t)

	m := &meanRegressor{}
	_, _, err := s.StackModels([]model.Estimator{m})
	require.NoError(t, err)

	assert.Equal(t, 2, m.fits)
}

// TestStackModelsFitErrorPropagates verifies a base model failure aborts the
// operation with the model's error.
func TestStackModelsFitErrorPropagates(t *testing.T) {
	s := scenarioStacker(t)

	_, _, err := s.StackModels([]model.Estimator{&failingModel{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fit exploded")
}

// TestStackModelsEmpty verifies an empty model list is rejected.
func TestStackModelsEmpty(t *testing.T) {
	s := scenarioStacker(t)

	_, _, err := s.StackModels(nil)
	require.Error(t, err)

	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

// TestNewStackerValidation verifies shape checks at construction.
func TestNewStackerValidation(t *testing.T) {
	X := mat.NewDense(4, 2, nil)
	XTest := mat.NewDense(2, 2, nil)
	folds := []Fold{{TrainIndices: []int{0, 1}, ValIndices: []int{2, 3}}}

	// Mismatched target length.
	_, err := NewStacker(X, XTest, mat.NewDense(3, 1, nil), folds)
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	// Mismatched feature count.
	_, err = NewStacker(X, mat.NewDense(2, 3, nil), mat.NewDense(4, 1, nil), folds)
	require.Error(t, err)
	assert.True(t, errors.As(err, &dimErr))

	// Empty partition.
	_, err = NewStacker(X, XTest, mat.NewDense(4, 1, nil), nil)
	require.Error(t, err)
}

// TestStackerInputsCopied verifies mutating the caller's matrices after
// construction does not change stacking results.
func TestStackerInputsCopied(t *testing.T) {
	XTrain := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	XTest := mat.NewDense(1, 1, []float64{9})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	folds := []Fold{
		{TrainIndices: []int{2, 3}, ValIndices: []int{0, 1}},
		{TrainIndices: []int{0, 1}, ValIndices: []int{2, 3}},
	}

	s, err := NewStacker(XTrain, XTest, y, folds)
	require.NoError(t, err)

	y.Set(0, 0, 1000)
	XTrain.Set(0, 0, 1000)

	sTrain, _, err := s.StackModels([]model.Estimator{&meanRegressor{}})
	require.NoError(t, err)

	// Row 0 is predicted from the untouched copy of targets 3 and 4.
	assert.InDelta(t, 3.5, sTrain.At(0, 0), 1e-12)
}
