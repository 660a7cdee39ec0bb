// Package ensemble implements stacked generalization: out-of-fold
// predictions from base learners become input features for a second-stage
// model.
//
// The Stacker holds the training features, test features, training targets
// and a fold partition, and exposes two families of operations:
//
//   - StackBooster trains a fresh boosted-tree model per fold through a
//     Backend and yields one stacked column.
//   - StackModels runs any sequence of fit/predict base models and yields one
//     stacked column per model.
//
// In both cases every training-side prediction comes from a model that never
// saw that row during fitting, and test-side predictions are averaged across
// folds.
package ensemble

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/core/model"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
	"github.com/YuminosukeSato/stackgo/pkg/log"
)

// Stacker orchestrates out-of-fold stacking over a fixed dataset and fold
// partition. The dataset and partition are copied at construction and never
// mutated; every operation allocates fresh outputs.
type Stacker struct {
	xTrain *mat.Dense
	xTest  *mat.Dense
	y      *mat.VecDense
	folds  []Fold

	verbose bool
}

// StackerOption configures a Stacker.
type StackerOption func(*Stacker)

// WithVerbose enables diagnostic timing and progress output. It has no effect
// on any returned values.
func WithVerbose(verbose bool) StackerOption {
	return func(s *Stacker) {
		s.verbose = verbose
	}
}

// NewStacker copies the inputs to dense storage and validates their shapes:
// XTrain and y must have equal row counts and XTest must have the same
// feature count as XTrain. Fold indices are trusted; out-of-range indices
// surface as panics from the matrix layer.
func NewStacker(XTrain, XTest, y mat.Matrix, folds []Fold, opts ...StackerOption) (*Stacker, error) {
	rTrain, cTrain := XTrain.Dims()
	rTest, cTest := XTest.Dims()
	ry, cy := y.Dims()

	if rTrain == 0 || cTrain == 0 {
		return nil, errors.NewModelError("NewStacker", "empty training data", errors.ErrEmptyData)
	}
	if ry != rTrain {
		return nil, errors.NewDimensionError("NewStacker", rTrain, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewValueError("NewStacker", "y must be a column vector")
	}
	if cTest != cTrain {
		return nil, errors.NewDimensionError("NewStacker", cTrain, cTest, 1)
	}
	if len(folds) == 0 {
		return nil, errors.NewValueError("NewStacker", "fold partition must not be empty")
	}
	_ = rTest

	s := &Stacker{
		xTrain: mat.DenseCopyOf(XTrain),
		xTest:  mat.DenseCopyOf(XTest),
		folds:  make([]Fold, len(folds)),
	}
	copy(s.folds, folds)

	s.y = mat.NewVecDense(rTrain, nil)
	for i := 0; i < rTrain; i++ {
		s.y.SetVec(i, y.At(i, 0))
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NumTrainRows returns the number of training rows.
func (s *Stacker) NumTrainRows() int {
	r, _ := s.xTrain.Dims()
	return r
}

// NumTestRows returns the number of test rows.
func (s *Stacker) NumTestRows() int {
	r, _ := s.xTest.Dims()
	return r
}

// StackBooster runs the out-of-fold loop with a boosting backend: per fold it
// builds a trainable dataset from the fold's training slice, trains a fresh
// model for numBoostRound rounds with the given hyperparameters, predicts the
// held-out slice into the training output, and predicts the full test set
// into a per-fold column. The returned test vector is the per-row arithmetic
// mean over fold columns.
//
// Any backend error aborts the operation and propagates to the caller.
func (s *Stacker) StackBooster(backend Backend, params map[string]interface{}, numBoostRound int) (*mat.VecDense, *mat.VecDense, error) {
	defer log.NewTimer("stack_booster "+backend.Name(), s.verbose).Done()

	nTrain := s.NumTrainRows()
	nTest := s.NumTestRows()

	// The test container is backend-specific but fold-independent, so it
	// is built once up front.
	dtest, err := backend.NewDataset(s.xTest, nil)
	if err != nil {
		return nil, nil, err
	}

	sTrain := mat.NewVecDense(nTrain, nil)
	testPerFold := mat.NewDense(nTest, len(s.folds), nil)

	for i, fold := range s.folds {
		dtrain, err := backend.NewDataset(
			s.sliceRows(s.xTrain, fold.TrainIndices),
			s.sliceTargets(fold.TrainIndices),
		)
		if err != nil {
			return nil, nil, err
		}
		dval, err := backend.NewDataset(s.sliceRows(s.xTrain, fold.ValIndices), nil)
		if err != nil {
			return nil, nil, err
		}

		foldModel, err := backend.Train(params, dtrain, numBoostRound)
		if err != nil {
			return nil, nil, err
		}

		valPred, err := foldModel.Predict(dval)
		if err != nil {
			return nil, nil, err
		}
		// Validation sets are disjoint and cover all training rows, so
		// each position is written exactly once across the folds.
		for k, idx := range fold.ValIndices {
			sTrain.SetVec(idx, valPred[k])
		}

		testPred, err := foldModel.Predict(dtest)
		if err != nil {
			return nil, nil, err
		}
		for r := 0; r < nTest; r++ {
			testPerFold.Set(r, i, testPred[r])
		}

		if s.verbose {
			slog.Info("fold complete",
				log.OperationKey, "stack_booster",
				log.ModelNameKey, backend.Name(),
				log.FoldKey, i,
				log.NumFoldsKey, len(s.folds),
			)
		}
	}

	return sTrain, rowMeans(testPerFold), nil
}

// StackModels runs the out-of-fold loop for each base model in order and
// returns one stacked column per model: training output is rows × len(models)
// of out-of-fold predictions, test output is the per-model fold average.
//
// When a model implements model.Cloner, each fold fits a fresh untrained
// clone, so no state can leak between folds. Models without CloneUntrained
// are refit in place across folds, which relies on Fit fully resetting the
// model's state.
func (s *Stacker) StackModels(models []model.Estimator) (*mat.Dense, *mat.Dense, error) {
	defer log.NewTimer("stack_models", s.verbose).Done()

	if len(models) == 0 {
		return nil, nil, errors.NewValueError("StackModels", "at least one base model is required")
	}

	nTrain := s.NumTrainRows()
	nTest := s.NumTestRows()

	sTrain := mat.NewDense(nTrain, len(models), nil)
	sTest := mat.NewDense(nTest, len(models), nil)

	for i, m := range models {
		if s.verbose {
			slog.Info("fitting base model",
				log.OperationKey, "stack_models",
				log.ModelIndexKey, i,
				log.NumFoldsKey, len(s.folds),
			)
		}

		testPerFold := mat.NewDense(nTest, len(s.folds), nil)

		for j, fold := range s.folds {
			est := m
			if cloner, ok := m.(model.Cloner); ok {
				est = cloner.CloneUntrained()
			}

			xcv := s.sliceRows(s.xTrain, fold.TrainIndices)
			ycv := s.sliceTargets(fold.TrainIndices)
			if err := est.Fit(xcv, ycv); err != nil {
				return nil, nil, err
			}

			valPred, err := est.Predict(s.sliceRows(s.xTrain, fold.ValIndices))
			if err != nil {
				return nil, nil, err
			}
			for k, idx := range fold.ValIndices {
				sTrain.Set(idx, i, valPred.At(k, 0))
			}

			testPred, err := est.Predict(s.xTest)
			if err != nil {
				return nil, nil, err
			}
			for r := 0; r < nTest; r++ {
				testPerFold.Set(r, j, testPred.At(r, 0))
			}
		}

		means := rowMeans(testPerFold)
		for r := 0; r < nTest; r++ {
			sTest.Set(r, i, means.AtVec(r))
		}
	}

	return sTrain, sTest, nil
}

// sliceRows copies the given rows of m into a new matrix, in index order.
func (s *Stacker) sliceRows(m *mat.Dense, indices []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(idx, j))
		}
	}
	return out
}

// sliceTargets copies the given target rows into a new column vector.
func (s *Stacker) sliceTargets(indices []int) *mat.Dense {
	out := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		out.Set(i, 0, s.y.AtVec(idx))
	}
	return out
}

// rowMeans returns the per-row arithmetic mean across the columns of m.
func rowMeans(m *mat.Dense) *mat.VecDense {
	rows, cols := m.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			sum += m.At(i, j)
		}
		out.SetVec(i, sum/float64(cols))
	}
	return out
}
