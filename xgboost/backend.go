package xgboost

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/ensemble"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// Backend adapts this package to the stacking orchestrator's boosting
// interface.
type Backend struct{}

// NewBackend creates the XGBoost-flavored stacking backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name implements ensemble.Backend.
func (b *Backend) Name() string {
	return "xgboost"
}

// NewDataset implements ensemble.Backend.
func (b *Backend) NewDataset(X, y mat.Matrix) (ensemble.Dataset, error) {
	return NewDMatrix(X, y)
}

// Train implements ensemble.Backend.
func (b *Backend) Train(params map[string]interface{}, train ensemble.Dataset, numBoostRound int) (ensemble.BoostedModel, error) {
	dm, ok := train.(*DMatrix)
	if !ok {
		return nil, errors.NewValueError("xgboost.Backend.Train", "DMatrix was not built by this backend")
	}
	booster, err := Train(params, dm, numBoostRound)
	if err != nil {
		return nil, err
	}
	return &boostedModel{booster: booster}, nil
}

// boostedModel wraps a fitted Booster behind the orchestrator's prediction
// interface.
type boostedModel struct {
	booster *Booster
}

func (bm *boostedModel) Predict(data ensemble.Dataset) ([]float64, error) {
	dm, ok := data.(*DMatrix)
	if !ok {
		return nil, errors.NewValueError("xgboost.Predict", "DMatrix was not built by this backend")
	}
	return bm.booster.Predict(dm)
}
