package lightgbm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stackgo/ensemble"
	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// Backend adapts this package to the stacking orchestrator's boosting
// interface.
type Backend struct{}

// NewBackend creates the LightGBM-flavored stacking backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name implements ensemble.Backend.
func (b *Backend) Name() string {
	return "lightgbm"
}

// NewDataset implements ensemble.Backend.
func (b *Backend) NewDataset(X, y mat.Matrix) (ensemble.Dataset, error) {
	return NewDataset(X, y)
}

// Train implements ensemble.Backend.
func (b *Backend) Train(params map[string]interface{}, train ensemble.Dataset, numBoostRound int) (ensemble.BoostedModel, error) {
	ds, ok := train.(*Dataset)
	if !ok {
		return nil, errors.NewValueError("lightgbm.Backend.Train", "dataset was not built by this backend")
	}
	m, err := Train(params, ds, numBoostRound)
	if err != nil {
		return nil, err
	}
	return &boostedModel{model: m}, nil
}

// boostedModel wraps a fitted Model behind the orchestrator's prediction
// interface.
type boostedModel struct {
	model *Model
}

func (bm *boostedModel) Predict(data ensemble.Dataset) ([]float64, error) {
	ds, ok := data.(*Dataset)
	if !ok {
		return nil, errors.NewValueError("lightgbm.Predict", "dataset was not built by this backend")
	}
	return bm.model.Predict(ds)
}
