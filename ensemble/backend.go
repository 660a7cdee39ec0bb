package ensemble

import "gonum.org/v1/gonum/mat"

// Dataset is an opaque, backend-specific data container. A backend only ever
// receives datasets it built itself.
type Dataset interface{}

// BoostedModel is a fitted boosting model that predicts on the backend's own
// data container.
type BoostedModel interface {
	Predict(data Dataset) ([]float64, error)
}

// Backend abstracts a boosting library behind the three operations the
// stacker needs: build a trainable dataset, train for a number of rounds, and
// predict. Hyperparameter maps pass through uninterpreted; recognized keys
// are backend-specific.
type Backend interface {
	// Name labels the backend in logs and timer output.
	Name() string

	// NewDataset wraps features (and an optional target; y may be nil)
	// in the backend's container.
	NewDataset(X, y mat.Matrix) (Dataset, error)

	// Train fits a fresh model on the dataset for numBoostRound rounds.
	Train(params map[string]interface{}, train Dataset, numBoostRound int) (BoostedModel, error)
}
