package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on the given features and targets.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can produce predictions.
type Predictor interface {
	// Predict returns predictions for the given features, one row per sample.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is the minimal capability set a stacking base model must expose.
// Any concrete learner (tree ensemble, linear model, distance-based model)
// qualifies by implementing these two methods.
type Estimator interface {
	Fitter
	Predictor
}

// Cloner is implemented by estimators that can produce an untrained copy of
// themselves carrying the same hyperparameters. Cross-validation loops prefer
// cloning over refitting a shared instance, so that no state survives from a
// previous fold's fit.
type Cloner interface {
	CloneUntrained() Estimator
}
