// Package model defines the estimator interfaces shared by all learners in
// stackgo. The stacking orchestrator only ever sees these interfaces; concrete
// model types live in their own packages.
package model

import "gonum.org/v1/gonum/mat"

// Scorer is the interface for models that can compute a goodness-of-fit score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces expected of a regression model.
type Regressor interface {
	Estimator
	Scorer
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
