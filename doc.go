// Package stackgo provides stacked generalization (model stacking) for Go,
// turning out-of-fold predictions of heterogeneous base learners into feature
// matrices for a second-stage model.
//
// The entry point is the ensemble package:
//
//	folds := ensemble.NewKFold(5, true, 1024).Split(nTrain)
//	stacker, err := ensemble.NewStacker(XTrain, XTest, y, folds)
//
//	// Boosting-backed stacking (one column per call):
//	sTrain, sTest, err := stacker.StackBooster(lightgbm.NewBackend(), params, 200)
//
//	// Generic stacking over any fit/predict models (one column per model):
//	mTrain, mTest, err := stacker.StackModels([]model.Estimator{
//	    linear.NewRidge(1.0),
//	    neighbors.NewKNNRegressor(5),
//	})
//
// Base learners implement the two-method Estimator interface from core/model.
// The lightgbm and xgboost packages provide compact gradient-boosting
// backends; the linear and neighbors packages provide generic base models.
//
// Every prediction written to the training-side output is produced by a model
// that never saw that row during fitting; test-side predictions are averaged
// across folds.
package stackgo
