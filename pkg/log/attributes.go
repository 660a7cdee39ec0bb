package log

// Standard attribute keys used across stackgo's structured logs. The
// hierarchical names ("model.name", "data.samples") keep log filtering
// consistent between packages.
const (
	// ModelNameKey identifies the type of model or backend.
	// Examples: "LinearRegression", "lightgbm", "xgboost"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "stack_booster", "stack_models"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// SamplesKey is the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) being processed.
	FeaturesKey = "data.features"

	// FoldKey is the zero-based fold index within a cross-validation loop.
	FoldKey = "cv.fold"

	// NumFoldsKey is the total number of folds in the partition.
	NumFoldsKey = "cv.num_folds"

	// ModelIndexKey is the position of a base model within a stacking call.
	ModelIndexKey = "stack.model_index"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
