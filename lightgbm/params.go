package lightgbm

// TrainingParams contains the training hyperparameters recognized by this
// backend. Unknown keys in a parameter map are ignored, matching the
// pass-through behavior of the upstream train() API.
type TrainingParams struct {
	NumIterations  int     `json:"num_iterations"`
	LearningRate   float64 `json:"learning_rate"`
	NumLeaves      int     `json:"num_leaves"`
	MaxDepth       int     `json:"max_depth"`
	MinDataInLeaf  int     `json:"min_data_in_leaf"`
	Lambda         float64 `json:"lambda_l2"`
	Alpha          float64 `json:"lambda_l1"`
	MinGainToSplit float64 `json:"min_gain_to_split"`
	Objective      string  `json:"objective"`
	Seed           int     `json:"seed"`
	Verbosity      int     `json:"verbosity"`
}

// DefaultParams returns the backend's default hyperparameters.
func DefaultParams() TrainingParams {
	return TrainingParams{
		NumIterations:  100,
		LearningRate:   0.1,
		NumLeaves:      31,
		MaxDepth:       -1,
		MinDataInLeaf:  20,
		Lambda:         0.0,
		Alpha:          0.0,
		MinGainToSplit: 0.0,
		Objective:      "regression",
		Seed:           0,
		Verbosity:      1,
	}
}

// ParseParams converts a loosely typed parameter map into TrainingParams.
// Integer-valued options also accept float64 values, which is what untyped
// map literals and decoded JSON produce.
func ParseParams(params map[string]interface{}) TrainingParams {
	tp := DefaultParams()

	if val, ok := intParam(params, "num_iterations"); ok {
		tp.NumIterations = val
	}
	if val, ok := params["learning_rate"].(float64); ok {
		tp.LearningRate = val
	}
	if val, ok := intParam(params, "num_leaves"); ok {
		tp.NumLeaves = val
	}
	if val, ok := intParam(params, "max_depth"); ok {
		tp.MaxDepth = val
	}
	if val, ok := intParam(params, "min_data_in_leaf"); ok {
		tp.MinDataInLeaf = val
	}
	if val, ok := params["lambda_l2"].(float64); ok {
		tp.Lambda = val
	}
	if val, ok := params["lambda_l1"].(float64); ok {
		tp.Alpha = val
	}
	if val, ok := params["min_gain_to_split"].(float64); ok {
		tp.MinGainToSplit = val
	}
	if val, ok := params["objective"].(string); ok {
		tp.Objective = val
	}
	if val, ok := intParam(params, "random_state"); ok {
		tp.Seed = val
	}
	if val, ok := intParam(params, "seed"); ok {
		tp.Seed = val
	}
	if val, ok := intParam(params, "verbosity"); ok {
		tp.Verbosity = val
	}

	return tp
}

func intParam(params map[string]interface{}, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
