package xgboost

// Params contains the training hyperparameters recognized by this backend.
// Unknown keys in a parameter map are ignored, matching the pass-through
// behavior of the upstream train() API.
type Params struct {
	Eta            float64 `json:"eta"`
	MaxDepth       int     `json:"max_depth"`
	Lambda         float64 `json:"lambda"`
	Gamma          float64 `json:"gamma"`
	MinChildWeight float64 `json:"min_child_weight"`
	BaseScore      float64 `json:"base_score"`
	Objective      string  `json:"objective"`
	Seed           int     `json:"seed"`
}

// DefaultParams returns the backend's default hyperparameters.
func DefaultParams() Params {
	return Params{
		Eta:            0.3,
		MaxDepth:       6,
		Lambda:         1.0,
		Gamma:          0.0,
		MinChildWeight: 1.0,
		BaseScore:      0.5,
		Objective:      "reg:squarederror",
	}
}

// ParseParams converts a loosely typed parameter map into Params.
func ParseParams(params map[string]interface{}) Params {
	p := DefaultParams()

	if val, ok := floatParam(params, "eta"); ok {
		p.Eta = val
	}
	if val, ok := floatParam(params, "learning_rate"); ok {
		p.Eta = val
	}
	if val, ok := intParam(params, "max_depth"); ok {
		p.MaxDepth = val
	}
	if val, ok := floatParam(params, "lambda"); ok {
		p.Lambda = val
	}
	if val, ok := floatParam(params, "gamma"); ok {
		p.Gamma = val
	}
	if val, ok := floatParam(params, "min_child_weight"); ok {
		p.MinChildWeight = val
	}
	if val, ok := floatParam(params, "base_score"); ok {
		p.BaseScore = val
	}
	if val, ok := params["objective"].(string); ok {
		p.Objective = val
	}
	if val, ok := intParam(params, "seed"); ok {
		p.Seed = val
	}

	return p
}

func floatParam(params map[string]interface{}, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
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
