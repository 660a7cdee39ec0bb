package xgboost

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

const (
	objectiveSquaredError = "reg:squarederror"
	objectiveLogistic     = "binary:logistic"

	probEps = 1e-15
	hessEps = 1e-16
)

// treeNode is a single node of a boosted tree, stored in a flat slice.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	weight    float64
	isLeaf    bool
}

type tree struct {
	nodes []treeNode
}

func (t *tree) predictRow(x []float64) float64 {
	idx := 0
	for !t.nodes[idx].isLeaf {
		n := t.nodes[idx]
		if x[n.feature] < n.threshold {
			idx = n.left
		} else {
			idx = n.right
		}
	}
	return t.nodes[idx].weight
}

// Booster is a fitted gradient-boosted tree ensemble.
type Booster struct {
	params      Params
	trees       []tree
	baseMargin  float64
	numFeatures int
}

// Predict returns one prediction per row of the matrix. For binary:logistic
// the margin is passed through the sigmoid, matching upstream predict()
// output.
func (b *Booster) Predict(data *DMatrix) ([]float64, error) {
	if data == nil {
		return nil, errors.NewValueError("xgboost.Booster.Predict", "nil DMatrix")
	}
	rows, cols := data.Data.Dims()
	if cols != b.numFeatures {
		return nil, errors.NewDimensionError("xgboost.Booster.Predict", b.numFeatures, cols, 1)
	}

	out := make([]float64, rows)
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x[j] = data.Data.At(i, j)
		}
		margin := b.baseMargin
		for k := range b.trees {
			margin += b.trees[k].predictRow(x)
		}
		if b.params.Objective == objectiveLogistic {
			margin = 1.0 / (1.0 + math.Exp(-margin))
		}
		out[i] = margin
	}
	return out, nil
}

// NumTrees returns the number of boosted trees in the ensemble.
func (b *Booster) NumTrees() int {
	return len(b.trees)
}

// Train grows numBoostRound trees on the labeled training matrix.
// Unrecognized parameter keys are ignored.
func Train(params map[string]interface{}, dtrain *DMatrix, numBoostRound int) (*Booster, error) {
	if dtrain == nil || dtrain.Label == nil {
		return nil, errors.NewValueError("xgboost.Train", "training DMatrix must carry a label")
	}
	if numBoostRound <= 0 {
		return nil, errors.NewValueError("xgboost.Train", "num_boost_round must be positive")
	}

	p := ParseParams(params)
	switch p.Objective {
	case objectiveSquaredError, "reg:linear":
		p.Objective = objectiveSquaredError
	case objectiveLogistic:
	default:
		return nil, errors.NewValueError("xgboost.Train", "unsupported objective: "+p.Objective)
	}

	rows := dtrain.NumRows()
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		y[i] = dtrain.Label.AtVec(i)
	}

	baseMargin := p.BaseScore
	if p.Objective == objectiveLogistic {
		prob := math.Min(math.Max(p.BaseScore, probEps), 1-probEps)
		baseMargin = math.Log(prob / (1 - prob))
	}

	booster := &Booster{
		params:      p,
		baseMargin:  baseMargin,
		numFeatures: dtrain.NumFeatures(),
	}

	w := &worker{
		params: p,
		data:   dtrain,
		grad:   make([]float64, rows),
		hess:   make([]float64, rows),
		margin: make([]float64, rows),
	}
	for i := range w.margin {
		w.margin[i] = baseMargin
	}

	x := make([]float64, booster.numFeatures)
	for round := 0; round < numBoostRound; round++ {
		w.computeGradients(y)

		all := make([]int, rows)
		for i := range all {
			all[i] = i
		}
		tr := tree{}
		w.buildNode(&tr, all, 0)
		booster.trees = append(booster.trees, tr)

		for i := 0; i < rows; i++ {
			for j := 0; j < booster.numFeatures; j++ {
				x[j] = dtrain.Data.At(i, j)
			}
			w.margin[i] += tr.predictRow(x)
		}
	}

	return booster, nil
}

// worker holds the per-training-run state for tree construction.
type worker struct {
	params Params
	data   *DMatrix
	grad   []float64
	hess   []float64
	margin []float64
}

func (w *worker) computeGradients(y []float64) {
	if w.params.Objective == objectiveLogistic {
		for i := range y {
			p := 1.0 / (1.0 + math.Exp(-w.margin[i]))
			w.grad[i] = p - y[i]
			w.hess[i] = math.Max(p*(1-p), hessEps)
		}
		return
	}
	for i := range y {
		w.grad[i] = w.margin[i] - y[i]
		w.hess[i] = 1.0
	}
}

// buildNode grows the tree depth-wise and returns the new node's index.
func (w *worker) buildNode(t *tree, indices []int, depth int) int {
	nodeIdx := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{isLeaf: true})

	var sumGrad, sumHess float64
	for _, idx := range indices {
		sumGrad += w.grad[idx]
		sumHess += w.hess[idx]
	}

	if depth >= w.params.MaxDepth || len(indices) < 2 {
		t.nodes[nodeIdx].weight = w.leafWeight(sumGrad, sumHess)
		return nodeIdx
	}

	split := w.findSplit(indices, sumGrad, sumHess)
	if !split.valid {
		t.nodes[nodeIdx].weight = w.leafWeight(sumGrad, sumHess)
		return nodeIdx
	}

	var left, right []int
	for _, idx := range indices {
		if w.data.Data.At(idx, split.feature) < split.threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	leftIdx := w.buildNode(t, left, depth+1)
	rightIdx := w.buildNode(t, right, depth+1)
	t.nodes[nodeIdx] = treeNode{
		feature:   split.feature,
		threshold: split.threshold,
		left:      leftIdx,
		right:     rightIdx,
	}
	return nodeIdx
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	valid     bool
}

// findSplit runs the exact greedy search: gain
// ½[G_L²/(H_L+λ) + G_R²/(H_R+λ) − G²/(H+λ)] − γ, both children constrained
// by min_child_weight on their hessian sums.
func (w *worker) findSplit(indices []int, totalGrad, totalHess float64) split {
	var best split

	n := len(indices)
	lambda := w.params.Lambda
	parentScore := totalGrad * totalGrad / (totalHess + lambda)

	type entry struct {
		value float64
		idx   int
	}
	entries := make([]entry, n)

	for feature := 0; feature < w.data.NumFeatures(); feature++ {
		for i, idx := range indices {
			entries[i] = entry{value: w.data.Data.At(idx, feature), idx: idx}
		}
		// Index tiebreak keeps the scan, and thus the tree, deterministic.
		sort.Slice(entries, func(a, b int) bool {
			if entries[a].value == entries[b].value {
				return entries[a].idx < entries[b].idx
			}
			return entries[a].value < entries[b].value
		})

		var leftGrad, leftHess float64
		for i := 0; i < n-1; i++ {
			leftGrad += w.grad[entries[i].idx]
			leftHess += w.hess[entries[i].idx]

			if entries[i].value == entries[i+1].value {
				continue
			}
			rightGrad := totalGrad - leftGrad
			rightHess := totalHess - leftHess
			if leftHess < w.params.MinChildWeight || rightHess < w.params.MinChildWeight {
				continue
			}

			gain := 0.5*(leftGrad*leftGrad/(leftHess+lambda)+
				rightGrad*rightGrad/(rightHess+lambda)-
				parentScore) - w.params.Gamma

			if gain <= 0 {
				continue
			}
			if !best.valid || gain > best.gain {
				best = split{
					feature:   feature,
					threshold: (entries[i].value + entries[i+1].value) / 2,
					gain:      gain,
					valid:     true,
				}
			}
		}
	}
	return best
}

func (w *worker) leafWeight(sumGrad, sumHess float64) float64 {
	return -sumGrad / (sumHess + w.params.Lambda) * w.params.Eta
}
