package lightgbm

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

const (
	objectiveRegression = "regression"
	objectiveBinary     = "binary"

	labelEps = 1e-15
	hessEps  = 1e-16
)

// Train fits a boosted-tree ensemble on the training dataset. numBoostRound
// overrides any num_iterations entry in the parameter map; unrecognized keys
// are ignored.
func Train(params map[string]interface{}, train *Dataset, numBoostRound int) (*Model, error) {
	tp := ParseParams(params)
	if numBoostRound > 0 {
		tp.NumIterations = numBoostRound
	}

	trainer := NewTrainer(tp)
	if err := trainer.Fit(train); err != nil {
		return nil, err
	}
	return trainer.GetModel(), nil
}

// Trainer implements leaf-wise (best-first) gradient boosting with
// second-order gradients.
type Trainer struct {
	params TrainingParams

	data *Dataset
	y    []float64

	gradients []float64
	hessians  []float64
	rawScores []float64

	model *Model
}

// NewTrainer creates a trainer, filling unset parameters with defaults.
func NewTrainer(params TrainingParams) *Trainer {
	if params.NumIterations == 0 {
		params.NumIterations = 100
	}
	if params.LearningRate == 0 {
		params.LearningRate = 0.1
	}
	if params.NumLeaves == 0 {
		params.NumLeaves = 31
	}
	if params.MinDataInLeaf == 0 {
		params.MinDataInLeaf = 20
	}
	if params.Objective == "" {
		params.Objective = objectiveRegression
	}
	return &Trainer{params: params}
}

// Fit runs the boosting iterations on the labeled dataset.
func (t *Trainer) Fit(train *Dataset) error {
	if train == nil || train.Label == nil {
		return errors.NewValueError("lightgbm.Trainer.Fit", "training dataset must carry a label")
	}

	switch t.params.Objective {
	case objectiveRegression, "regression_l2", "l2", "mean_squared_error", "mse":
		t.params.Objective = objectiveRegression
	case objectiveBinary:
	default:
		return errors.NewValueError("lightgbm.Trainer.Fit", "unsupported objective: "+t.params.Objective)
	}

	rows := train.NumRows()
	t.data = train
	t.y = make([]float64, rows)
	for i := 0; i < rows; i++ {
		t.y[i] = train.Label.AtVec(i)
	}

	t.gradients = make([]float64, rows)
	t.hessians = make([]float64, rows)
	t.rawScores = make([]float64, rows)

	initScore := t.computeInitScore()
	for i := range t.rawScores {
		t.rawScores[i] = initScore
	}

	t.model = &Model{
		InitScore:   initScore,
		Objective:   t.params.Objective,
		NumFeatures: train.NumFeatures(),
	}

	for iter := 0; iter < t.params.NumIterations; iter++ {
		t.computeGradients()
		tree := t.buildTree()
		t.model.Trees = append(t.model.Trees, tree)

		x := make([]float64, t.model.NumFeatures)
		for i := 0; i < rows; i++ {
			for j := 0; j < t.model.NumFeatures; j++ {
				x[j] = t.data.Data.At(i, j)
			}
			t.rawScores[i] += tree.predictRow(x)
		}
	}

	return nil
}

// GetModel returns the fitted model.
func (t *Trainer) GetModel() *Model {
	return t.model
}

func (t *Trainer) computeInitScore() float64 {
	var mean float64
	for _, v := range t.y {
		mean += v
	}
	mean /= float64(len(t.y))

	if t.params.Objective == objectiveBinary {
		p := math.Min(math.Max(mean, labelEps), 1-labelEps)
		return math.Log(p / (1 - p))
	}
	return mean
}

func (t *Trainer) computeGradients() {
	switch t.params.Objective {
	case objectiveBinary:
		for i := range t.y {
			p := sigmoid(t.rawScores[i])
			t.gradients[i] = p - t.y[i]
			t.hessians[i] = math.Max(p*(1-p), hessEps)
		}
	default:
		for i := range t.y {
			t.gradients[i] = t.rawScores[i] - t.y[i]
			t.hessians[i] = 1.0
		}
	}
}

// splitInfo describes the best split found for a leaf.
type splitInfo struct {
	feature   int
	threshold float64
	gain      float64
	valid     bool
}

// leafState is a growable leaf during best-first tree construction.
type leafState struct {
	nodeIdx int
	indices []int
	depth   int
	split   splitInfo
}

// buildTree grows one tree best-first until num_leaves is reached or no leaf
// has a positive-gain split left.
func (t *Trainer) buildTree() Tree {
	rows := len(t.y)
	all := make([]int, rows)
	for i := range all {
		all[i] = i
	}

	tree := Tree{Nodes: []Node{{IsLeaf: true}}}
	root := &leafState{nodeIdx: 0, indices: all, depth: 0}
	root.split = t.findBestSplit(root.indices, root.depth)
	leaves := []*leafState{root}

	for len(leaves) < t.params.NumLeaves {
		best := -1
		for i, l := range leaves {
			if !l.split.valid {
				continue
			}
			if best == -1 || l.split.gain > leaves[best].split.gain {
				best = i
			}
		}
		if best == -1 {
			break
		}

		l := leaves[best]
		left, right := t.partition(l.indices, l.split)

		leftIdx := len(tree.Nodes)
		rightIdx := leftIdx + 1
		tree.Nodes = append(tree.Nodes, Node{IsLeaf: true}, Node{IsLeaf: true})
		tree.Nodes[l.nodeIdx] = Node{
			Feature:   l.split.feature,
			Threshold: l.split.threshold,
			Left:      leftIdx,
			Right:     rightIdx,
		}

		leftLeaf := &leafState{nodeIdx: leftIdx, indices: left, depth: l.depth + 1}
		rightLeaf := &leafState{nodeIdx: rightIdx, indices: right, depth: l.depth + 1}
		leftLeaf.split = t.findBestSplit(leftLeaf.indices, leftLeaf.depth)
		rightLeaf.split = t.findBestSplit(rightLeaf.indices, rightLeaf.depth)

		leaves[best] = leftLeaf
		leaves = append(leaves, rightLeaf)
	}

	for _, l := range leaves {
		tree.Nodes[l.nodeIdx].LeafValue = t.leafValue(l.indices)
	}
	return tree
}

func (t *Trainer) partition(indices []int, split splitInfo) (left, right []int) {
	for _, idx := range indices {
		if t.data.Data.At(idx, split.feature) <= split.threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	return left, right
}

// findBestSplit scans every feature with an exact greedy search over sorted
// values. Gain follows the second-order formulation
// ½[G_L²/(H_L+λ) + G_R²/(H_R+λ) − G²/(H+λ)].
func (t *Trainer) findBestSplit(indices []int, depth int) splitInfo {
	var best splitInfo

	if t.params.MaxDepth > 0 && depth >= t.params.MaxDepth {
		return best
	}
	n := len(indices)
	if n < 2*t.params.MinDataInLeaf {
		return best
	}

	var totalGrad, totalHess float64
	for _, idx := range indices {
		totalGrad += t.gradients[idx]
		totalHess += t.hessians[idx]
	}
	lambda := t.params.Lambda
	parentScore := totalGrad * totalGrad / (totalHess + lambda)

	type entry struct {
		value float64
		idx   int
	}
	entries := make([]entry, n)

	numFeatures := t.data.NumFeatures()
	for feature := 0; feature < numFeatures; feature++ {
		for i, idx := range indices {
			entries[i] = entry{value: t.data.Data.At(idx, feature), idx: idx}
		}
		// Index tiebreak keeps the scan order, and thus the tree,
		// deterministic across runs.
		sort.Slice(entries, func(a, b int) bool {
			if entries[a].value == entries[b].value {
				return entries[a].idx < entries[b].idx
			}
			return entries[a].value < entries[b].value
		})

		var leftGrad, leftHess float64
		for i := 0; i < n-1; i++ {
			leftGrad += t.gradients[entries[i].idx]
			leftHess += t.hessians[entries[i].idx]

			if entries[i].value == entries[i+1].value {
				continue
			}
			nLeft := i + 1
			nRight := n - nLeft
			if nLeft < t.params.MinDataInLeaf || nRight < t.params.MinDataInLeaf {
				continue
			}

			rightGrad := totalGrad - leftGrad
			rightHess := totalHess - leftHess
			gain := 0.5 * (leftGrad*leftGrad/(leftHess+lambda) +
				rightGrad*rightGrad/(rightHess+lambda) -
				parentScore)

			if gain <= t.params.MinGainToSplit {
				continue
			}
			if !best.valid || gain > best.gain {
				best = splitInfo{
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

// leafValue computes the shrunken leaf weight −ThresholdL1(G, α)/(H+λ)·η.
func (t *Trainer) leafValue(indices []int) float64 {
	var sumGrad, sumHess float64
	for _, idx := range indices {
		sumGrad += t.gradients[idx]
		sumHess += t.hessians[idx]
	}
	return -thresholdL1(sumGrad, t.params.Alpha) / (sumHess + t.params.Lambda) * t.params.LearningRate
}

func thresholdL1(g, alpha float64) float64 {
	if alpha <= 0 {
		return g
	}
	if g > alpha {
		return g - alpha
	}
	if g < -alpha {
		return g + alpha
	}
	return 0
}
