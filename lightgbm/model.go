// Package lightgbm implements a compact leaf-wise gradient-boosting backend
// with a train(params, dataset, rounds) entry point mirroring the upstream
// LightGBM training API.
package lightgbm

import (
	"math"

	"github.com/YuminosukeSato/stackgo/pkg/errors"
)

// Node is a single node in a decision tree, stored in a flat slice.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	LeafValue float64
	IsLeaf    bool
}

// Tree is one boosted regression tree. Leaf values carry the learning-rate
// shrinkage, so prediction is a plain sum over trees.
type Tree struct {
	Nodes []Node
}

func (t *Tree) predictRow(x []float64) float64 {
	idx := 0
	for !t.Nodes[idx].IsLeaf {
		n := t.Nodes[idx]
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return t.Nodes[idx].LeafValue
}

// Model is a fitted boosted-tree ensemble.
type Model struct {
	Trees       []Tree
	InitScore   float64
	Objective   string
	NumFeatures int
}

// Predict returns one prediction per row of the dataset. For the binary
// objective the raw score is passed through the sigmoid, matching upstream
// predict() output.
func (m *Model) Predict(data *Dataset) ([]float64, error) {
	if data == nil {
		return nil, errors.NewValueError("lightgbm.Model.Predict", "nil dataset")
	}
	rows, cols := data.Data.Dims()
	if cols != m.NumFeatures {
		return nil, errors.NewDimensionError("lightgbm.Model.Predict", m.NumFeatures, cols, 1)
	}

	out := make([]float64, rows)
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x[j] = data.Data.At(i, j)
		}
		raw := m.InitScore
		for k := range m.Trees {
			raw += m.Trees[k].predictRow(x)
		}
		if m.Objective == objectiveBinary {
			raw = sigmoid(raw)
		}
		out[i] = raw
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
