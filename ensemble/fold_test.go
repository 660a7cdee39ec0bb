package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKFoldPartition verifies validation sets are disjoint and cover every row.
func TestKFoldPartition(t *testing.T) {
	kf := NewKFold(4, false, 0)
	folds := kf.Split(10)
	require.Len(t, folds, 4)

	seen := make(map[int]int)
	for _, fold := range folds {
		for _, idx := range fold.ValIndices {
			seen[idx]++
		}
	}
	require.Len(t, seen, 10)
	for idx, count := range seen {
		assert.Equalf(t, 1, count, "row %d appears in %d validation folds", idx, count)
	}
}

// TestKFoldRemainderSpread verifies fold sizes differ by at most one, with
// larger folds first.
func TestKFoldRemainderSpread(t *testing.T) {
	folds := NewKFold(3, false, 0).Split(10)
	require.Len(t, folds, 3)

	assert.Len(t, folds[0].ValIndices, 4)
	assert.Len(t, folds[1].ValIndices, 3)
	assert.Len(t, folds[2].ValIndices, 3)

	for _, fold := range folds {
		assert.Len(t, fold.TrainIndices, 10-len(fold.ValIndices))
	}
}

// TestKFoldTrainIsComplement verifies each fold's train set is exactly the
// complement of its validation set.
func TestKFoldTrainIsComplement(t *testing.T) {
	folds := NewKFold(5, true, 42).Split(23)

	for _, fold := range folds {
		inVal := make(map[int]bool)
		for _, idx := range fold.ValIndices {
			inVal[idx] = true
		}
		for _, idx := range fold.TrainIndices {
			assert.False(t, inVal[idx])
		}
		assert.Equal(t, 23, len(fold.TrainIndices)+len(fold.ValIndices))
	}
}

// TestKFoldShuffleDeterministic verifies the same seed produces the same
// partition.
func TestKFoldShuffleDeterministic(t *testing.T) {
	a := NewKFold(5, true, 1024).Split(50)
	b := NewKFold(5, true, 1024).Split(50)
	assert.Equal(t, a, b)

	c := NewKFold(5, true, 2048).Split(50)
	assert.NotEqual(t, a, c)
}

// TestKFoldMinSplits verifies the splitter falls back to 5 folds for
// nonsensical split counts.
func TestKFoldMinSplits(t *testing.T) {
	kf := NewKFold(1, false, 0)
	assert.Equal(t, 5, kf.NSplits())
}
