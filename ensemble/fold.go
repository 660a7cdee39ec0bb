package ensemble

import "math/rand/v2"

// Fold is a single train/validation split over training-row indices.
type Fold struct {
	TrainIndices []int
	ValIndices   []int
}

// Splitter generates a fold partition for a given number of samples.
type Splitter interface {
	Split(nSamples int) []Fold
	NSplits() int
}

// KFold partitions rows into k validation folds. Validation sets are
// pairwise disjoint and cover every row exactly once; each fold's training
// set is the complement of its validation set.
type KFold struct {
	NumSplits  int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a k-fold splitter.
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{
		NumSplits:  nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.NumSplits
}

// Split generates the fold partition for nSamples rows. Fold sizes differ by
// at most one, with the remainder spread over the leading folds.
func (kf *KFold) Split(nSamples int) []Fold {
	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NumSplits)
	foldSize := nSamples / kf.NumSplits
	remainder := nSamples % kf.NumSplits

	currentIdx := 0
	for i := 0; i < kf.NumSplits; i++ {
		valSize := foldSize
		if i < remainder {
			valSize++
		}

		valIndices := make([]int, valSize)
		copy(valIndices, indices[currentIdx:currentIdx+valSize])

		trainIndices := make([]int, 0, nSamples-valSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+valSize:]...)

		folds[i] = Fold{
			TrainIndices: trainIndices,
			ValIndices:   valIndices,
		}

		currentIdx += valSize
	}

	return folds
}
