package model_selection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// Splitter defines interface for cross-validation splitters
type Splitter interface {
	Split(X, y mat.Matrix) ([]Fold, error)
	GetNSplits() int
}

// Fold represents a single fold in cross-validation. Both index lists are
// in ascending order.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation splitter
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int64
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed int64) *KFold {
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

func checkSplits(op string, nSplits, nSamples int) error {
	if nSplits < 2 {
		return errors.NewValidationError("n_splits", "k-fold cross-validation requires at least one train/test split by setting n_splits=2 or more", nSplits)
	}
	if nSplits > nSamples {
		return errors.NewValueError(op,
			fmt.Sprintf("cannot have number of splits n_splits=%d greater than the number of samples: n_samples=%d", nSplits, nSamples))
	}
	return nil
}

// Split generates train/test indices for each fold. The first
// n_samples % n_splits folds have one extra test sample.
func (kf *KFold) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if err := checkSplits("KFold.Split", kf.NSplits, nSamples); err != nil {
		return nil, err
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		newRand(kf.RandomSeed).Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	testFold := make([]int, nSamples)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits
	current := 0
	for i := 0; i < kf.NSplits; i++ {
		size := foldSize
		if i < remainder {
			size++
		}
		for _, idx := range indices[current : current+size] {
			testFold[idx] = i
		}
		current += size
	}
	return foldsFromAssignment(testFold, kf.NSplits), nil
}

// StratifiedKFold implements stratified k-fold cross-validation: each fold
// preserves the class proportions of y as closely as possible.
type StratifiedKFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int64
}

// NewStratifiedKFold creates a new stratified k-fold splitter
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int64) *StratifiedKFold {
	return &StratifiedKFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (skf *StratifiedKFold) GetNSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold.
//
// Classes are numbered in order of first appearance and the sorted label
// sequence is dealt round-robin over the folds; fold i then takes that many
// members of each class, in order (or shuffled when Shuffle is set).
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if err := checkSplits("StratifiedKFold.Split", skf.NSplits, nSamples); err != nil {
		return nil, err
	}
	if y == nil {
		return nil, errors.NewModelError("StratifiedKFold.Split", "empty target", errors.ErrEmptyData)
	}
	if ny, _ := y.Dims(); ny != nSamples {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", nSamples, ny, 0)
	}

	// encode classes by first appearance
	code := make(map[float64]int)
	encoded := make([]int, nSamples)
	var counts []int
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		c, ok := code[label]
		if !ok {
			c = len(counts)
			code[label] = c
			counts = append(counts, 0)
		}
		encoded[i] = c
		counts[c]++
	}

	minCount, maxCount := counts[0], counts[0]
	for _, c := range counts {
		minCount = min(minCount, c)
		maxCount = max(maxCount, c)
	}
	if skf.NSplits > maxCount {
		return nil, errors.NewValueError("StratifiedKFold.Split",
			fmt.Sprintf("n_splits=%d cannot be greater than the number of members in each class", skf.NSplits))
	}
	if skf.NSplits > minCount {
		errors.Warn(errors.NewSplitWarning("StratifiedKFold",
			fmt.Sprintf("The least populated class in y has only %d members, which is less than n_splits=%d.", minCount, skf.NSplits)))
	}

	// allocation[f][c]: members of class c in fold f
	nClasses := len(counts)
	allocation := make([][]int, skf.NSplits)
	for f := range allocation {
		allocation[f] = make([]int, nClasses)
	}
	pos := 0
	for c := 0; c < nClasses; c++ {
		for k := 0; k < counts[c]; k++ {
			allocation[pos%skf.NSplits][c]++
			pos++
		}
	}

	var rng interface{ Shuffle(int, func(int, int)) }
	if skf.Shuffle {
		rng = newRand(skf.RandomSeed)
	}
	testFold := make([]int, nSamples)
	for c := 0; c < nClasses; c++ {
		foldsForClass := make([]int, 0, counts[c])
		for f := 0; f < skf.NSplits; f++ {
			for k := 0; k < allocation[f][c]; k++ {
				foldsForClass = append(foldsForClass, f)
			}
		}
		if rng != nil {
			rng.Shuffle(len(foldsForClass), func(i, j int) {
				foldsForClass[i], foldsForClass[j] = foldsForClass[j], foldsForClass[i]
			})
		}
		next := 0
		for i, e := range encoded {
			if e == c {
				testFold[i] = foldsForClass[next]
				next++
			}
		}
	}
	return foldsFromAssignment(testFold, skf.NSplits), nil
}

// foldsFromAssignment turns a per-sample test fold number into folds.
func foldsFromAssignment(testFold []int, nSplits int) []Fold {
	folds := make([]Fold, nSplits)
	for f := range folds {
		for i, tf := range testFold {
			if tf == f {
				folds[f].TestIndices = append(folds[f].TestIndices, i)
			} else {
				folds[f].TrainIndices = append(folds[f].TrainIndices, i)
			}
		}
	}
	return folds
}
