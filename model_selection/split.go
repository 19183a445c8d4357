// Package model_selection provides data splitting, cross-validation and
// exhaustive hyperparameter search for the classifiers in this module.
package model_selection

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// SplitResult holds the four partitions returned by TrainTestSplit and the
// row indices they were taken from.
type SplitResult struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.Dense

	TrainIndex []int
	TestIndex  []int
}

type splitConfig struct {
	testSize    float64
	randomState int64
	shuffle     bool
}

// SplitOption configures TrainTestSplit.
type SplitOption func(*splitConfig)

// WithTestSize sets the proportion of rows held out, in (0, 1).
func WithTestSize(p float64) SplitOption {
	return func(c *splitConfig) { c.testSize = p }
}

// WithRandomState seeds the permutation. A negative seed draws a fresh one.
func WithRandomState(seed int64) SplitOption {
	return func(c *splitConfig) { c.randomState = seed }
}

// WithShuffle toggles shuffling; without it the last rows form the test set.
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) { c.shuffle = shuffle }
}

// TrainTestSplit partitions X and y into random train and test subsets.
// The test side has ceil(testSize·n) rows, taken from the start of a
// permutation drawn from a PCG source seeded with the random state, so a
// fixed seed yields the same split on every run.
func TrainTestSplit(X, y mat.Matrix, opts ...SplitOption) (*SplitResult, error) {
	cfg := splitConfig{testSize: 0.25, randomState: -1, shuffle: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if X == nil || y == nil {
		return nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	n, _ := X.Dims()
	ny, _ := y.Dims()
	if n != ny {
		return nil, errors.NewDimensionError("TrainTestSplit", n, ny, 0)
	}
	if cfg.testSize <= 0 || cfg.testSize >= 1 {
		return nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", cfg.testSize)
	}

	nTest := int(math.Ceil(cfg.testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, errors.NewValueError("TrainTestSplit",
			fmt.Sprintf("with n_samples=%d, test_size=%v the resulting train set will be empty", n, cfg.testSize))
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if cfg.shuffle {
		perm = newRand(cfg.randomState).Perm(n)
	} else {
		// unshuffled: train first, test last
		perm = append(perm[nTrain:], perm[:nTrain]...)
	}

	s := &SplitResult{
		TestIndex:  append([]int(nil), perm[:nTest]...),
		TrainIndex: append([]int(nil), perm[nTest:]...),
	}
	s.XTrain = TakeRows(X, s.TrainIndex)
	s.XTest = TakeRows(X, s.TestIndex)
	s.YTrain = TakeRows(y, s.TrainIndex)
	s.YTest = TakeRows(y, s.TestIndex)
	return s, nil
}

// TakeRows copies the listed rows of m, in order, into a new matrix.
func TakeRows(m mat.Matrix, rows []int) *mat.Dense {
	if len(rows) == 0 {
		return &mat.Dense{}
	}
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	if d, ok := m.(*mat.Dense); ok {
		for i, r := range rows {
			copy(out.RawRowView(i), d.RawRowView(r))
		}
		return out
	}
	for i, r := range rows {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(r, j))
		}
	}
	return out
}

// newRand returns a PCG generator for seed; a negative seed is replaced by
// a random one.
func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	if seed < 0 {
		s = rand.Uint64()
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
