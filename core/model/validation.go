package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// ValidateX checks that X is a non-empty matrix of finite values.
func ValidateX(op string, X mat.Matrix) (n, d int, err error) {
	if X == nil {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	n, d = X.Dims()
	if n == 0 || d == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix(op, X); err != nil {
		return 0, 0, err
	}
	return n, d, nil
}

// ValidateXY checks X as ValidateX does and converts y, an n×1 column of
// integral values, into class labels.
func ValidateXY(op string, X, y mat.Matrix) (n, d int, labels []int, err error) {
	n, d, err = ValidateX(op, X)
	if err != nil {
		return 0, 0, nil, err
	}
	if y == nil {
		return 0, 0, nil, errors.NewModelError(op, "empty target", errors.ErrEmptyData)
	}
	ry, cy := y.Dims()
	if ry != n {
		return 0, 0, nil, errors.NewDimensionError(op, n, ry, 0)
	}
	if cy != 1 {
		return 0, 0, nil, errors.NewDimensionError(op, 1, cy, 1)
	}
	labels = make([]int, n)
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, 0, nil, errors.NewValueError(op, fmt.Sprintf("unknown label type: %v at row %d is not an integer class", v, i))
		}
		labels[i] = int(v)
	}
	return n, d, labels, nil
}

// UniqueSorted returns the distinct labels in ascending order.
func UniqueSorted(labels []int) []int {
	seen := make(map[int]struct{}, 4)
	out := make([]int, 0, 4)
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}

// ClassIndex maps each class label to its position in classes.
func ClassIndex(classes []int) map[int]int {
	idx := make(map[int]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return idx
}
