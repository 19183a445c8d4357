package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// FeatureMatrix copies the columns at positions [start, end) into an n×d
// matrix. Bounds are clipped to the table like positional slicing. It
// returns the names of the selected columns.
//
// Unlike a plain positional slice, the target column is skipped when it
// falls inside [start, end). On a table narrower than end+1 columns, such
// as a small synthetic set, iloc[:, start:end] would also pick up the label
// as a feature; this never does.
//
// Every selected column must be numeric and free of missing values.
func (f *Frame) FeatureMatrix(start, end int, target string) (*mat.Dense, []string, error) {
	const op = "dataset.FeatureMatrix"
	ncols := len(f.columns)
	start = min(max(start, 0), ncols)
	end = min(max(end, start), ncols)

	var selected []*Column
	for _, c := range f.columns[start:end] {
		if c.Name == target {
			continue
		}
		if c.Kind == Object {
			return nil, nil, errors.NewDataError(op, c.Name, "is not numeric")
		}
		for i := 0; i < f.rows; i++ {
			if c.IsMissing(i) {
				return nil, nil, errors.NewDataError(op, c.Name, fmt.Sprintf("missing value at row %d", i))
			}
		}
		selected = append(selected, c)
	}
	if len(selected) == 0 {
		return nil, nil, errors.NewModelError(op, fmt.Sprintf("no feature columns in [%d, %d)", start, end), errors.ErrEmptyData)
	}

	X := mat.NewDense(f.rows, len(selected), nil)
	names := make([]string, len(selected))
	for j, c := range selected {
		X.SetCol(j, c.Floats)
		names[j] = c.Name
	}
	return X, names, nil
}

// Target returns the named column as an n×1 label vector. The column must
// hold integral class labels.
func (f *Frame) Target(name string) (*mat.Dense, error) {
	const op = "dataset.Target"
	c, ok := f.Column(name)
	if !ok {
		return nil, errors.NewDataError(op, name, "no such column")
	}
	if c.Kind != Int64 {
		return nil, errors.NewDataError(op, name, fmt.Sprintf("labels must be integers, column is %s", c.Kind))
	}
	y := mat.NewDense(f.rows, 1, nil)
	y.SetCol(0, c.Floats)
	return y, nil
}

// FirstRows keeps the first n rows of X and y, or all of them when there are
// fewer. The results are views of the inputs.
func FirstRows(X, y *mat.Dense, n int) (*mat.Dense, *mat.Dense, error) {
	const op = "dataset.FirstRows"
	if n <= 0 {
		return nil, nil, errors.NewValidationError("max_rows", "must be positive", n)
	}
	rx, cx := X.Dims()
	ry, cy := y.Dims()
	if rx != ry {
		return nil, nil, errors.NewDimensionError(op, rx, ry, 0)
	}
	if rx == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	k := min(n, rx)
	return X.Slice(0, k, 0, cx).(*mat.Dense), y.Slice(0, k, 0, cy).(*mat.Dense), nil
}
