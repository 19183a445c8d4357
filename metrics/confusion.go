package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// ConfusionMatrix counts predictions per (true, predicted) label pair.
// Counts.At(i, j) is the number of samples whose true label is Labels[i]
// and whose predicted label is Labels[j].
type ConfusionMatrix struct {
	Labels []int
	Counts *mat.Dense
}

// NewConfusionMatrix builds the confusion matrix over the sorted union of
// labels present in yTrue and yPred. Both inputs must be n×1 label columns.
func NewConfusionMatrix(yTrue, yPred mat.Matrix) (*ConfusionMatrix, error) {
	t, p, err := labelPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	labels := unionLabels(t, p)
	pos := make(map[int]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	counts := mat.NewDense(len(labels), len(labels), nil)
	for i := range t {
		r, c := pos[t[i]], pos[p[i]]
		counts.Set(r, c, counts.At(r, c)+1)
	}
	return &ConfusionMatrix{Labels: labels, Counts: counts}, nil
}

// TP returns the true positives of label index k.
func (cm *ConfusionMatrix) TP(k int) float64 { return cm.Counts.At(k, k) }

// FP returns the samples predicted as label index k whose true label differs.
func (cm *ConfusionMatrix) FP(k int) float64 {
	return mat.Sum(cm.Counts.ColView(k)) - cm.TP(k)
}

// FN returns the samples of label index k predicted as something else.
func (cm *ConfusionMatrix) FN(k int) float64 {
	return mat.Sum(cm.Counts.RowView(k)) - cm.TP(k)
}

// Support returns the number of true samples of label index k.
func (cm *ConfusionMatrix) Support(k int) float64 {
	return mat.Sum(cm.Counts.RowView(k))
}

// Total returns the number of samples counted.
func (cm *ConfusionMatrix) Total() float64 { return mat.Sum(cm.Counts) }

// String renders the matrix with true labels as rows.
func (cm *ConfusionMatrix) String() string {
	var b strings.Builder
	width := 5
	for _, l := range cm.Labels {
		width = max(width, len(fmt.Sprint(l))+1)
	}
	r, _ := cm.Counts.Dims()
	for i := 0; i < r; i++ {
		width = max(width, len(fmt.Sprint(int(mat.Max(cm.Counts.RowView(i)))))+1)
	}
	fmt.Fprintf(&b, "%*s", width, "")
	for _, l := range cm.Labels {
		fmt.Fprintf(&b, "%*d", width, l)
	}
	b.WriteByte('\n')
	for i, l := range cm.Labels {
		fmt.Fprintf(&b, "%*d", width, l)
		for j := range cm.Labels {
			fmt.Fprintf(&b, "%*d", width, int(cm.Counts.At(i, j)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// labelColumn converts an n×1 matrix of integral values into labels.
func labelColumn(op string, y mat.Matrix) ([]int, error) {
	if y == nil {
		return nil, errors.NewValueError(op, "nil label matrix")
	}
	r, c := y.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty labels", errors.ErrEmptyData)
	}
	if c != 1 {
		return nil, errors.NewDimensionError(op, 1, c, 1)
	}
	out := make([]int, r)
	for i := 0; i < r; i++ {
		v := y.At(i, 0)
		if math.IsNaN(v) || v != math.Trunc(v) {
			return nil, errors.NewValueError(op, fmt.Sprintf("label %v at row %d is not an integer class", v, i))
		}
		out[i] = int(v)
	}
	return out, nil
}

func labelPair(op string, yTrue, yPred mat.Matrix) ([]int, []int, error) {
	t, err := labelColumn(op, yTrue)
	if err != nil {
		return nil, nil, err
	}
	p, err := labelColumn(op, yPred)
	if err != nil {
		return nil, nil, err
	}
	if len(t) != len(p) {
		return nil, nil, errors.NewDimensionError(op, len(t), len(p), 0)
	}
	return t, p, nil
}

func unionLabels(sets ...[]int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, s := range sets {
		for _, v := range s {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	sort.Ints(out)
	return out
}
