// Package tree implements CART decision trees for classification.
package tree

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// DecisionTreeClassifier is a CART classification tree.
// Compatible with scikit-learn's DecisionTreeClassifier.
type DecisionTreeClassifier struct {
	state *model.StateManager

	// Hyperparameters
	criterion       string      // "gini", "entropy" or "log_loss"
	maxDepth        int         // -1 means unlimited (None)
	minSamplesSplit int         // Minimum samples required to split a node
	minSamplesLeaf  int         // Minimum samples required in each leaf
	maxFeatures     interface{} // nil, "sqrt", "log2", "auto", int or float64
	randomState     int64       // -1 draws a fresh seed per Fit

	// Model parameters
	classes_            []int
	nClasses_           int
	nFeatures_          int
	maxFeatures_        int
	nodes               []node
	featureImportances_ []float64
}

var (
	_ model.Tunable                 = (*DecisionTreeClassifier)(nil)
	_ model.ProbabilisticClassifier = (*DecisionTreeClassifier)(nil)
)

// DecisionTreeOption is a functional option for DecisionTreeClassifier
type DecisionTreeOption func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates a new DecisionTreeClassifier
func NewDecisionTreeClassifier(opts ...DecisionTreeOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		randomState:     -1,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// WithCriterion sets the split quality measure
func WithCriterion(criterion string) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth sets the maximum depth; a negative value means unlimited
func WithMaxDepth(depth int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum samples needed to split a node
func WithMinSamplesSplit(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum samples in each leaf
func WithMinSamplesLeaf(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets how many features are considered per split:
// nil (all), "sqrt", "log2", "auto", an int count or a float fraction.
func WithMaxFeatures(v interface{}) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxFeatures = v
	}
}

// WithRandomState sets the seed of the feature permutation
func WithRandomState(seed int64) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.randomState = seed
	}
}

// ResolveMaxFeatures turns a max_features setting into a feature count for
// nFeatures columns. "auto" is accepted as the legacy alias of "sqrt" and
// reported through a DeprecationWarning.
func ResolveMaxFeatures(v interface{}, nFeatures int) (int, error) {
	switch x := v.(type) {
	case nil:
		return nFeatures, nil
	case string:
		switch x {
		case "sqrt":
			return max(1, int(math.Sqrt(float64(nFeatures)))), nil
		case "auto":
			errors.Warn(errors.NewDeprecationWarning("max_features", "auto", "sqrt"))
			return max(1, int(math.Sqrt(float64(nFeatures)))), nil
		case "log2":
			return max(1, int(math.Log2(float64(nFeatures)))), nil
		}
		return 0, errors.NewValidationError("max_features", "must be None, 'sqrt', 'log2', an int or a float in (0, 1]", x)
	case int:
		if x < 1 || x > nFeatures {
			return 0, errors.NewValidationError("max_features", fmt.Sprintf("must be in [1, %d]", nFeatures), x)
		}
		return x, nil
	case float64:
		if x <= 0 || x > 1 {
			return 0, errors.NewValidationError("max_features", "must be in (0, 1]", x)
		}
		return max(1, int(x*float64(nFeatures))), nil
	default:
		return 0, errors.NewValidationError("max_features", "must be None, 'sqrt', 'log2', an int or a float in (0, 1]", v)
	}
}

// checkMaxFeatures validates a max_features setting before the feature count is known.
func checkMaxFeatures(v interface{}) error {
	if s, ok := v.(string); ok && s == "auto" {
		return nil
	}
	_, err := ResolveMaxFeatures(v, math.MaxInt32)
	return err
}

func (dt *DecisionTreeClassifier) validate() error {
	switch dt.criterion {
	case "gini", "entropy", "log_loss":
	default:
		return errors.NewValidationError("criterion", "must be 'gini', 'entropy' or 'log_loss'", dt.criterion)
	}
	if dt.maxDepth == 0 {
		return errors.NewValidationError("max_depth", "must be a positive integer or None", dt.maxDepth)
	}
	if dt.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be at least 2", dt.minSamplesSplit)
	}
	if dt.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", dt.minSamplesLeaf)
	}
	return nil
}

// Fit builds the tree from the training set.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	n, _, labels, err := model.ValidateXY("DecisionTreeClassifier.Fit", X, y)
	if err != nil {
		return err
	}
	samples := make([]int, n)
	for i := range samples {
		samples[i] = i
	}
	return dt.fit(X, labels, model.UniqueSorted(labels), samples)
}

// FitSamples fits the tree on the rows of X listed in samples, where a row
// may repeat (bootstrap draws). classes fixes the label set so that trees
// trained on different samples share one probability layout.
func (dt *DecisionTreeClassifier) FitSamples(X, y mat.Matrix, classes []int, samples []int) error {
	_, _, labels, err := model.ValidateXY("DecisionTreeClassifier.FitSamples", X, y)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.NewModelError("DecisionTreeClassifier.FitSamples", "empty data", errors.ErrEmptyData)
	}
	return dt.fit(X, labels, model.UniqueSorted(classes), samples)
}

func (dt *DecisionTreeClassifier) fit(X mat.Matrix, labels, classes, samples []int) error {
	if err := dt.validate(); err != nil {
		return err
	}
	_, d := X.Dims()
	maxFeatures, err := ResolveMaxFeatures(dt.maxFeatures, d)
	if err != nil {
		return err
	}

	idx := model.ClassIndex(classes)
	yIdx := make([]int, len(labels))
	for i, l := range labels {
		k, ok := idx[l]
		if !ok {
			return errors.NewValueError("DecisionTreeClassifier.Fit", fmt.Sprintf("label %d is not in classes %v", l, classes))
		}
		yIdx[i] = k
	}

	seed := uint64(dt.randomState)
	if dt.randomState < 0 {
		seed = rand.Uint64()
	}
	impurity := gini
	if dt.criterion != "gini" {
		impurity = entropy
	}

	b := &builder{
		x:               rowMajor(X),
		y:               yIdx,
		nClasses:        len(classes),
		nFeatures:       d,
		impurity:        impurity,
		maxDepth:        dt.maxDepth,
		minSamplesSplit: dt.minSamplesSplit,
		minSamplesLeaf:  dt.minSamplesLeaf,
		maxFeatures:     maxFeatures,
		rng:             rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	b.build(append([]int(nil), samples...))

	total := 0.0
	for _, v := range b.importances {
		total += v
	}
	if total > 0 {
		for j := range b.importances {
			b.importances[j] /= total
		}
	}

	dt.state.Reset()
	dt.classes_ = classes
	dt.nClasses_ = len(classes)
	dt.nFeatures_ = d
	dt.maxFeatures_ = maxFeatures
	dt.nodes = b.nodes
	dt.featureImportances_ = b.importances
	dt.state.SetDimensions(d, len(samples))
	dt.state.SetFitted()
	return nil
}

// rowMajor returns a row-major view of X without copying when X is dense.
func rowMajor(X mat.Matrix) rowData {
	if d, ok := X.(*mat.Dense); ok {
		raw := d.RawMatrix()
		return rowData{data: raw.Data, stride: raw.Stride}
	}
	c := mat.DenseCopyOf(X)
	raw := c.RawMatrix()
	return rowData{data: raw.Data, stride: raw.Stride}
}

func (dt *DecisionTreeClassifier) leaf(x rowData, i int) *node {
	nd := &dt.nodes[0]
	for !nd.isLeaf() {
		if x.at(i, nd.feature) <= nd.threshold {
			nd = &dt.nodes[nd.left]
		} else {
			nd = &dt.nodes[nd.right]
		}
	}
	return nd
}

func (dt *DecisionTreeClassifier) checkPredict(op string, X mat.Matrix) (int, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", op); err != nil {
		return 0, err
	}
	n, d, err := model.ValidateX("DecisionTreeClassifier."+op, X)
	if err != nil {
		return 0, err
	}
	if d != dt.nFeatures_ {
		return 0, errors.NewDimensionError("DecisionTreeClassifier."+op, dt.nFeatures_, d, 1)
	}
	return n, nil
}

// PredictProba returns the class distribution of the leaf each row reaches.
// Columns follow Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	n, err := dt.checkPredict("PredictProba", X)
	if err != nil {
		return nil, err
	}
	x := rowMajor(X)
	out := mat.NewDense(n, dt.nClasses_, nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, dt.leaf(x, i).value)
	}
	return out, nil
}

// Predict returns the majority class of the leaf each row reaches.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, err := dt.checkPredict("Predict", X)
	if err != nil {
		return nil, err
	}
	x := rowMajor(X)
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		v := dt.leaf(x, i).value
		best := 0
		for k := 1; k < len(v); k++ {
			if v[k] > v[best] {
				best = k
			}
		}
		out.Set(i, 0, float64(dt.classes_[best]))
	}
	return out, nil
}

// Score returns the mean accuracy on the given data, or 0 if prediction fails.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0
	}
	acc, err := metrics.AccuracyScore(y, pred)
	if err != nil {
		return 0
	}
	return acc
}

// Classes returns the class labels seen during fitting.
func (dt *DecisionTreeClassifier) Classes() []int {
	return append([]int(nil), dt.classes_...)
}

// GetFeatureImportances returns the normalised total impurity decrease
// contributed by each feature.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return append([]float64(nil), dt.featureImportances_...)
}

// GetDepth returns the depth of the deepest leaf; a single-leaf tree has depth 0.
func (dt *DecisionTreeClassifier) GetDepth() int {
	depth := 0
	for i := range dt.nodes {
		depth = max(depth, dt.nodes[i].depth)
	}
	return depth
}

// GetNLeaves returns the number of leaves.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	leaves := 0
	for i := range dt.nodes {
		if dt.nodes[i].isLeaf() {
			leaves++
		}
	}
	return leaves
}

// NodeCount returns the number of nodes.
func (dt *DecisionTreeClassifier) NodeCount() int {
	return len(dt.nodes)
}

var decisionTreeDefaults = map[string]interface{}{
	"criterion":         "gini",
	"max_depth":         nil,
	"min_samples_split": 2,
	"min_samples_leaf":  1,
	"max_features":      nil,
	"random_state":      nil,
}

// GetParams returns the hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	var depth, seed interface{}
	if dt.maxDepth > 0 {
		depth = dt.maxDepth
	}
	if dt.randomState >= 0 {
		seed = int(dt.randomState)
	}
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         depth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
		"max_features":      dt.maxFeatures,
		"random_state":      seed,
	}
}

// SetParams sets hyperparameters by name.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "criterion":
			dt.criterion, err = model.ToString(k, v)
		case "max_depth":
			if v == nil {
				dt.maxDepth = -1
				continue
			}
			dt.maxDepth, err = model.ToInt(k, v)
		case "min_samples_split":
			dt.minSamplesSplit, err = model.ToInt(k, v)
		case "min_samples_leaf":
			dt.minSamplesLeaf, err = model.ToInt(k, v)
		case "max_features":
			if err = checkMaxFeatures(v); err == nil {
				dt.maxFeatures = v
			}
		case "random_state":
			if v == nil {
				dt.randomState = -1
				continue
			}
			var seed int
			seed, err = model.ToInt(k, v)
			dt.randomState = int64(seed)
		default:
			return model.UnknownParam("DecisionTreeClassifier", k, v)
		}
		if err != nil {
			return err
		}
	}
	return dt.validate()
}

// String returns the scikit-learn style representation.
func (dt *DecisionTreeClassifier) String() string {
	return model.Repr("DecisionTreeClassifier", dt.GetParams(), decisionTreeDefaults)
}
