// Package ensemble provides ensembles of decision trees.
package ensemble

import (
	"math/rand/v2"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/parallel"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/tree"
)

// RandomForestClassifier averages the class probabilities of decision trees
// grown on bootstrap samples with a random feature subset per split.
type RandomForestClassifier struct {
	state *model.StateManager

	nEstimators     int
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     interface{}
	bootstrap       bool
	nJobs           int
	randomState     int64

	classes_            []int
	nFeatures_          int
	estimators_         []*tree.DecisionTreeClassifier
	featureImportances_ []float64
}

var (
	_ model.Tunable                 = (*RandomForestClassifier)(nil)
	_ model.ProbabilisticClassifier = (*RandomForestClassifier)(nil)
)

// Option configures a RandomForestClassifier.
type Option func(*RandomForestClassifier)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option {
	return func(rf *RandomForestClassifier) { rf.nEstimators = n }
}

// WithCriterion sets the split quality measure of every tree.
func WithCriterion(c string) Option {
	return func(rf *RandomForestClassifier) { rf.criterion = c }
}

// WithMaxDepth limits tree depth; a negative value means unlimited.
func WithMaxDepth(d int) Option {
	return func(rf *RandomForestClassifier) { rf.maxDepth = d }
}

// WithMinSamplesSplit sets the minimum samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(rf *RandomForestClassifier) { rf.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(rf *RandomForestClassifier) { rf.minSamplesLeaf = n }
}

// WithMaxFeatures sets the per-split feature budget, see tree.WithMaxFeatures.
func WithMaxFeatures(v interface{}) Option {
	return func(rf *RandomForestClassifier) { rf.maxFeatures = v }
}

// WithBootstrap toggles sampling rows with replacement.
func WithBootstrap(b bool) Option {
	return func(rf *RandomForestClassifier) { rf.bootstrap = b }
}

// WithNJobs sets the number of trees fitted concurrently (-1 = all CPUs).
func WithNJobs(n int) Option {
	return func(rf *RandomForestClassifier) { rf.nJobs = n }
}

// WithRandomState fixes the seed; a negative value draws a fresh one per Fit.
func WithRandomState(seed int64) Option {
	return func(rf *RandomForestClassifier) { rf.randomState = seed }
}

// NewRandomForestClassifier creates a forest with scikit-learn defaults.
func NewRandomForestClassifier(opts ...Option) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		state:           model.NewStateManager(),
		nEstimators:     100,
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     "sqrt",
		bootstrap:       true,
		nJobs:           1,
		randomState:     -1,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

func (rf *RandomForestClassifier) validate() error {
	if rf.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be a positive integer", rf.nEstimators)
	}
	switch rf.criterion {
	case "gini", "entropy", "log_loss":
	default:
		return errors.NewValidationError("criterion", "must be 'gini', 'entropy' or 'log_loss'", rf.criterion)
	}
	return nil
}

// Fit grows nEstimators trees in parallel.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	if err := rf.validate(); err != nil {
		return err
	}
	n, d, labels, err := model.ValidateXY("RandomForestClassifier.Fit", X, y)
	if err != nil {
		return err
	}
	classes := model.UniqueSorted(labels)
	// resolve once so a deprecated alias warns once per forest, not per tree
	maxFeatures := rf.maxFeatures
	if s, ok := maxFeatures.(string); ok && s == "auto" {
		if _, err := tree.ResolveMaxFeatures(s, d); err != nil {
			return err
		}
		maxFeatures = "sqrt"
	}

	dense, ok := X.(*mat.Dense)
	if !ok {
		dense = mat.DenseCopyOf(X)
	}

	seed := uint64(rf.randomState)
	if rf.randomState < 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// all randomness is drawn up front so the result does not depend on n_jobs
	trees := make([]*tree.DecisionTreeClassifier, rf.nEstimators)
	samples := make([][]int, rf.nEstimators)
	for t := range trees {
		trees[t] = tree.NewDecisionTreeClassifier(
			tree.WithCriterion(rf.criterion),
			tree.WithMaxDepth(rf.maxDepth),
			tree.WithMinSamplesSplit(rf.minSamplesSplit),
			tree.WithMinSamplesLeaf(rf.minSamplesLeaf),
			tree.WithMaxFeatures(maxFeatures),
			tree.WithRandomState(int64(rng.Uint64()>>1)),
		)
		idx := make([]int, n)
		for i := range idx {
			if rf.bootstrap {
				idx[i] = rng.IntN(n)
			} else {
				idx[i] = i
			}
		}
		samples[t] = idx
	}

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	parallel.ParallelizeN(rf.nEstimators, parallel.Workers(rf.nJobs), func(start, end int) {
		for t := start; t < end; t++ {
			if err := trees[t].FitSamples(dense, y, classes, samples[t]); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
		}
	})
	if err := errs.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "RandomForestClassifier.Fit")
	}

	importances := make([]float64, d)
	for _, t := range trees {
		for j, v := range t.GetFeatureImportances() {
			importances[j] += v / float64(len(trees))
		}
	}

	rf.state.Reset()
	rf.classes_ = classes
	rf.nFeatures_ = d
	rf.estimators_ = trees
	rf.featureImportances_ = importances
	rf.state.SetDimensions(d, n)
	rf.state.SetFitted()
	return nil
}

// PredictProba averages the leaf distributions of all trees.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := rf.state.RequireFitted("RandomForestClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	n, d, err := model.ValidateX("RandomForestClassifier.PredictProba", X)
	if err != nil {
		return nil, err
	}
	if err := rf.state.RequireFeatures("RandomForestClassifier.PredictProba", d); err != nil {
		return nil, err
	}
	dense, ok := X.(*mat.Dense)
	if !ok {
		dense = mat.DenseCopyOf(X)
	}

	out := mat.NewDense(n, len(rf.classes_), nil)
	var mu sync.Mutex
	var firstErr error
	parallel.ParallelizeN(len(rf.estimators_), parallel.Workers(rf.nJobs), func(start, end int) {
		local := mat.NewDense(n, len(rf.classes_), nil)
		for t := start; t < end; t++ {
			p, err := rf.estimators_[t].PredictProba(dense)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			local.Add(local, p)
		}
		mu.Lock()
		out.Add(out, local)
		mu.Unlock()
	})
	if firstErr != nil {
		return nil, firstErr
	}
	out.Scale(1/float64(len(rf.estimators_)), out)
	return out, nil
}

// Predict returns the class with the highest averaged probability.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, k := proba.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best := 0
		for c := 1; c < k; c++ {
			if proba.At(i, c) > proba.At(i, best) {
				best = c
			}
		}
		out.Set(i, 0, float64(rf.classes_[best]))
	}
	return out, nil
}

// Score returns the mean accuracy on the given data.
func (rf *RandomForestClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// Classes returns the class labels seen during fitting.
func (rf *RandomForestClassifier) Classes() []int {
	return append([]int(nil), rf.classes_...)
}

// Estimators returns the fitted trees.
func (rf *RandomForestClassifier) Estimators() []*tree.DecisionTreeClassifier {
	return rf.estimators_
}

// FeatureImportances returns the mean impurity decrease per feature.
func (rf *RandomForestClassifier) FeatureImportances() []float64 {
	return append([]float64(nil), rf.featureImportances_...)
}

var forestDefaults = map[string]interface{}{
	"n_estimators":      100,
	"criterion":         "gini",
	"max_depth":         nil,
	"min_samples_split": 2,
	"min_samples_leaf":  1,
	"max_features":      "sqrt",
	"bootstrap":         true,
	"n_jobs":            nil,
	"random_state":      nil,
}

// GetParams returns the hyperparameters under scikit-learn names.
func (rf *RandomForestClassifier) GetParams() map[string]interface{} {
	var depth, seed, jobs interface{}
	if rf.maxDepth > 0 {
		depth = rf.maxDepth
	}
	if rf.randomState >= 0 {
		seed = int(rf.randomState)
	}
	if rf.nJobs != 1 {
		jobs = rf.nJobs
	}
	return map[string]interface{}{
		"n_estimators":      rf.nEstimators,
		"criterion":         rf.criterion,
		"max_depth":         depth,
		"min_samples_split": rf.minSamplesSplit,
		"min_samples_leaf":  rf.minSamplesLeaf,
		"max_features":      rf.maxFeatures,
		"bootstrap":         rf.bootstrap,
		"n_jobs":            jobs,
		"random_state":      seed,
	}
}

// SetParams sets hyperparameters by scikit-learn name.
func (rf *RandomForestClassifier) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "n_estimators":
			rf.nEstimators, err = model.ToInt(k, v)
		case "criterion":
			rf.criterion, err = model.ToString(k, v)
		case "max_depth":
			if v == nil {
				rf.maxDepth = -1
				continue
			}
			rf.maxDepth, err = model.ToInt(k, v)
		case "min_samples_split":
			rf.minSamplesSplit, err = model.ToInt(k, v)
		case "min_samples_leaf":
			rf.minSamplesLeaf, err = model.ToInt(k, v)
		case "max_features":
			switch v.(type) {
			case nil, string, int, float64:
				rf.maxFeatures = v
			default:
				err = errors.NewValidationError(k, "must be None, a string, an int or a float", v)
			}
		case "bootstrap":
			rf.bootstrap, err = model.ToBool(k, v)
		case "n_jobs":
			if v == nil {
				rf.nJobs = 1
				continue
			}
			rf.nJobs, err = model.ToInt(k, v)
		case "random_state":
			if v == nil {
				rf.randomState = -1
				continue
			}
			var seed int
			seed, err = model.ToInt(k, v)
			rf.randomState = int64(seed)
		default:
			return model.UnknownParam("RandomForestClassifier", k, v)
		}
		if err != nil {
			return err
		}
	}
	return rf.validate()
}

// String returns the scikit-learn style representation.
func (rf *RandomForestClassifier) String() string {
	return model.Repr("RandomForestClassifier", rf.GetParams(), forestDefaults)
}
