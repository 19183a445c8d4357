// Package naive_bayes implements naive Bayes classifiers for count features.
package naive_bayes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// alphaFloor is the smallest smoothing value used; smaller values are raised
// to it so that unseen features never produce log(0).
const alphaFloor = 1e-10

// MultinomialNB is the multinomial naive Bayes classifier, suited to word
// counts. Compatible with scikit-learn's MultinomialNB.
type MultinomialNB struct {
	state *model.StateManager

	// Hyperparameters
	alpha      float64   // Additive (Laplace/Lidstone) smoothing
	fitPrior   bool      // Learn class priors; uniform otherwise
	classPrior []float64 // Fixed priors, overrides fitPrior when set

	// Model parameters
	classes_        []int
	classCount_     []float64  // samples per class
	featureCount_   *mat.Dense // n_classes x n_features summed counts
	classLogPrior_  []float64
	featureLogProb_ *mat.Dense // n_classes x n_features
	nFeatures_      int
	nSamplesSeen_   int
}

var (
	_ model.Tunable                 = (*MultinomialNB)(nil)
	_ model.ProbabilisticClassifier = (*MultinomialNB)(nil)
)

// MultinomialNBOption is a functional option for MultinomialNB
type MultinomialNBOption func(*MultinomialNB)

// NewMultinomialNB creates a new MultinomialNB classifier
func NewMultinomialNB(opts ...MultinomialNBOption) *MultinomialNB {
	nb := &MultinomialNB{
		state:    model.NewStateManager(),
		alpha:    1.0,
		fitPrior: true,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// WithAlpha sets the smoothing parameter
func WithAlpha(alpha float64) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.alpha = alpha
	}
}

// WithFitPrior sets whether class priors are learned from the data
func WithFitPrior(fitPrior bool) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.fitPrior = fitPrior
	}
}

// WithClassPrior fixes the class priors
func WithClassPrior(prior []float64) MultinomialNBOption {
	return func(nb *MultinomialNB) {
		nb.classPrior = append([]float64(nil), prior...)
	}
}

// Fit trains the classifier from scratch.
func (nb *MultinomialNB) Fit(X, y mat.Matrix) error {
	_, _, labels, err := model.ValidateXY("MultinomialNB.Fit", X, y)
	if err != nil {
		return err
	}
	nb.state.Reset()
	nb.nSamplesSeen_ = 0
	return nb.update(X, labels, model.UniqueSorted(labels))
}

// PartialFit updates the classifier with one batch. The complete set of
// classes must be passed on the first call and may be nil afterwards.
func (nb *MultinomialNB) PartialFit(X, y mat.Matrix, classes []int) error {
	_, _, labels, err := model.ValidateXY("MultinomialNB.PartialFit", X, y)
	if err != nil {
		return err
	}
	if !nb.state.IsFitted() {
		if len(classes) == 0 {
			return errors.NewValueError("MultinomialNB.PartialFit", "classes must be passed on the first call to PartialFit")
		}
		return nb.update(X, labels, model.UniqueSorted(classes))
	}
	if len(classes) > 0 {
		want := model.UniqueSorted(classes)
		if fmt.Sprint(want) != fmt.Sprint(nb.classes_) {
			return errors.NewValueError("MultinomialNB.PartialFit",
				fmt.Sprintf("classes=%v is not the same as on the first call %v", want, nb.classes_))
		}
	}
	return nb.update(X, labels, nil)
}

// update accumulates counts; classes is non-nil when the model is (re)initialised.
func (nb *MultinomialNB) update(X mat.Matrix, labels []int, classes []int) error {
	n, d := X.Dims()
	if err := checkNonNegative(X); err != nil {
		return err
	}
	if nb.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", nb.alpha)
	}

	known := classes
	if known == nil {
		known = nb.classes_
	}
	idx := model.ClassIndex(known)
	for i, l := range labels {
		if _, ok := idx[l]; !ok {
			return errors.NewValueError("MultinomialNB.Fit",
				fmt.Sprintf("label %d at row %d is not in classes %v", l, i, known))
		}
	}

	if classes != nil {
		if nb.classPrior != nil && len(nb.classPrior) != len(classes) {
			return errors.NewValidationError("class_prior", "number of priors must match number of classes", nb.classPrior)
		}
		nb.classes_ = classes
		nb.nFeatures_ = d
		nb.classCount_ = make([]float64, len(classes))
		nb.featureCount_ = mat.NewDense(len(classes), d, nil)
	} else if d != nb.nFeatures_ {
		return errors.NewDimensionError("MultinomialNB.PartialFit", nb.nFeatures_, d, 1)
	}

	for i := 0; i < n; i++ {
		k := idx[labels[i]]
		nb.classCount_[k]++
		row := nb.featureCount_.RawRowView(k)
		for j := 0; j < d; j++ {
			row[j] += X.At(i, j)
		}
	}

	nb.updateFeatureLogProb()
	nb.updateClassLogPrior()
	nb.nSamplesSeen_ += n
	nb.state.SetDimensions(d, nb.nSamplesSeen_)
	nb.state.SetFitted()
	return nil
}

func checkNonNegative(X mat.Matrix) error {
	n, d := X.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			if X.At(i, j) < 0 {
				return errors.NewValueError("MultinomialNB", "negative values in data passed to MultinomialNB (input X)")
			}
		}
	}
	return nil
}

func (nb *MultinomialNB) effectiveAlpha() float64 {
	if nb.alpha < alphaFloor {
		errors.Warn(errors.NewValidationError("alpha",
			fmt.Sprintf("too small, setting alpha = %.1e", alphaFloor), nb.alpha))
		return alphaFloor
	}
	return nb.alpha
}

func (nb *MultinomialNB) updateFeatureLogProb() {
	alpha := nb.effectiveAlpha()
	k, d := nb.featureCount_.Dims()
	nb.featureLogProb_ = mat.NewDense(k, d, nil)
	for c := 0; c < k; c++ {
		counts := nb.featureCount_.RawRowView(c)
		total := 0.0
		for _, v := range counts {
			total += v + alpha
		}
		logTotal := math.Log(total)
		out := nb.featureLogProb_.RawRowView(c)
		for j, v := range counts {
			out[j] = math.Log(v+alpha) - logTotal
		}
	}
}

func (nb *MultinomialNB) updateClassLogPrior() {
	k := len(nb.classes_)
	nb.classLogPrior_ = make([]float64, k)
	switch {
	case nb.classPrior != nil:
		for c, p := range nb.classPrior {
			nb.classLogPrior_[c] = math.Log(p)
		}
	case nb.fitPrior:
		total := 0.0
		for _, v := range nb.classCount_ {
			total += v
		}
		for c, v := range nb.classCount_ {
			nb.classLogPrior_[c] = math.Log(v) - math.Log(total)
		}
	default:
		for c := range nb.classLogPrior_ {
			nb.classLogPrior_[c] = -math.Log(float64(k))
		}
	}
}

// jointLogLikelihood returns X·featureLogProbᵀ + classLogPrior.
func (nb *MultinomialNB) jointLogLikelihood(op string, X mat.Matrix) (*mat.Dense, error) {
	if err := nb.state.RequireFitted("MultinomialNB", op); err != nil {
		return nil, err
	}
	n, d, err := model.ValidateX("MultinomialNB."+op, X)
	if err != nil {
		return nil, err
	}
	if d != nb.nFeatures_ {
		return nil, errors.NewDimensionError("MultinomialNB."+op, nb.nFeatures_, d, 1)
	}
	jll := mat.NewDense(n, len(nb.classes_), nil)
	jll.Mul(X, nb.featureLogProb_.T())
	for i := 0; i < n; i++ {
		row := jll.RawRowView(i)
		for c := range row {
			row[c] += nb.classLogPrior_[c]
		}
	}
	return jll, nil
}

// Predict returns the most probable class for each row.
func (nb *MultinomialNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	jll, err := nb.jointLogLikelihood("Predict", X)
	if err != nil {
		return nil, err
	}
	n, _ := jll.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		row := jll.RawRowView(i)
		best := 0
		for c := 1; c < len(row); c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		out.Set(i, 0, float64(nb.classes_[best]))
	}
	return out, nil
}

// PredictLogProba returns log class probabilities, normalised per row with
// log-sum-exp.
func (nb *MultinomialNB) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	jll, err := nb.jointLogLikelihood("PredictLogProba", X)
	if err != nil {
		return nil, err
	}
	n, _ := jll.Dims()
	for i := 0; i < n; i++ {
		row := jll.RawRowView(i)
		norm := errors.LogSumExp(row)
		for c := range row {
			row[c] -= norm
		}
	}
	return jll, nil
}

// PredictProba returns class probabilities; columns follow Classes().
func (nb *MultinomialNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	logProba, err := nb.PredictLogProba(X)
	if err != nil {
		return nil, err
	}
	proba := logProba.(*mat.Dense)
	proba.Apply(func(_, _ int, v float64) float64 { return math.Exp(v) }, proba)
	return proba, nil
}

// Score returns the mean accuracy on the given data.
func (nb *MultinomialNB) Score(X, y mat.Matrix) (float64, error) {
	pred, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// Classes returns the class labels seen during fitting.
func (nb *MultinomialNB) Classes() []int {
	return append([]int(nil), nb.classes_...)
}

// NSamplesSeen returns the number of samples used across Fit/PartialFit.
func (nb *MultinomialNB) NSamplesSeen() int {
	return nb.nSamplesSeen_
}

// FeatureLogProb returns the smoothed log P(feature | class).
func (nb *MultinomialNB) FeatureLogProb() *mat.Dense {
	if nb.featureLogProb_ == nil {
		return nil
	}
	return mat.DenseCopyOf(nb.featureLogProb_)
}

// ClassLogPrior returns the log class priors.
func (nb *MultinomialNB) ClassLogPrior() []float64 {
	return append([]float64(nil), nb.classLogPrior_...)
}

var multinomialNBDefaults = map[string]interface{}{
	"alpha":       1.0,
	"fit_prior":   true,
	"class_prior": nil,
}

// GetParams returns the hyperparameters.
func (nb *MultinomialNB) GetParams() map[string]interface{} {
	var prior interface{}
	if nb.classPrior != nil {
		prior = append([]float64(nil), nb.classPrior...)
	}
	return map[string]interface{}{
		"alpha":       nb.alpha,
		"fit_prior":   nb.fitPrior,
		"class_prior": prior,
	}
}

// SetParams sets hyperparameters by name.
func (nb *MultinomialNB) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		switch k {
		case "alpha":
			a, err := model.ToFloat(k, v)
			if err != nil {
				return err
			}
			if a < 0 {
				return errors.NewValidationError(k, "must be non-negative", v)
			}
			nb.alpha = a
		case "fit_prior":
			b, err := model.ToBool(k, v)
			if err != nil {
				return err
			}
			nb.fitPrior = b
		case "class_prior":
			if v == nil {
				nb.classPrior = nil
				continue
			}
			p, ok := v.([]float64)
			if !ok {
				return errors.NewValidationError(k, "must be a []float64 or nil", v)
			}
			nb.classPrior = append([]float64(nil), p...)
		default:
			return model.UnknownParam("MultinomialNB", k, v)
		}
	}
	return nil
}

// String returns the scikit-learn style representation.
func (nb *MultinomialNB) String() string {
	return model.Repr("MultinomialNB", nb.GetParams(), multinomialNBDefaults)
}
