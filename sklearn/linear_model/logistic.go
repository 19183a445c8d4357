// Package linear_model provides linear classifiers.
package linear_model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// LogisticRegression implements logistic regression for classification
// Compatible with scikit-learn's LogisticRegression with the lbfgs solver:
// binary problems use the logistic loss, multiclass problems the
// multinomial (softmax) loss.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // Regularization: "l2" or "none"
	C            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	classWeight  string  // Class weight: "balanced" or "" (uniform)
	randomState  int64   // Accepted for compatibility; lbfgs is deterministic
	solver       string  // Solver: "lbfgs"
	maxIter      int     // Maximum iterations
	warmStart    bool    // Reuse previous solution
	tol          float64 // Tolerance for stopping

	// Model parameters
	coef_      [][]float64 // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_ []float64   // Intercept terms
	classes_   []int       // Unique class labels
	nClasses_  int         // Number of classes
	nFeatures_ int         // Number of features
	nIter_     int         // Iterations used by the solver
}

var (
	_ model.Tunable                 = (*LogisticRegression)(nil)
	_ model.ProbabilisticClassifier = (*LogisticRegression)(nil)
)

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		randomState:  -1,
		solver:       "lbfgs",
		maxIter:      100,
		tol:          1e-4,
	}

	// Apply options
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Option functions

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRSolver sets the optimization solver
func WithLRSolver(solver string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.solver = solver
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRClassWeight sets "balanced" class weights; "" means uniform
func WithLRClassWeight(w string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.classWeight = w
	}
}

// WithLRWarmStart reuses the previous coefficients as the starting point
func WithLRWarmStart(warm bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.warmStart = warm
	}
}

// WithLRRandomState sets the random seed
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

func (lr *LogisticRegression) validate() error {
	if lr.C <= 0 {
		return errors.NewValidationError("C", "must be strictly positive", lr.C)
	}
	if lr.solver != "lbfgs" {
		return errors.NewValidationError("solver", "only 'lbfgs' is supported", lr.solver)
	}
	switch lr.penalty {
	case "l2", "none", "":
	default:
		return errors.NewValidationError("penalty", "solver lbfgs supports only 'l2' or 'none' penalties", lr.penalty)
	}
	switch lr.classWeight {
	case "", "balanced":
	default:
		return errors.NewValidationError("class_weight", "must be None or 'balanced'", lr.classWeight)
	}
	if lr.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be a positive integer", lr.maxIter)
	}
	if lr.tol <= 0 {
		return errors.NewValidationError("tol", "must be strictly positive", lr.tol)
	}
	return nil
}

// Fit trains the logistic regression model
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	if err := lr.validate(); err != nil {
		return err
	}
	nSamples, nFeatures, labels, err := model.ValidateXY("LogisticRegression.Fit", X, y)
	if err != nil {
		return err
	}
	classes := model.UniqueSorted(labels)
	if len(classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("this solver needs samples of at least 2 classes in the data, but the data contains only one class: %d", classes[0]))
	}

	// Binary problems have one coefficient row, multinomial ones K rows.
	k := len(classes)
	rows := k
	if k == 2 {
		rows = 1
	}

	p := &logisticProblem{
		X:            mat.DenseCopyOf(X),
		rows:         rows,
		nFeatures:    nFeatures,
		fitIntercept: lr.fitIntercept,
	}
	idx := model.ClassIndex(classes)
	p.target = make([]int, nSamples)
	for i, l := range labels {
		p.target[i] = idx[l]
	}
	p.sw = sampleWeights(p.target, k, lr.classWeight)
	total := 0.0
	for _, w := range p.sw {
		total += w
	}
	p.swSum = total
	if lr.penalty == "l2" {
		p.alpha = 1 / (lr.C * total)
	}

	x0 := make([]float64, p.size())
	if lr.warmStart && lr.coef_ != nil && len(lr.coef_) == rows && lr.nFeatures_ == nFeatures {
		for r := 0; r < rows; r++ {
			copy(x0[r*nFeatures:], lr.coef_[r])
			if lr.fitIntercept {
				x0[rows*nFeatures+r] = lr.intercept_[r]
			}
		}
	}

	settings := &optimize.Settings{
		GradientThreshold: lr.tol,
		MajorIterations:   lr.maxIter,
	}
	result, err := optimize.Minimize(optimize.Problem{Func: p.loss, Grad: p.grad}, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return errors.Wrap(err, "LogisticRegression.Fit")
	}
	switch {
	case result.Status == optimize.IterationLimit:
		errors.Warn(errors.NewConvergenceWarning("lbfgs", result.MajorIterations,
			"STOP: TOTAL NO. OF ITERATIONS REACHED LIMIT. Increase the number of iterations (max_iter) or scale the data."))
	case err != nil:
		// line search stalls leave the best point found so far in result
		errors.Warn(errors.NewConvergenceWarning("lbfgs", result.MajorIterations, err.Error()))
	}

	lr.state.Reset()
	lr.classes_ = classes
	lr.nClasses_ = k
	lr.nFeatures_ = nFeatures
	lr.nIter_ = result.MajorIterations
	lr.coef_ = make([][]float64, rows)
	lr.intercept_ = make([]float64, rows)
	for r := 0; r < rows; r++ {
		lr.coef_[r] = append([]float64(nil), result.X[r*nFeatures:(r+1)*nFeatures]...)
		if lr.fitIntercept {
			lr.intercept_[r] = result.X[rows*nFeatures+r]
		}
	}
	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// sampleWeights returns 1 per row, or n / (k * count(class)) when balanced.
func sampleWeights(target []int, k int, classWeight string) []float64 {
	sw := make([]float64, len(target))
	if classWeight != "balanced" {
		for i := range sw {
			sw[i] = 1
		}
		return sw
	}
	counts := make([]float64, k)
	for _, c := range target {
		counts[c]++
	}
	for i, c := range target {
		sw[i] = float64(len(target)) / (float64(k) * counts[c])
	}
	return sw
}

// logisticProblem is the weighted mean log loss plus alpha/2 ||W||².
// The parameter vector holds W row-major followed by one intercept per row.
type logisticProblem struct {
	X            *mat.Dense
	target       []int
	sw           []float64
	swSum        float64
	rows         int
	nFeatures    int
	fitIntercept bool
	alpha        float64
}

func (p *logisticProblem) size() int {
	n := p.rows * p.nFeatures
	if p.fitIntercept {
		n += p.rows
	}
	return n
}

// scores returns X·Wᵀ + b for the parameter vector x.
func (p *logisticProblem) scores(x []float64) *mat.Dense {
	n, _ := p.X.Dims()
	W := mat.NewDense(p.rows, p.nFeatures, x[:p.rows*p.nFeatures])
	Z := mat.NewDense(n, p.rows, nil)
	Z.Mul(p.X, W.T())
	if p.fitIntercept {
		b := x[p.rows*p.nFeatures:]
		for i := 0; i < n; i++ {
			row := Z.RawRowView(i)
			for r := range row {
				row[r] += b[r]
			}
		}
	}
	return Z
}

// residuals returns the weighted loss and the weighted derivative of the
// loss with respect to each score.
func (p *logisticProblem) residuals(x []float64) (float64, *mat.Dense) {
	Z := p.scores(x)
	n, _ := Z.Dims()
	R := mat.NewDense(n, p.rows, nil)
	loss := 0.0
	for i := 0; i < n; i++ {
		z := Z.RawRowView(i)
		r := R.RawRowView(i)
		w := p.sw[i] / p.swSum
		if p.rows == 1 {
			yi := 0.0
			if p.target[i] == 1 {
				yi = 1
			}
			// log(1+exp(z)) - y z, evaluated stably
			loss += w * (softplus(z[0]) - yi*z[0])
			r[0] = w * (sigmoid(z[0]) - yi)
			continue
		}
		lse := errors.LogSumExp(z)
		loss += w * (lse - z[p.target[i]])
		for c := range z {
			r[c] = w * math.Exp(z[c]-lse)
		}
		r[p.target[i]] -= w
	}
	return loss, R
}

func (p *logisticProblem) penalty(x []float64) float64 {
	if p.alpha == 0 {
		return 0
	}
	w := x[:p.rows*p.nFeatures]
	v := mat.NewVecDense(len(w), w)
	return 0.5 * p.alpha * mat.Dot(v, v)
}

func (p *logisticProblem) loss(x []float64) float64 {
	loss, _ := p.residuals(x)
	return loss + p.penalty(x)
}

func (p *logisticProblem) grad(grad, x []float64) {
	_, R := p.residuals(x)
	n, _ := R.Dims()
	G := mat.NewDense(p.rows, p.nFeatures, grad[:p.rows*p.nFeatures])
	G.Mul(R.T(), p.X)
	if p.alpha != 0 {
		W := mat.NewDense(p.rows, p.nFeatures, x[:p.rows*p.nFeatures])
		G.Add(G, scaled(p.alpha, W))
	}
	if p.fitIntercept {
		gb := grad[p.rows*p.nFeatures:]
		for r := range gb {
			gb[r] = 0
		}
		for i := 0; i < n; i++ {
			for r, v := range R.RawRowView(i) {
				gb[r] += v
			}
		}
	}
}

func scaled(a float64, m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Scale(a, m)
	return &out
}

// decision returns the n x rows score matrix for fitted coefficients.
func (lr *LogisticRegression) decision(op string, X mat.Matrix) (*mat.Dense, error) {
	if err := lr.state.RequireFitted("LogisticRegression", op); err != nil {
		return nil, err
	}
	n, d, err := model.ValidateX("LogisticRegression."+op, X)
	if err != nil {
		return nil, err
	}
	if err := lr.state.RequireFeatures("LogisticRegression."+op, d); err != nil {
		return nil, err
	}
	rows := len(lr.coef_)
	W := mat.NewDense(rows, d, nil)
	for r := range lr.coef_ {
		W.SetRow(r, lr.coef_[r])
	}
	Z := mat.NewDense(n, rows, nil)
	Z.Mul(X, W.T())
	for i := 0; i < n; i++ {
		row := Z.RawRowView(i)
		for r := range row {
			row[r] += lr.intercept_[r]
		}
	}
	return Z, nil
}

// DecisionFunction returns the signed distance to the hyperplane for binary
// problems (n x 1, positive favours Classes()[1]) and the class scores
// otherwise.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	return lr.decision("DecisionFunction", X)
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	Z, err := lr.decision("Predict", X)
	if err != nil {
		return nil, err
	}
	nSamples, _ := Z.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		z := Z.RawRowView(i)
		if len(z) == 1 {
			if z[0] > 0 {
				predictions.Set(i, 0, float64(lr.classes_[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes_[0]))
			}
			continue
		}
		best := 0
		for c := 1; c < len(z); c++ {
			if z[c] > z[best] {
				best = c
			}
		}
		predictions.Set(i, 0, float64(lr.classes_[best]))
	}
	return predictions, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	Z, err := lr.decision("PredictProba", X)
	if err != nil {
		return nil, err
	}
	nSamples, _ := Z.Dims()
	probas := mat.NewDense(nSamples, lr.nClasses_, nil)
	for i := 0; i < nSamples; i++ {
		z := Z.RawRowView(i)
		if len(z) == 1 {
			prob1 := sigmoid(z[0])
			probas.Set(i, 0, 1.0-prob1)
			probas.Set(i, 1, prob1)
			continue
		}
		// softmax
		lse := errors.LogSumExp(z)
		for c := range z {
			probas.Set(i, c, math.Exp(z[c]-lse))
		}
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) float64 {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0.0
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples)
}

// Classes returns the class labels seen during fitting.
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// Coef returns a copy of the coefficients.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef_))
	for r := range lr.coef_ {
		out[r] = append([]float64(nil), lr.coef_[r]...)
	}
	return out
}

// Intercept returns a copy of the intercepts.
func (lr *LogisticRegression) Intercept() []float64 {
	return append([]float64(nil), lr.intercept_...)
}

// NIter returns the number of solver iterations of the last Fit.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter_
}

var logisticDefaults = map[string]interface{}{
	"penalty":       "l2",
	"C":             1.0,
	"fit_intercept": true,
	"class_weight":  nil,
	"random_state":  nil,
	"solver":        "lbfgs",
	"max_iter":      100,
	"warm_start":    false,
	"tol":           1e-4,
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	var classWeight, seed interface{}
	if lr.classWeight != "" {
		classWeight = lr.classWeight
	}
	if lr.randomState >= 0 {
		seed = int(lr.randomState)
	}
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"class_weight":  classWeight,
		"random_state":  seed,
		"solver":        lr.solver,
		"max_iter":      lr.maxIter,
		"warm_start":    lr.warmStart,
		"tol":           lr.tol,
	}
}

// SetParams sets the model hyperparameters
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		var err error
		switch key {
		case "penalty":
			if value == nil {
				lr.penalty = "none"
				continue
			}
			lr.penalty, err = model.ToString(key, value)
		case "C":
			lr.C, err = model.ToFloat(key, value)
		case "fit_intercept":
			lr.fitIntercept, err = model.ToBool(key, value)
		case "class_weight":
			if value == nil {
				lr.classWeight = ""
				continue
			}
			lr.classWeight, err = model.ToString(key, value)
		case "random_state":
			if value == nil {
				lr.randomState = -1
				continue
			}
			var seed int
			seed, err = model.ToInt(key, value)
			lr.randomState = int64(seed)
		case "solver":
			lr.solver, err = model.ToString(key, value)
		case "max_iter":
			lr.maxIter, err = model.ToInt(key, value)
		case "warm_start":
			lr.warmStart, err = model.ToBool(key, value)
		case "tol":
			lr.tol, err = model.ToFloat(key, value)
		default:
			return model.UnknownParam("LogisticRegression", key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String returns the scikit-learn style representation.
func (lr *LogisticRegression) String() string {
	return model.Repr("LogisticRegression", lr.GetParams(), logisticDefaults)
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1.0 + e)
}

// softplus computes log(1 + exp(z)).
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
