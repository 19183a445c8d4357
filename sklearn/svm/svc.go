// Package svm implements kernel support vector classification.
package svm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// SVC is a C-support vector classifier trained with SMO. Multiclass
// problems are split one-vs-one and predicted by voting, as libsvm does.
// Compatible with scikit-learn's SVC.
type SVC struct {
	state *model.StateManager

	// Hyperparameters
	C       float64
	kernel  string
	degree  int
	gamma   interface{} // "scale", "auto" or float64
	coef0   float64
	tol     float64
	maxIter int // -1 means no limit

	// Model parameters
	classes_        []int
	gamma_          float64
	kern            kernel
	supportVectors_ *mat.Dense // rows of X that are support vectors in any pair
	support_        []int      // their row indices in the training set
	pairs           []ovoPair
	nIter_          []int
}

// ovoPair is the binary machine separating classes[a] (+1) from classes[b] (-1).
type ovoPair struct {
	a, b int
	sv   []int     // rows of supportVectors_
	coef []float64 // α_i y_i
	rho  float64
}

var _ model.Tunable = (*SVC)(nil)

// SVCOption is a functional option for SVC
type SVCOption func(*SVC)

// NewSVC creates a new SVC with scikit-learn defaults
func NewSVC(opts ...SVCOption) *SVC {
	svc := &SVC{
		state:   model.NewStateManager(),
		C:       1.0,
		kernel:  "rbf",
		degree:  3,
		gamma:   "scale",
		coef0:   0,
		tol:     1e-3,
		maxIter: -1,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithC sets the regularisation parameter
func WithC(c float64) SVCOption {
	return func(s *SVC) { s.C = c }
}

// WithKernel sets the kernel: "linear", "poly", "rbf" or "sigmoid"
func WithKernel(k string) SVCOption {
	return func(s *SVC) { s.kernel = k }
}

// WithDegree sets the degree of the polynomial kernel
func WithDegree(d int) SVCOption {
	return func(s *SVC) { s.degree = d }
}

// WithGamma sets the kernel coefficient: "scale", "auto" or a float64
func WithGamma(g interface{}) SVCOption {
	return func(s *SVC) { s.gamma = g }
}

// WithCoef0 sets the independent term of the poly and sigmoid kernels
func WithCoef0(c float64) SVCOption {
	return func(s *SVC) { s.coef0 = c }
}

// WithTol sets the stopping tolerance
func WithTol(tol float64) SVCOption {
	return func(s *SVC) { s.tol = tol }
}

// WithMaxIter caps solver iterations per binary problem; -1 means no limit
func WithMaxIter(n int) SVCOption {
	return func(s *SVC) { s.maxIter = n }
}

func (s *SVC) validate() error {
	if s.C <= 0 {
		return errors.NewValidationError("C", "must be strictly positive", s.C)
	}
	if s.tol <= 0 {
		return errors.NewValidationError("tol", "must be strictly positive", s.tol)
	}
	if s.maxIter == 0 || s.maxIter < -1 {
		return errors.NewValidationError("max_iter", "must be a positive integer or -1", s.maxIter)
	}
	return nil
}

// Fit trains one binary machine per class pair.
func (s *SVC) Fit(X, y mat.Matrix) error {
	if err := s.validate(); err != nil {
		return err
	}
	n, d, labels, err := model.ValidateXY("SVC.Fit", X, y)
	if err != nil {
		return err
	}
	classes := model.UniqueSorted(labels)
	if len(classes) < 2 {
		return errors.NewValueError("SVC.Fit",
			fmt.Sprintf("the number of classes has to be greater than one; got %d class", len(classes)))
	}

	Xd := mat.DenseCopyOf(X)
	gamma, err := resolveGamma(s.gamma, Xd)
	if err != nil {
		return err
	}
	kern, err := newKernel(s.kernel, gamma, s.coef0, s.degree)
	if err != nil {
		return err
	}
	gram := kern.gram(Xd, Xd)

	idx := model.ClassIndex(classes)
	byClass := make([][]int, len(classes))
	for i, l := range labels {
		byClass[idx[l]] = append(byClass[idx[l]], i)
	}

	type rawPair struct {
		a, b  int
		rows  []int
		coef  []float64
		rho   float64
		iters int
	}
	var raw []rawPair
	isSV := make([]bool, n)
	var nIter []int
	for a := 0; a < len(classes); a++ {
		for b := a + 1; b < len(classes); b++ {
			rows := append(append([]int(nil), byClass[a]...), byClass[b]...)
			ys := make([]float64, len(rows))
			for i := range rows {
				if i < len(byClass[a]) {
					ys[i] = 1
				} else {
					ys[i] = -1
				}
			}
			solver := &smo{
				k:       func(i, j int) float64 { return gram.At(rows[i], rows[j]) },
				y:       ys,
				c:       s.C,
				eps:     s.tol,
				maxIter: s.maxIter,
			}
			res := solver.solve()
			if !res.converged {
				errors.Warn(errors.NewConvergenceWarning("SVC", res.iter,
					fmt.Sprintf("Solver terminated early (max_iter=%d). Consider pre-processing your data with StandardScaler or MinMaxScaler.", s.maxIter)))
			}
			p := rawPair{a: a, b: b, rho: res.rho, iters: res.iter}
			for i, al := range res.alpha {
				if al > 0 {
					p.rows = append(p.rows, rows[i])
					p.coef = append(p.coef, al*ys[i])
					isSV[rows[i]] = true
				}
			}
			raw = append(raw, p)
			nIter = append(nIter, res.iter)
		}
	}

	// support vectors are stored once, in training order
	var support []int
	pos := make(map[int]int)
	for i, ok := range isSV {
		if ok {
			pos[i] = len(support)
			support = append(support, i)
		}
	}
	var sv *mat.Dense
	if len(support) > 0 {
		sv = mat.NewDense(len(support), d, nil)
		for r, i := range support {
			sv.SetRow(r, Xd.RawRowView(i))
		}
	}
	pairs := make([]ovoPair, len(raw))
	for k, p := range raw {
		pairs[k] = ovoPair{a: p.a, b: p.b, coef: p.coef, rho: p.rho}
		for _, r := range p.rows {
			pairs[k].sv = append(pairs[k].sv, pos[r])
		}
	}

	s.state.Reset()
	s.classes_ = classes
	s.gamma_ = gamma
	s.kern = kern
	s.supportVectors_ = sv
	s.support_ = support
	s.pairs = pairs
	s.nIter_ = nIter
	s.state.SetDimensions(d, n)
	s.state.SetFitted()
	return nil
}

// ovoDecision returns the raw decision value of every pair, positive
// meaning the pair's first class.
func (s *SVC) ovoDecision(op string, X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("SVC", op); err != nil {
		return nil, err
	}
	n, d, err := model.ValidateX("SVC."+op, X)
	if err != nil {
		return nil, err
	}
	if err := s.state.RequireFeatures("SVC."+op, d); err != nil {
		return nil, err
	}
	dec := mat.NewDense(n, len(s.pairs), nil)
	var K *mat.Dense
	if s.supportVectors_ != nil {
		K = s.kern.gram(mat.DenseCopyOf(X), s.supportVectors_)
	}
	for i := 0; i < n; i++ {
		for k, p := range s.pairs {
			v := -p.rho
			for t, r := range p.sv {
				v += p.coef[t] * K.At(i, r)
			}
			dec.Set(i, k, v)
		}
	}
	return dec, nil
}

// DecisionFunction returns one column per class pair in (0,1), (0,2), ...,
// (1,2), ... order. Positive values favour the first class of the pair. For
// two classes the single column is negated so that positive values favour
// Classes()[1], as scikit-learn reports it.
func (s *SVC) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	dec, err := s.ovoDecision("DecisionFunction", X)
	if err != nil {
		return nil, err
	}
	if len(s.classes_) == 2 {
		dec.Scale(-1, dec)
	}
	return dec, nil
}

// Predict returns the class with the most one-vs-one votes; ties go to the
// smaller class.
func (s *SVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	dec, err := s.ovoDecision("Predict", X)
	if err != nil {
		return nil, err
	}
	n, _ := dec.Dims()
	out := mat.NewDense(n, 1, nil)
	votes := make([]int, len(s.classes_))
	for i := 0; i < n; i++ {
		for c := range votes {
			votes[c] = 0
		}
		for k, p := range s.pairs {
			if dec.At(i, k) > 0 {
				votes[p.a]++
			} else {
				votes[p.b]++
			}
		}
		best := 0
		for c := 1; c < len(votes); c++ {
			if votes[c] > votes[best] {
				best = c
			}
		}
		out.Set(i, 0, float64(s.classes_[best]))
	}
	return out, nil
}

// Score returns the mean accuracy on the given data.
func (s *SVC) Score(X, y mat.Matrix) (float64, error) {
	pred, err := s.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// Classes returns the class labels seen during fitting.
func (s *SVC) Classes() []int {
	return append([]int(nil), s.classes_...)
}

// Support returns the training row indices of the support vectors.
func (s *SVC) Support() []int {
	return append([]int(nil), s.support_...)
}

// NSupport returns the number of support vectors per class.
func (s *SVC) NSupport() []int {
	counts := make([]int, len(s.classes_))
	seen := make(map[int]bool)
	for _, p := range s.pairs {
		for t, r := range p.sv {
			if seen[r] {
				continue
			}
			seen[r] = true
			if p.coef[t] > 0 {
				counts[p.a]++
			} else {
				counts[p.b]++
			}
		}
	}
	return counts
}

// NIter returns the solver iterations of each binary problem.
func (s *SVC) NIter() []int {
	return append([]int(nil), s.nIter_...)
}

// Gamma returns the kernel coefficient resolved during Fit.
func (s *SVC) Gamma() float64 {
	return s.gamma_
}

var svcDefaults = map[string]interface{}{
	"C":        1.0,
	"kernel":   "rbf",
	"degree":   3,
	"gamma":    "scale",
	"coef0":    0.0,
	"tol":      1e-3,
	"max_iter": -1,
}

// GetParams returns the hyperparameters under scikit-learn names.
func (s *SVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":        s.C,
		"kernel":   s.kernel,
		"degree":   s.degree,
		"gamma":    s.gamma,
		"coef0":    s.coef0,
		"tol":      s.tol,
		"max_iter": s.maxIter,
	}
}

// SetParams sets hyperparameters by scikit-learn name.
func (s *SVC) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		var err error
		switch k {
		case "C":
			s.C, err = model.ToFloat(k, v)
		case "kernel":
			s.kernel, err = model.ToString(k, v)
		case "degree":
			s.degree, err = model.ToInt(k, v)
		case "gamma":
			if g, ok := v.(string); ok {
				s.gamma = g
				continue
			}
			var g float64
			g, err = model.ToFloat(k, v)
			s.gamma = g
		case "coef0":
			s.coef0, err = model.ToFloat(k, v)
		case "tol":
			s.tol, err = model.ToFloat(k, v)
		case "max_iter":
			s.maxIter, err = model.ToInt(k, v)
		default:
			return model.UnknownParam("SVC", k, v)
		}
		if err != nil {
			return err
		}
	}
	return s.validate()
}

// String returns the scikit-learn style representation.
func (s *SVC) String() string {
	return model.Repr("SVC", s.GetParams(), svcDefaults)
}
