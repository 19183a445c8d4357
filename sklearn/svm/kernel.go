package svm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/parallel"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// kernel evaluates K(A, B) for every row pair.
type kernel struct {
	name   string
	gamma  float64
	coef0  float64
	degree int
}

func newKernel(name string, gamma, coef0 float64, degree int) (kernel, error) {
	switch name {
	case "linear", "poly", "rbf", "sigmoid":
	default:
		return kernel{}, errors.NewValidationError("kernel", "must be 'linear', 'poly', 'rbf' or 'sigmoid'", name)
	}
	if name == "poly" && degree < 0 {
		return kernel{}, errors.NewValidationError("degree", "must be non-negative", degree)
	}
	return kernel{name: name, gamma: gamma, coef0: coef0, degree: degree}, nil
}

// gram returns the len(A) x len(B) kernel matrix.
func (k kernel) gram(A, B *mat.Dense) *mat.Dense {
	ra, _ := A.Dims()
	rb, _ := B.Dims()
	out := mat.NewDense(ra, rb, nil)
	out.Mul(A, B.T())

	var f func(i, j int, v float64) float64
	switch k.name {
	case "linear":
		return out
	case "poly":
		f = func(_, _ int, v float64) float64 {
			return math.Pow(k.gamma*v+k.coef0, float64(k.degree))
		}
	case "sigmoid":
		f = func(_, _ int, v float64) float64 {
			return math.Tanh(k.gamma*v + k.coef0)
		}
	case "rbf":
		na := rowSquaredNorms(A)
		nb := rowSquaredNorms(B)
		f = func(i, j int, v float64) float64 {
			d := na[i] + nb[j] - 2*v
			if d < 0 {
				d = 0
			}
			return math.Exp(-k.gamma * d)
		}
	}
	// rows are independent; small matrices stay on one goroutine
	parallel.ParallelizeWithThreshold(ra, 64, func(start, end int) {
		for i := start; i < end; i++ {
			row := out.RawRowView(i)
			for j, v := range row {
				row[j] = f(i, j, v)
			}
		}
	})
	return out
}

func rowSquaredNorms(A *mat.Dense) []float64 {
	r, _ := A.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		row := A.RawRowView(i)
		out[i] = mat.Dot(mat.NewVecDense(len(row), row), mat.NewVecDense(len(row), row))
	}
	return out
}

// resolveGamma turns a gamma setting into a number for X.
// "scale" is 1 / (n_features * X.var()) and "auto" is 1 / n_features.
func resolveGamma(gamma interface{}, X *mat.Dense) (float64, error) {
	_, d := X.Dims()
	switch g := gamma.(type) {
	case string:
		switch g {
		case "auto":
			return 1 / float64(d), nil
		case "scale":
			v := variance(X)
			if v == 0 {
				return 1, nil
			}
			return 1 / (float64(d) * v), nil
		}
	case float64:
		if g >= 0 {
			return g, nil
		}
	}
	return 0, errors.NewValidationError("gamma", "must be 'scale', 'auto' or a non-negative float", gamma)
}

// variance of all entries of X.
func variance(X *mat.Dense) float64 {
	r, c := X.Dims()
	n := float64(r * c)
	sum, sq := 0.0, 0.0
	for i := 0; i < r; i++ {
		for _, v := range X.RawRowView(i) {
			sum += v
		}
	}
	mean := sum / n
	for i := 0; i < r; i++ {
		for _, v := range X.RawRowView(i) {
			sq += (v - mean) * (v - mean)
		}
	}
	return sq / n
}
