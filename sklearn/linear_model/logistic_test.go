package linear_model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

func norm(rows [][]float64) float64 {
	var s float64
	for _, r := range rows {
		for _, v := range r {
			s += v * v
		}
	}
	return math.Sqrt(s)
}

func requireDistributions(t *testing.T, P mat.Matrix, k int) {
	t.Helper()
	r, c := P.Dims()
	require.Equal(t, k, c)
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			p := P.At(i, j)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d", i)
	}
}

// 二値問題では係数は1行で、PredictProba の正例列は決定関数のシグモイドになる
func TestLogisticRegressionBinary(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})
	y := mat.NewDense(6, 1, []float64{4, 4, 4, 7, 7, 7})

	lr := NewLogisticRegression(WithLRMaxIter(1000))
	require.NoError(t, lr.Fit(X, y))

	assert.Equal(t, []int{4, 7}, lr.Classes())
	require.Len(t, lr.Coef(), 1)
	require.Len(t, lr.Intercept(), 1)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, mat.Col(nil, 0, y), mat.Col(nil, 0, pred))

	Z, err := lr.DecisionFunction(X)
	require.NoError(t, err)
	_, zc := Z.Dims()
	require.Equal(t, 1, zc)

	P, err := lr.PredictProba(X)
	require.NoError(t, err)
	requireDistributions(t, P, 2)
	for i := 0; i < 6; i++ {
		assert.InDelta(t, sigmoid(Z.At(i, 0)), P.At(i, 1), 1e-12)
		assert.Equal(t, Z.At(i, 0) > 0, pred.At(i, 0) == 7)
	}
}

// 3クラス以上ではクラスごとの係数を持つ多項ロジスティック回帰になる
func TestLogisticRegressionMultinomial(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 2,
		2, 3,
		3, 2,
		4, 4,
		4, 5,
		5, 4,
	})
	y := mat.NewDense(9, 1, []float64{2, 2, 2, 5, 5, 5, 9, 9, 9})

	lr := NewLogisticRegression(WithLRMaxIter(1000), WithLRC(10))
	require.NoError(t, lr.Fit(X, y))

	assert.Equal(t, []int{2, 5, 9}, lr.Classes())
	assert.Len(t, lr.Coef(), 3)
	assert.Len(t, lr.Intercept(), 3)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	correct := 0
	for i := 0; i < 9; i++ {
		assert.Contains(t, []float64{2, 5, 9}, pred.At(i, 0))
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 8)

	P, err := lr.PredictProba(X)
	require.NoError(t, err)
	requireDistributions(t, P, 3)
	for i := 0; i < 9; i++ {
		best := 0
		for c := 1; c < 3; c++ {
			if P.At(i, c) > P.At(i, best) {
				best = c
			}
		}
		assert.Equal(t, float64(lr.Classes()[best]), pred.At(i, 0))
	}
}

func TestLogisticRegressionRegularization(t *testing.T) {
	X, y := reproData()

	strong := NewLogisticRegression(WithLRC(0.01), WithLRMaxIter(1000))
	weak := NewLogisticRegression(WithLRC(100), WithLRMaxIter(1000))
	require.NoError(t, strong.Fit(X, y))
	require.NoError(t, weak.Fit(X, y))

	assert.Less(t, norm(strong.Coef()), norm(weak.Coef()))
}

// balanced weights favour the minority class
func TestLogisticRegressionBalancedClassWeight(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 0, 1, 0, 1, 1})

	uniform := NewLogisticRegression(WithLRMaxIter(1000))
	balanced := NewLogisticRegression(WithLRMaxIter(1000), WithLRClassWeight("balanced"))
	require.NoError(t, uniform.Fit(X, y))
	require.NoError(t, balanced.Fit(X, y))

	pu, err := uniform.PredictProba(X)
	require.NoError(t, err)
	pb, err := balanced.PredictProba(X)
	require.NoError(t, err)
	var sumU, sumB float64
	for i := 0; i < 10; i++ {
		sumU += pu.At(i, 1)
		sumB += pb.At(i, 1)
	}
	assert.Greater(t, sumB, sumU)

	assert.Error(t, NewLogisticRegression(WithLRClassWeight("auto")).Fit(X, y))
}

// the model bank setting converges well before its iteration cap on 0/1 data
func TestLogisticRegressionMaxIterBudget(t *testing.T) {
	X := mat.NewDense(40, 5, nil)
	y := mat.NewDense(40, 1, nil)
	for i := 0; i < 40; i++ {
		label := i % 2
		y.Set(i, 0, float64(label))
		for j := 0; j < 5; j++ {
			X.Set(i, j, float64((i*7+j*3)%5/4))
		}
		if i%7 != 0 {
			X.Set(i, 0, float64(label))
		}
	}

	lr := NewLogisticRegression(WithLRMaxIter(1000))
	require.NoError(t, lr.Fit(X, y))
	assert.Less(t, lr.NIter(), 1000)
	assert.Greater(t, lr.Score(X, y), 0.75)
}

func TestLogisticRegressionParams(t *testing.T) {
	lr := NewLogisticRegression()
	params := lr.GetParams()
	assert.Equal(t, 1.0, params["C"])
	assert.Equal(t, 100, params["max_iter"])
	assert.Equal(t, "l2", params["penalty"])
	assert.Nil(t, params["class_weight"])
	assert.Nil(t, params["random_state"])

	require.NoError(t, lr.SetParams(map[string]interface{}{
		"C":            2.0,
		"max_iter":     200,
		"penalty":      nil,
		"tol":          1e-5,
		"random_state": 3,
	}))
	params = lr.GetParams()
	assert.Equal(t, 2.0, params["C"])
	assert.Equal(t, 200, params["max_iter"])
	assert.Equal(t, "none", params["penalty"])
	assert.Equal(t, 1e-5, params["tol"])
	assert.Equal(t, 3, params["random_state"])

	var ve *errors.ValidationError
	assert.True(t, errors.As(lr.SetParams(map[string]interface{}{"max_iter": "many"}), &ve))
}

func TestLogisticRegressionNotFitted(t *testing.T) {
	lr := NewLogisticRegression()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	var nf *errors.NotFittedError
	_, err := lr.Predict(X)
	assert.True(t, errors.As(err, &nf))
	_, err = lr.PredictProba(X)
	assert.True(t, errors.As(err, &nf))
	_, err = lr.DecisionFunction(X)
	assert.True(t, errors.As(err, &nf))
}
