package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []float64
		yScore []float64
		want   float64
	}{
		{"perfect ranking", []float64{0, 0, 0, 1, 1, 1}, []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}, 1},
		{"reversed ranking", []float64{0, 0, 0, 1, 1, 1}, []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}, 0},
		{"all scores tied", []float64{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5}, 0.5},
		{"one swapped pair", []float64{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.75},
		{"single class", []float64{1, 1, 1}, []float64{0.2, 0.5, 0.9}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(col(tt.yTrue...), col(tt.yScore...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAUCInputErrors(t *testing.T) {
	_, err := AUC(col(0, 2), col(0.1, 0.2))
	assert.Error(t, err, "non-binary labels")

	_, err = AUC(col(0, 1, 1), col(0.1, 0.2))
	assert.Error(t, err, "length mismatch")

	_, err = AUC(col(0, 1), col(0.1, math.NaN()))
	assert.Error(t, err, "NaN score")

	_, err = AUC(col(0, 1), mat.NewDense(2, 2, nil))
	assert.Error(t, err, "score matrix must be a column")
}

func TestBinaryLogLoss(t *testing.T) {
	got, err := BinaryLogLoss(col(1, 0), col(0.9, 0.1))
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(0.9), got, 1e-12)

	// certain and correct predictions are clipped rather than producing log(0)
	got, err = BinaryLogLoss(col(1, 0), col(1, 0))
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-12)

	got, err = BinaryLogLoss(col(1), col(0))
	require.NoError(t, err)
	assert.False(t, math.IsInf(got, 0))
	assert.InDelta(t, -math.Log(logLossEps), got, 1e-6)
}

func TestEvaluateProba(t *testing.T) {
	proba := mat.NewDense(4, 2, []float64{
		0.8, 0.2,
		0.3, 0.7,
		0.4, 0.6,
		0.9, 0.1,
	})
	s, err := EvaluateProba(col(3, 7, 7, 3), proba, []int{3, 7})
	require.NoError(t, err)
	assert.InDelta(t, 1, s.AUC, 1e-12)
	want := -(math.Log(0.8) + math.Log(0.7) + math.Log(0.6) + math.Log(0.9)) / 4
	assert.InDelta(t, want, s.LogLoss, 1e-12)

	_, err = EvaluateProba(col(3, 7, 7, 3), proba, []int{3, 5, 7})
	assert.Error(t, err, "more than two classes")

	_, err = EvaluateProba(col(3, 5, 7, 3), proba, []int{3, 7})
	assert.Error(t, err, "label unseen during fit")

	_, err = EvaluateProba(col(3, 7, 7, 3), mat.NewDense(4, 3, nil), []int{3, 7})
	assert.Error(t, err, "probability matrix with three columns")

	_, err = EvaluateProba(col(3, 7), proba, []int{3, 7})
	assert.Error(t, err, "row mismatch")
}
