package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

func TestMinMaxScalerFitTransform(t *testing.T) {
	X := mat.NewDense(3, 3, []float64{
		0, 10, 5,
		5, 20, 5,
		10, 40, 5,
	})

	s := NewMinMaxScaler()
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	want := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		0.5, 1.0 / 3, 0,
		1, 1, 0,
	})
	assert.True(t, mat.EqualApprox(out, want, 1e-12), "got %v", mat.Formatted(out))
	assert.Equal(t, 3, s.NFeatures())
	assert.Equal(t, []float64{0, 10, 5}, s.DataMin)
	assert.Equal(t, []float64{10, 40, 5}, s.DataMax)
}

func TestMinMaxScalerRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})
	s := NewMinMaxScaler(WithFeatureRange(-1, 1))
	out, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, out.At(1, 0), 1e-12)
	assert.Equal(t, "MinMaxScaler(feature_range=(-1, 1))", s.String())
}

func TestMinMaxScalerUnseenDataAndClip(t *testing.T) {
	train := mat.NewDense(2, 1, []float64{0, 10})
	test := mat.NewDense(2, 1, []float64{-5, 20})

	s := NewMinMaxScaler()
	require.NoError(t, s.Fit(train))
	out, err := s.Transform(test)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, out.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0, out.At(1, 0), 1e-12)

	c := NewMinMaxScaler(WithClip(true))
	require.NoError(t, c.Fit(train))
	out, err = c.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.At(0, 0))
	assert.Equal(t, 1.0, out.At(1, 0))
}

func TestMinMaxScalerIgnoresNaN(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, math.NaN(), 3})
	s := NewMinMaxScaler()
	out, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.DataMin[0])
	assert.Equal(t, 3.0, s.DataMax[0])
	assert.True(t, math.IsNaN(out.At(1, 0)))
	assert.InDelta(t, 1.0, out.At(2, 0), 1e-12)
}

func TestMinMaxScalerInverse(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 100, 2, 200, 4, 300})
	s := NewMinMaxScaler()
	out, err := s.FitTransform(X)
	require.NoError(t, err)
	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(back, X, 1e-9))
}

func TestMinMaxScalerWideInput(t *testing.T) {
	// exercises the parallel column path
	const rows, cols = 4, 600
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i % 7)
	}
	s := NewMinMaxScaler()
	out, err := s.FitTransform(mat.NewDense(rows, cols, data))
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := out.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestMinMaxScalerErrors(t *testing.T) {
	s := NewMinMaxScaler()
	_, err := s.Transform(mat.NewDense(1, 1, []float64{1}))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = s.Transform(mat.NewDense(1, 3, []float64{1, 2, 3}))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	bad := NewMinMaxScaler(WithFeatureRange(1, 0))
	err = bad.Fit(mat.NewDense(1, 1, []float64{1}))
	var val *errors.ValidationError
	assert.True(t, errors.As(err, &val))

	err = NewMinMaxScaler().Fit(&mat.Dense{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
