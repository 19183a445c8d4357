// Package preprocessing provides feature scaling for the classifier inputs.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/parallel"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// columns below this count are scaled sequentially
const parallelColumnThreshold = 256

// MinMaxScaler はscikit-learn互換のMin-Maxスケーラー
// 各特徴量を学習データの最小値・最大値を基準に指定範囲（デフォルト[0,1]）へ線形変換する
//
//	X_scaled = (X - DataMin) * ScaleFactor + FeatureRange[0]
//
// NaN は最小値・最大値の計算から除外され、変換後も NaN のまま残る。
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin は学習データの各特徴量の最小値
	DataMin []float64

	// DataMax は学習データの各特徴量の最大値
	DataMax []float64

	// DataRange は DataMax - DataMin
	DataRange []float64

	// ScaleFactor は (FeatureRange[1]-FeatureRange[0]) / DataRange。
	// 定数特徴量では DataRange を 1 として扱う
	ScaleFactor []float64

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64

	// Clip は Transform の出力を FeatureRange に切り詰めるかどうか
	Clip bool
}

var _ model.InverseTransformer = (*MinMaxScaler)(nil)

// ScalerOption configures a MinMaxScaler.
type ScalerOption func(*MinMaxScaler)

// WithFeatureRange sets the output range.
func WithFeatureRange(lo, hi float64) ScalerOption {
	return func(m *MinMaxScaler) { m.FeatureRange = [2]float64{lo, hi} }
}

// WithClip clips transformed values of unseen data into the output range.
func WithClip(clip bool) ScalerOption {
	return func(m *MinMaxScaler) { m.Clip = clip }
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewMinMaxScaler()
//	XScaled, err := scaler.FitTransform(X)
func NewMinMaxScaler(opts ...ScalerOption) *MinMaxScaler {
	m := &MinMaxScaler{
		state:        model.NewStateManager(),
		FeatureRange: [2]float64{0, 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsFitted reports whether Fit has completed.
func (m *MinMaxScaler) IsFitted() bool {
	return m.state.IsFitted()
}

// NFeatures returns the number of features seen during Fit.
func (m *MinMaxScaler) NFeatures() int {
	n, _ := m.state.GetDimensions()
	return n
}

// Fit は訓練データから各特徴量の最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "minimum must be smaller than maximum", m.FeatureRange)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	m.state.Reset()
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.DataRange = make([]float64, c)
	m.ScaleFactor = make([]float64, c)

	span := m.FeatureRange[1] - m.FeatureRange[0]
	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			lo, hi := math.Inf(1), math.Inf(-1)
			for i := 0; i < r; i++ {
				v := X.At(i, j)
				if math.IsNaN(v) {
					continue
				}
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			if math.IsInf(lo, 1) {
				// all-NaN column
				lo, hi = math.NaN(), math.NaN()
			}
			m.DataMin[j] = lo
			m.DataMax[j] = hi
			m.DataRange[j] = hi - lo

			denom := m.DataRange[j]
			if math.IsNaN(denom) || denom < 10*epsilon {
				denom = 1
			}
			m.ScaleFactor[j] = span / denom
		}
	})

	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// machine epsilon for float64
const epsilon = 2.220446049250313e-16

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := m.state.RequireFeatures("MinMaxScaler.Transform", c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	lo, hi := m.FeatureRange[0], m.FeatureRange[1]
	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			for i := 0; i < r; i++ {
				v := (X.At(i, j)-m.DataMin[j])*m.ScaleFactor[j] + lo
				if m.Clip && !math.IsNaN(v) {
					v = errors.ClipValue(v, lo, hi)
				}
				result.Set(i, j, v)
			}
		}
	})
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := m.state.RequireFeatures("MinMaxScaler.InverseTransform", c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-m.FeatureRange[0])/m.ScaleFactor[j]+m.DataMin[j])
		}
	}
	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
		"clip":          m.Clip,
	}
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	if m.FeatureRange == [2]float64{0, 1} && !m.Clip {
		return "MinMaxScaler()"
	}
	s := fmt.Sprintf("MinMaxScaler(feature_range=(%g, %g)", m.FeatureRange[0], m.FeatureRange[1])
	if m.Clip {
		s += ", clip=True"
	}
	return s + ")"
}
