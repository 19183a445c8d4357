// Package metrics は分類モデルの評価指標を提供する
package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// logLossEps はBinaryLogLossで確率をクリップする下限値
const logLossEps = 1e-15

// ProbaScores are threshold-free scores of the positive-class probability
// of a binary classifier.
type ProbaScores struct {
	AUC     float64
	LogLoss float64
}

// binaryColumn reads an n×1 matrix of 0/1 labels.
func binaryColumn(op string, y mat.Matrix) ([]bool, error) {
	labels, err := labelColumn(op, y)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(labels))
	for i, l := range labels {
		if l != 0 && l != 1 {
			return nil, errors.NewValueError(op, "labels must be binary (0 or 1)")
		}
		out[i] = l == 1
	}
	return out, nil
}

// scoreColumn reads an n×1 matrix of scores, rejecting NaN.
func scoreColumn(op string, s mat.Matrix, n int) ([]float64, error) {
	if s == nil {
		return nil, errors.NewValueError(op, "nil score matrix")
	}
	r, c := s.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError(op, 1, c, 1)
	}
	if r != n {
		return nil, errors.NewDimensionError(op, n, r, 0)
	}
	out := make([]float64, r)
	for i := range out {
		v := s.At(i, 0)
		if math.IsNaN(v) {
			return nil, errors.NewValueError(op, fmt.Sprintf("NaN score at row %d", i))
		}
		out[i] = v
	}
	return out, nil
}

// AUC はROC曲線下面積を計算する。yTrue は0/1のn×1行列、yScore は正例のスコア
//
// 同順位のスコアには平均順位を与える (Mann-Whitney U)。
// 正例または負例しか存在しない場合は定義できないため 0.5 を返す。
func AUC(yTrue, yScore mat.Matrix) (float64, error) {
	pos, err := binaryColumn("AUC", yTrue)
	if err != nil {
		return 0, err
	}
	score, err := scoreColumn("AUC", yScore, len(pos))
	if err != nil {
		return 0, err
	}
	n := len(pos)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] < score[idx[b]] })

	var nPos, nNeg int
	var rankSumPos float64
	for i := 0; i < n; {
		j := i
		for j < n && score[idx[j]] == score[idx[i]] {
			j++
		}
		// ranks i+1..j share their mean
		avgRank := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			if pos[idx[k]] {
				nPos++
				rankSumPos += avgRank
			} else {
				nNeg++
			}
		}
		i = j
	}

	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}
	u := rankSumPos - float64(nPos*(nPos+1))/2
	return u / float64(nPos*nNeg), nil
}

// BinaryLogLoss は二値分類の交差エントロピー損失を計算する
// 予測確率は [eps, 1-eps] にクリップされる
func BinaryLogLoss(yTrue, yProb mat.Matrix) (float64, error) {
	pos, err := binaryColumn("BinaryLogLoss", yTrue)
	if err != nil {
		return 0, err
	}
	prob, err := scoreColumn("BinaryLogLoss", yProb, len(pos))
	if err != nil {
		return 0, err
	}
	var sum float64
	for i, p := range prob {
		p = errors.ClipValue(p, logLossEps, 1-logLossEps)
		if pos[i] {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(prob)), nil
}

// EvaluateProba scores the output of PredictProba for a two-class model.
// classes is the model's sorted label set; its second label is positive and
// the matching probability column is scored against yTrue.
func EvaluateProba(yTrue, proba mat.Matrix, classes []int) (ProbaScores, error) {
	const op = "EvaluateProba"
	if len(classes) != 2 {
		return ProbaScores{}, errors.NewValueError(op, fmt.Sprintf("needs exactly 2 classes, got %d", len(classes)))
	}
	labels, err := labelColumn(op, yTrue)
	if err != nil {
		return ProbaScores{}, err
	}
	if proba == nil {
		return ProbaScores{}, errors.NewValueError(op, "nil probability matrix")
	}
	r, c := proba.Dims()
	if c != 2 {
		return ProbaScores{}, errors.NewDimensionError(op, 2, c, 1)
	}
	if r != len(labels) {
		return ProbaScores{}, errors.NewDimensionError(op, len(labels), r, 0)
	}

	target := mat.NewDense(r, 1, nil)
	for i, l := range labels {
		switch l {
		case classes[1]:
			target.Set(i, 0, 1)
		case classes[0]:
		default:
			return ProbaScores{}, errors.NewValueError(op, fmt.Sprintf("label %d at row %d was not seen during fit", l, i))
		}
	}
	posCol := mat.NewDense(r, 1, mat.Col(nil, 1, proba))

	var s ProbaScores
	if s.AUC, err = AUC(target, posCol); err != nil {
		return ProbaScores{}, err
	}
	if s.LogLoss, err = BinaryLogLoss(target, posCol); err != nil {
		return ProbaScores{}, err
	}
	return s, nil
}
