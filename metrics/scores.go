package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// Average selects how per-class scores are combined.
type Average string

const (
	// AverageMacro is the unweighted mean over labels.
	AverageMacro Average = "macro"
	// AverageMicro computes the score from global TP/FP/FN counts.
	AverageMicro Average = "micro"
	// AverageWeighted weights each label by its support.
	AverageWeighted Average = "weighted"
	// AverageBinary reports the score of the positive label only.
	AverageBinary Average = "binary"
)

type scoreConfig struct {
	average      Average
	zeroDivision float64
	warn         bool
	posLabel     int
}

// ScoreOption configures PrecisionScore, RecallScore, F1Score and Evaluate.
type ScoreOption func(*scoreConfig)

// WithAverage sets the averaging strategy. The default is macro.
func WithAverage(a Average) ScoreOption {
	return func(c *scoreConfig) { c.average = a }
}

// WithZeroDivision sets the value returned for a score whose denominator is
// zero, and silences the UndefinedMetricWarning.
func WithZeroDivision(v float64) ScoreOption {
	return func(c *scoreConfig) {
		c.zeroDivision = v
		c.warn = false
	}
}

// WithPosLabel sets the positive label for AverageBinary. The default is 1.
func WithPosLabel(l int) ScoreOption {
	return func(c *scoreConfig) { c.posLabel = l }
}

func newScoreConfig(opts []ScoreOption) scoreConfig {
	// zero_division="warn": score 0 with a warning
	c := scoreConfig{average: AverageMacro, warn: true, posLabel: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Scores is the metric bundle reported for every evaluated model.
type Scores struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// ClassScores holds per-label precision, recall, F1 and support, in the order
// of Labels.
type ClassScores struct {
	Labels    []int
	Precision []float64
	Recall    []float64
	F1        []float64
	Support   []float64
}

// AccuracyScore returns the fraction of rows where prediction equals truth.
func AccuracyScore(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := labelPair("AccuracyScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range t {
		if t[i] == p[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(t)), nil
}

// PrecisionRecallFSupport computes per-label scores over the sorted union of
// labels in yTrue and yPred.
func PrecisionRecallFSupport(yTrue, yPred mat.Matrix, opts ...ScoreOption) (*ClassScores, error) {
	cfg := newScoreConfig(opts)
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	return perClass(cm, cfg), nil
}

func perClass(cm *ConfusionMatrix, cfg scoreConfig) *ClassScores {
	k := len(cm.Labels)
	cs := &ClassScores{
		Labels:    cm.Labels,
		Precision: make([]float64, k),
		Recall:    make([]float64, k),
		F1:        make([]float64, k),
		Support:   make([]float64, k),
	}
	var undefP, undefR []int
	for i := 0; i < k; i++ {
		tp, fp, fn := cm.TP(i), cm.FP(i), cm.FN(i)
		cs.Support[i] = cm.Support(i)
		if tp+fp == 0 {
			cs.Precision[i] = cfg.zeroDivision
			undefP = append(undefP, cm.Labels[i])
		} else {
			cs.Precision[i] = tp / (tp + fp)
		}
		if tp+fn == 0 {
			cs.Recall[i] = cfg.zeroDivision
			undefR = append(undefR, cm.Labels[i])
		} else {
			cs.Recall[i] = tp / (tp + fn)
		}
		if d := 2*tp + fp + fn; d == 0 {
			cs.F1[i] = cfg.zeroDivision
		} else {
			cs.F1[i] = 2 * tp / d
		}
	}
	if cfg.warn {
		if len(undefP) > 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("precision",
				fmt.Sprintf("no predicted samples for labels %v", undefP), cfg.zeroDivision))
		}
		if len(undefR) > 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("recall",
				fmt.Sprintf("no true samples for labels %v", undefR), cfg.zeroDivision))
		}
	}
	return cs
}

type scoreKind int

const (
	kindPrecision scoreKind = iota
	kindRecall
	kindF1
)

func (k scoreKind) String() string {
	switch k {
	case kindPrecision:
		return "precision"
	case kindRecall:
		return "recall"
	default:
		return "f1"
	}
}

func averaged(cm *ConfusionMatrix, cfg scoreConfig, kind scoreKind) (float64, error) {
	pick := func(cs *ClassScores) []float64 {
		switch kind {
		case kindPrecision:
			return cs.Precision
		case kindRecall:
			return cs.Recall
		default:
			return cs.F1
		}
	}

	switch cfg.average {
	case AverageMacro, "":
		vals := pick(perClass(cm, cfg))
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals)), nil

	case AverageWeighted:
		cs := perClass(cm, cfg)
		vals := pick(cs)
		var sum, total float64
		for i, v := range vals {
			sum += v * cs.Support[i]
			total += cs.Support[i]
		}
		if total == 0 {
			return cfg.zeroDivision, nil
		}
		return sum / total, nil

	case AverageMicro:
		var tp, fp, fn float64
		for i := range cm.Labels {
			tp += cm.TP(i)
			fp += cm.FP(i)
			fn += cm.FN(i)
		}
		var num, den float64
		switch kind {
		case kindPrecision:
			num, den = tp, tp+fp
		case kindRecall:
			num, den = tp, tp+fn
		default:
			num, den = 2*tp, 2*tp+fp+fn
		}
		if den == 0 {
			if cfg.warn {
				errors.Warn(errors.NewUndefinedMetricWarning(kind.String(), "empty denominator", cfg.zeroDivision))
			}
			return cfg.zeroDivision, nil
		}
		return num / den, nil

	case AverageBinary:
		if len(cm.Labels) > 2 {
			return 0, errors.NewValueError(kind.String()+"_score",
				fmt.Sprintf("average='binary' requires at most 2 labels, got %v", cm.Labels))
		}
		cs := perClass(cm, cfg)
		for i, l := range cs.Labels {
			if l == cfg.posLabel {
				return pick(cs)[i], nil
			}
		}
		return 0, errors.NewValueError(kind.String()+"_score",
			fmt.Sprintf("pos_label=%d is not a valid label in %v", cfg.posLabel, cm.Labels))

	default:
		return 0, errors.NewValidationError("average", "must be one of macro, micro, weighted, binary", string(cfg.average))
	}
}

func score(op string, yTrue, yPred mat.Matrix, kind scoreKind, opts []ScoreOption) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return averaged(cm, newScoreConfig(opts), kind)
}

// PrecisionScore returns TP/(TP+FP) averaged over labels.
func PrecisionScore(yTrue, yPred mat.Matrix, opts ...ScoreOption) (float64, error) {
	return score("PrecisionScore", yTrue, yPred, kindPrecision, opts)
}

// RecallScore returns TP/(TP+FN) averaged over labels.
func RecallScore(yTrue, yPred mat.Matrix, opts ...ScoreOption) (float64, error) {
	return score("RecallScore", yTrue, yPred, kindRecall, opts)
}

// F1Score returns 2TP/(2TP+FP+FN) averaged over labels.
func F1Score(yTrue, yPred mat.Matrix, opts ...ScoreOption) (float64, error) {
	return score("F1Score", yTrue, yPred, kindF1, opts)
}

// Evaluate computes accuracy and averaged precision, recall and F1 from a
// single confusion matrix.
func Evaluate(yTrue, yPred mat.Matrix, opts ...ScoreOption) (Scores, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	cfg := newScoreConfig(opts)

	var s Scores
	var correct float64
	for i := range cm.Labels {
		correct += cm.TP(i)
	}
	s.Accuracy = correct / cm.Total()
	if s.Precision, err = averaged(cm, cfg, kindPrecision); err != nil {
		return Scores{}, err
	}
	if s.Recall, err = averaged(cm, cfg, kindRecall); err != nil {
		return Scores{}, err
	}
	if s.F1, err = averaged(cm, cfg, kindF1); err != nil {
		return Scores{}, err
	}
	return s, nil
}
