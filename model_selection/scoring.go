package model_selection

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// Scorer evaluates a fitted classifier on held-out data; higher is better.
type Scorer func(est model.Classifier, X, y mat.Matrix) (float64, error)

func predictScorer(score func(yTrue, yPred mat.Matrix) (float64, error)) Scorer {
	return func(est model.Classifier, X, y mat.Matrix) (float64, error) {
		pred, err := est.Predict(X)
		if err != nil {
			return 0, err
		}
		return score(y, pred)
	}
}

func macro(f func(yTrue, yPred mat.Matrix, opts ...metrics.ScoreOption) (float64, error)) func(yTrue, yPred mat.Matrix) (float64, error) {
	return func(yTrue, yPred mat.Matrix) (float64, error) {
		return f(yTrue, yPred, metrics.WithAverage(metrics.AverageMacro))
	}
}

var scorers = map[string]Scorer{
	"accuracy":        predictScorer(metrics.AccuracyScore),
	"precision_macro": predictScorer(macro(metrics.PrecisionScore)),
	"recall_macro":    predictScorer(macro(metrics.RecallScore)),
	"f1_macro":        predictScorer(macro(metrics.F1Score)),
}

// GetScorer returns the scorer registered under name.
func GetScorer(name string) (Scorer, error) {
	s, ok := scorers[name]
	if !ok {
		return nil, errors.NewValidationError("scoring", "must be one of "+joinQuoted(ScorerNames()), name)
	}
	return s, nil
}

// ScorerNames lists the registered scorer names in sorted order.
func ScorerNames() []string {
	names := make([]string, 0, len(scorers))
	for k := range scorers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func joinQuoted(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += "'" + n + "'"
	}
	return out
}
