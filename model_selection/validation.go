package model_selection

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/parallel"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// fitAndScore fits est on the fold's training rows and scores it on the
// held-out rows.
func fitAndScore(est model.Classifier, X, y mat.Matrix, fold Fold, scorer Scorer) (float64, time.Duration, error) {
	start := time.Now()
	if err := est.Fit(TakeRows(X, fold.TrainIndices), TakeRows(y, fold.TrainIndices)); err != nil {
		return 0, 0, err
	}
	fitTime := time.Since(start)
	score, err := scorer(est, TakeRows(X, fold.TestIndices), TakeRows(y, fold.TestIndices))
	return score, fitTime, err
}

type cvConfig struct {
	cv      Splitter
	scoring string
	nJobs   int
}

// CVOption configures CrossValScore.
type CVOption func(*cvConfig)

// WithCV sets the splitter; the default is StratifiedKFold(5) without shuffling.
func WithCV(s Splitter) CVOption {
	return func(c *cvConfig) { c.cv = s }
}

// WithScoring selects a scorer by name, see GetScorer.
func WithScoring(name string) CVOption {
	return func(c *cvConfig) { c.scoring = name }
}

// WithNJobs bounds the number of folds evaluated concurrently (-1 = all CPUs).
func WithNJobs(n int) CVOption {
	return func(c *cvConfig) { c.nJobs = n }
}

// CrossValScore evaluates a fresh estimator from newEstimator on every fold
// and returns the per-fold scores in fold order.
func CrossValScore(ctx context.Context, newEstimator func() model.Classifier, X, y mat.Matrix, opts ...CVOption) ([]float64, error) {
	cfg := cvConfig{cv: NewStratifiedKFold(5, false, 0), scoring: "accuracy", nJobs: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	scorer, err := GetScorer(cfg.scoring)
	if err != nil {
		return nil, err
	}
	folds, err := cfg.cv.Split(X, y)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(folds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel.Workers(cfg.nJobs))
	for f, fold := range folds {
		f, fold := f, fold
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, _, err := fitAndScore(newEstimator(), X, y, fold, scorer)
			if err != nil {
				return errors.Wrapf(err, "fold %d", f)
			}
			scores[f] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// MeanStd returns the mean and population standard deviation of scores.
func MeanStd(scores []float64) (float64, float64, error) {
	data := stats.Float64Data(scores)
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, 0, errors.Wrap(err, "mean of fold scores")
	}
	std, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return 0, 0, errors.Wrap(err, "std of fold scores")
	}
	return mean, std, nil
}
