package model_selection

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/parallel"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
)

// CandidateResult is one row of the search results.
type CandidateResult struct {
	Params      map[string]interface{}
	FoldScores  []float64
	MeanScore   float64
	StdScore    float64
	Rank        int // 1 is best; equal means share a rank
	MeanFitTime time.Duration
}

// GridSearchCV scores every ParamGrid candidate by cross-validation and
// refits the best one on the full training data.
type GridSearchCV struct {
	newEstimator func() model.Tunable
	grid         ParamGrid

	cv       Splitter
	scoring  string
	nJobs    int
	refit    bool
	progress io.Writer
	logger   log.Logger

	results       []CandidateResult
	bestIndex     int
	bestEstimator model.Tunable
	refitTime     time.Duration
}

// GridSearchOption configures a GridSearchCV.
type GridSearchOption func(*GridSearchCV)

// WithGridCV sets the splitter; the default is StratifiedKFold(5).
func WithGridCV(s Splitter) GridSearchOption {
	return func(g *GridSearchCV) { g.cv = s }
}

// WithGridScoring selects the scorer by name.
func WithGridScoring(name string) GridSearchOption {
	return func(g *GridSearchCV) { g.scoring = name }
}

// WithGridNJobs bounds the number of concurrent (candidate, fold) fits.
func WithGridNJobs(n int) GridSearchOption {
	return func(g *GridSearchCV) { g.nJobs = n }
}

// WithRefit toggles refitting the best candidate on all of X.
func WithRefit(refit bool) GridSearchOption {
	return func(g *GridSearchCV) { g.refit = refit }
}

// WithProgress draws a progress bar on w while fitting.
func WithProgress(w io.Writer) GridSearchOption {
	return func(g *GridSearchCV) { g.progress = w }
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l log.Logger) GridSearchOption {
	return func(g *GridSearchCV) { g.logger = l }
}

// NewGridSearchCV creates a search over grid. newEstimator must return a
// fresh, unfitted estimator on every call.
func NewGridSearchCV(newEstimator func() model.Tunable, grid ParamGrid, opts ...GridSearchOption) *GridSearchCV {
	g := &GridSearchCV{
		newEstimator: newEstimator,
		grid:         grid,
		cv:           NewStratifiedKFold(5, false, 0),
		scoring:      "accuracy",
		nJobs:        1,
		refit:        true,
		bestIndex:    -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.GetLogger()
	}
	return g
}

// Fit runs the search. Every (candidate, fold) pair is an independent job;
// the first failure cancels the remaining jobs and is returned.
func (g *GridSearchCV) Fit(ctx context.Context, X, y mat.Matrix) error {
	if err := g.grid.Validate(); err != nil {
		return err
	}
	scorer, err := GetScorer(g.scoring)
	if err != nil {
		return err
	}
	folds, err := g.cv.Split(X, y)
	if err != nil {
		return err
	}
	candidates := g.grid.Candidates()
	// reject bad names and values before any fitting starts
	for _, params := range candidates {
		if err := g.newEstimator().SetParams(params); err != nil {
			return err
		}
	}

	workers := parallel.Workers(g.nJobs)
	logger := g.logger.With(log.ComponentKey, "GridSearchCV", log.PhaseKey, log.PhaseTuning)
	logger.Info("Fitting candidates",
		log.CandidatesKey, len(candidates),
		log.FoldsKey, len(folds),
		log.WorkersKey, workers,
	)

	var bar *progressbar.ProgressBar
	if g.progress != nil {
		bar = progressbar.NewOptions(len(candidates)*len(folds),
			progressbar.OptionSetWriter(g.progress),
			progressbar.OptionSetDescription("grid search"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	scores := make([][]float64, len(candidates))
	fitTimes := make([][]time.Duration, len(candidates))
	for c := range candidates {
		scores[c] = make([]float64, len(folds))
		fitTimes[c] = make([]time.Duration, len(folds))
	}

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	var barMu sync.Mutex
	for c, params := range candidates {
		for f, fold := range folds {
			c, f, params, fold := c, f, params, fold
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				est := g.newEstimator()
				if err := est.SetParams(params); err != nil {
					return err
				}
				s, d, err := fitAndScore(est, X, y, fold, scorer)
				if err != nil {
					return errors.Wrapf(err, "candidate %d %v fold %d", c, params, f)
				}
				scores[c][f] = s
				fitTimes[c][f] = d
				if bar != nil {
					barMu.Lock()
					_ = bar.Add(1)
					barMu.Unlock()
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		logger.Error("Grid search failed", err)
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	results := make([]CandidateResult, len(candidates))
	for c, params := range candidates {
		mean, std, err := MeanStd(scores[c])
		if err != nil {
			return err
		}
		var total time.Duration
		for _, d := range fitTimes[c] {
			total += d
		}
		results[c] = CandidateResult{
			Params:      params,
			FoldScores:  scores[c],
			MeanScore:   mean,
			StdScore:    std,
			MeanFitTime: total / time.Duration(len(folds)),
		}
		logger.Debug("Candidate scored",
			log.ParamsKey, fmt.Sprint(params),
			log.ScoreKey, mean,
			log.ScoreStdKey, std,
		)
	}
	rankResults(results)

	best := 0
	for c := range results {
		if results[c].Rank == 1 {
			best = c
			break
		}
	}
	g.results = results
	g.bestIndex = best
	logger.Info("Search finished",
		log.ParamsKey, fmt.Sprint(results[best].Params),
		log.ScoreKey, results[best].MeanScore,
		log.ScoreStdKey, results[best].StdScore,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if !g.refit {
		return nil
	}
	est := g.newEstimator()
	if err := est.SetParams(results[best].Params); err != nil {
		return err
	}
	refitStart := time.Now()
	if err := est.Fit(X, y); err != nil {
		return errors.Wrap(err, "refit best candidate")
	}
	g.refitTime = time.Since(refitStart)
	g.bestEstimator = est
	return nil
}

// rankResults assigns competition ranks by descending mean score; candidates
// with equal means share the smallest rank.
func rankResults(results []CandidateResult) {
	for i := range results {
		rank := 1
		for j := range results {
			if results[j].MeanScore > results[i].MeanScore {
				rank++
			}
		}
		results[i].Rank = rank
	}
}

func (g *GridSearchCV) requireFitted(method string) error {
	if g.bestIndex < 0 {
		return errors.NewNotFittedError("GridSearchCV", method)
	}
	return nil
}

// BestEstimator returns the refitted best estimator, or nil without refit.
func (g *GridSearchCV) BestEstimator() model.Tunable {
	return g.bestEstimator
}

// BestParams returns the parameters of the best candidate.
func (g *GridSearchCV) BestParams() map[string]interface{} {
	if g.bestIndex < 0 {
		return nil
	}
	return g.results[g.bestIndex].Params
}

// BestScore returns the mean cross-validated score of the best candidate.
func (g *GridSearchCV) BestScore() float64 {
	if g.bestIndex < 0 {
		return 0
	}
	return g.results[g.bestIndex].MeanScore
}

// BestIndex returns the position of the best candidate in CVResults, or -1.
func (g *GridSearchCV) BestIndex() int {
	return g.bestIndex
}

// CVResults returns one entry per candidate in grid order.
func (g *GridSearchCV) CVResults() []CandidateResult {
	return g.results
}

// RefitTime returns how long refitting the best candidate took.
func (g *GridSearchCV) RefitTime() time.Duration {
	return g.refitTime
}

// Predict predicts with the refitted best estimator.
func (g *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := g.requireFitted("Predict"); err != nil {
		return nil, err
	}
	if g.bestEstimator == nil {
		return nil, errors.NewValueError("GridSearchCV.Predict", "refit is disabled; no best estimator is available")
	}
	return g.bestEstimator.Predict(X)
}
