package experiment

import (
	"context"
	"io"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/dataset"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/model_selection"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/preprocessing"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/report"
)

// ModelResult is the held-out evaluation of one model.
type ModelResult struct {
	Name    string
	Scores  metrics.Scores
	FitTime time.Duration

	// Proba holds AUC and log-loss for two-class models that expose
	// PredictProba, nil otherwise.
	Proba *metrics.ProbaScores
}

// TuningResult is the outcome of the grid search.
type TuningResult struct {
	Estimator model.Tunable
	Params    map[string]interface{}
	CVMean    float64
	CVStd     float64
	Scores    metrics.Scores
}

// Result collects everything a run reports.
type Result struct {
	Models []ModelResult
	Best   *TuningResult
}

// Runner executes the workflow for one configuration.
type Runner struct {
	cfg      *Config
	out      io.Writer
	progress io.Writer
	logger   log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithProgressWriter sets where the grid search progress bar is drawn when
// tuning.progress is enabled.
func WithProgressWriter(w io.Writer) RunnerOption {
	return func(r *Runner) { r.progress = w }
}

// NewRunner creates a Runner that prints the report to out.
func NewRunner(cfg *Config, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg, out: out}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.GetLogger()
	}
	return r
}

// Run loads and inspects the data, compares the model bank, tunes the
// random forest and writes the optional chart. Any failure stops the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	split, err := r.Prepare()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, spec := range ModelBank() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mr, err := r.Evaluate(spec, split)
		if err != nil {
			return nil, err
		}
		result.Models = append(result.Models, mr)
		if err := report.WriteModel(r.out, report.Entry{Name: mr.Name, Scores: mr.Scores}); err != nil {
			return nil, err
		}
	}

	if r.cfg.Tuning.Enabled {
		best, err := r.Tune(ctx, split)
		if err != nil {
			return nil, err
		}
		result.Best = best
		cv := report.CVSummary{Scoring: r.cfg.Tuning.Scoring, Mean: best.CVMean, Std: best.CVStd}
		if err := report.WriteBest(r.out, best.Estimator.String(), cv, best.Scores); err != nil {
			return nil, err
		}
	}

	if r.cfg.Report.PlotPath != "" {
		if err := report.PlotComparison(r.cfg.Report.PlotPath, result.Entries()); err != nil {
			return nil, err
		}
		r.logger.Info("Comparison chart saved", log.PathKey, r.cfg.Report.PlotPath)
	}
	return result, nil
}

// Entries lists the evaluated models for reporting, the tuned forest last.
func (res *Result) Entries() []report.Entry {
	entries := make([]report.Entry, 0, len(res.Models)+1)
	for _, m := range res.Models {
		entries = append(entries, report.Entry{Name: m.Name, Scores: m.Scores})
	}
	if res.Best != nil {
		entries = append(entries, report.Entry{Name: "TunedRandomForest", Scores: res.Best.Scores})
	}
	return entries
}

// Prepare loads the table, prints its diagnostics, scales every feature
// column over all rows, keeps the leading rows and splits them.
//
// The scaler sees every row, including those that end up in the test split.
func (r *Runner) Prepare() (*model_selection.SplitResult, error) {
	cfg := r.cfg
	frame, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	if err := frame.Describe(r.out, cfg.Data.Target, cfg.Data.HeadRows); err != nil {
		return nil, err
	}

	X, _, err := frame.FeatureMatrix(cfg.Data.FeatureStart, cfg.Data.FeatureEnd, cfg.Data.Target)
	if err != nil {
		return nil, err
	}
	y, err := frame.Target(cfg.Data.Target)
	if err != nil {
		return nil, err
	}

	scaled, err := preprocessing.NewMinMaxScaler().FitTransform(X)
	if err != nil {
		return nil, errors.Wrap(err, "scale features")
	}
	Xs, ys, err := dataset.FirstRows(mat.DenseCopyOf(scaled), y, cfg.Sampling.MaxRows)
	if err != nil {
		return nil, err
	}

	split, err := model_selection.TrainTestSplit(Xs, ys,
		model_selection.WithTestSize(cfg.Split.TestSize),
		model_selection.WithRandomState(cfg.Split.RandomState),
	)
	if err != nil {
		return nil, err
	}
	nTrain, d := split.XTrain.Dims()
	nTest, _ := split.XTest.Dims()
	r.logger.Info("Data prepared",
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, nTrain+nTest,
		log.FeaturesKey, d,
		log.RandomSeedKey, cfg.Split.RandomState,
		"train_samples", nTrain,
		"test_samples", nTest,
	)
	return split, nil
}

// Evaluate fits a fresh model from spec on the training rows and scores its
// predictions on the test rows.
func (r *Runner) Evaluate(spec ModelSpec, split *model_selection.SplitResult) (ModelResult, error) {
	est := spec.New()
	start := time.Now()
	if err := est.Fit(split.XTrain, split.YTrain); err != nil {
		return ModelResult{}, errors.Wrapf(err, "fit %s", spec.Name)
	}
	fitTime := time.Since(start)

	scores, err := score(est, split)
	if err != nil {
		return ModelResult{}, errors.Wrapf(err, "evaluate %s", spec.Name)
	}
	proba := r.probaScores(spec.Name, est, split)

	fields := []any{
		log.ModelNameKey, spec.Name,
		log.PhaseKey, log.PhaseValidation,
		log.DurationMsKey, fitTime.Milliseconds(),
		log.AccuracyKey, scores.Accuracy,
		log.F1Key, scores.F1,
	}
	if proba != nil {
		fields = append(fields, log.AUCKey, proba.AUC, log.LogLossKey, proba.LogLoss)
	}
	r.logger.Info("Model evaluated", fields...)
	return ModelResult{Name: spec.Name, Scores: scores, FitTime: fitTime, Proba: proba}, nil
}

// probaScores returns nil when the model has no PredictProba, the problem
// is not binary, or the test rows hold a label unseen during fit.
func (r *Runner) probaScores(name string, est model.Classifier, split *model_selection.SplitResult) *metrics.ProbaScores {
	pc, ok := est.(model.ProbabilisticClassifier)
	if !ok || len(pc.Classes()) != 2 {
		return nil
	}
	proba, err := pc.PredictProba(split.XTest)
	if err == nil {
		var s metrics.ProbaScores
		if s, err = metrics.EvaluateProba(split.YTest, proba, pc.Classes()); err == nil {
			return &s
		}
	}
	r.logger.Debug("Probability scores skipped", log.ModelNameKey, name, "reason", err.Error())
	return nil
}

// Tune runs the random forest grid search on the training rows and scores
// the refitted winner on the test rows.
func (r *Runner) Tune(ctx context.Context, split *model_selection.SplitResult) (*TuningResult, error) {
	opts := []model_selection.GridSearchOption{
		model_selection.WithGridCV(model_selection.NewStratifiedKFold(r.cfg.Tuning.CV, false, 0)),
		model_selection.WithGridScoring(r.cfg.Tuning.Scoring),
		model_selection.WithGridNJobs(r.cfg.Tuning.NJobs),
		model_selection.WithLogger(r.logger),
	}
	if r.cfg.Tuning.Progress && r.progress != nil {
		opts = append(opts, model_selection.WithProgress(r.progress))
	}

	search := model_selection.NewGridSearchCV(newTunedForest, TuningGrid(), opts...)
	if err := search.Fit(ctx, split.XTrain, split.YTrain); err != nil {
		return nil, errors.Wrap(err, "grid search")
	}

	best := search.BestEstimator()
	scores, err := score(best, split)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate best estimator")
	}
	cv := search.CVResults()[search.BestIndex()]
	r.logger.Info("Best estimator evaluated",
		log.ModelNameKey, best.String(),
		log.PhaseKey, log.PhaseTuning,
		log.ScoreKey, cv.MeanScore,
		log.AccuracyKey, scores.Accuracy,
		log.DurationMsKey, search.RefitTime().Milliseconds(),
	)
	return &TuningResult{
		Estimator: best,
		Params:    search.BestParams(),
		CVMean:    cv.MeanScore,
		CVStd:     cv.StdScore,
		Scores:    scores,
	}, nil
}

func score(est model.Classifier, split *model_selection.SplitResult) (metrics.Scores, error) {
	pred, err := est.Predict(split.XTest)
	if err != nil {
		return metrics.Scores{}, err
	}
	return metrics.Evaluate(split.YTest, pred,
		metrics.WithAverage(metrics.AverageMacro),
		metrics.WithZeroDivision(0),
	)
}
