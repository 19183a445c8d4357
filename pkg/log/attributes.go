package log

// Standard attribute keys. Keys follow a hierarchical naming convention
// ("model.name", "data.samples") so records can be filtered by prefix.

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "MultinomialNB", "SVC", "RandomForestClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the workflow.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	ColumnKey   = "data.column"
	PathKey     = "data.path"
)

// Performance Metrics
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	PrecisionKey  = "metrics.precision"
	RecallKey     = "metrics.recall"
	F1Key         = "metrics.f1"
	ScoreKey      = "metrics.score"
	ScoreStdKey   = "metrics.score_std"
	AUCKey        = "metrics.auc"
	LogLossKey    = "metrics.log_loss"
	IterationKey  = "training.iteration"
)

// Model selection
const (
	CandidatesKey = "search.candidates"
	FoldsKey      = "search.folds"
	WorkersKey    = "search.workers"
	ParamsKey     = "search.params"
	RandomSeedKey = "config.random_seed"
)

// Error and Warning Context
const (
	StacktraceKey  = "error.stacktrace"
	WarningKey     = "warning"
	WarningTypeKey = "warning.type"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationPartialFit   = "partial_fit"

	PhaseLoading       = "loading"
	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseTuning        = "tuning"
)
