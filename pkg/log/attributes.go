package log

// Standard attribute keys for pipeline log events. Using them consistently
// across stages enables structured filtering (all events for one pipe run,
// all featurization events). Keys follow a hierarchical naming convention
// ("pipe.stage", "data.rows").

// Pipeline and operation context.
const (
	// PipeIDKey is the unique identifier of one MatPipe instance. Every log
	// event emitted by a pipe and its stages carries this key.
	PipeIDKey = "pipe.id"

	// StageKey identifies the pipeline stage emitting the event.
	// Standard values: "autofeaturizer", "cleaner", "reducer", "learner".
	StageKey = "pipe.stage"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform".
	OperationKey = "pipe.operation"

	// TargetKey is the name of the ML target column.
	TargetKey = "pipe.target"

	// ModeKey is the learning mode, "regression" or "classification".
	ModeKey = "pipe.mode"
)

// Data shape and characteristics.
const (
	// RowsKey is the number of rows in the frame being processed.
	RowsKey = "data.rows"

	// ColumnsKey is the number of columns in the frame being processed.
	ColumnsKey = "data.columns"

	// NAFracKey is a missing-value fraction, either observed or a threshold.
	NAFracKey = "data.na_frac"
)

// Featurization context.
const (
	// FeaturizerKey is the name of the featurizer being applied.
	FeaturizerKey = "featurizer.name"

	// FeaturizerKindKey is the input kind a featurizer consumes,
	// "composition" or "structure".
	FeaturizerKindKey = "featurizer.kind"

	// ExcludedKey lists featurizer names excluded by metaselection.
	ExcludedKey = "featurizer.excluded"
)

// Performance and evaluation.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ScoreKey records a model selection score (MSE for regression, accuracy
	// for classification).
	ScoreKey = "metrics.score"

	// FoldsKey records the number of cross-validation folds.
	FoldsKey = "metrics.folds"
)

// Standard operation values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationBenchmark    = "benchmark"
)

// Standard stage values.
const (
	StageAutoFeaturizer = "autofeaturizer"
	StageCleaner        = "cleaner"
	StageReducer        = "reducer"
	StageLearner        = "learner"
)
