package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hikarimat/matpipe/automl"
	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/featurization"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
	"github.com/hikarimat/matpipe/preprocessing"
)

// Option configures a MatPipe beyond its preset.
type Option func(*MatPipe)

// WithSeed fixes the random seed used by the model search and benchmark
// splits.
func WithSeed(seed int64) Option {
	return func(p *MatPipe) { p.seed = seed }
}

// WithAutoFeaturizer replaces the preset featurization stage.
func WithAutoFeaturizer(af *featurization.AutoFeaturizer) Option {
	return func(p *MatPipe) { p.autoFeaturizer = af }
}

// WithCleaner replaces the preset cleaning stage.
func WithCleaner(dc *preprocessing.DataCleaner) Option {
	return func(p *MatPipe) { p.cleaner = dc }
}

// WithReducer replaces the preset reduction stage.
func WithReducer(fr *preprocessing.FeatureReducer) Option {
	return func(p *MatPipe) { p.reducer = fr }
}

// WithAdaptor replaces the preset learning stage.
func WithAdaptor(a *automl.CVSearchAdaptor) Option {
	return func(p *MatPipe) { p.adaptor = a }
}

// MatPipe is the full pipeline: auto featurization, cleaning, feature
// reduction and cross validated model selection.
type MatPipe struct {
	model.BaseEstimator

	id     string
	preset Preset
	seed   int64

	autoFeaturizer *featurization.AutoFeaturizer
	cleaner        *preprocessing.DataCleaner
	reducer        *preprocessing.FeatureReducer
	adaptor        *automl.CVSearchAdaptor

	target string
	mode   automl.Mode
	labels []string

	logger log.Logger
}

// NewMatPipe builds a pipeline from a preset. Options override individual
// stages.
func NewMatPipe(preset Preset, opts ...Option) (*MatPipe, error) {
	p := &MatPipe{
		id:     uuid.NewString(),
		preset: preset,
	}
	for _, opt := range opts {
		opt(p)
	}

	af, dc, fr, ad, err := preset.stages(p.seed)
	if err != nil {
		return nil, err
	}
	if p.autoFeaturizer == nil {
		p.autoFeaturizer = af
	}
	if p.cleaner == nil {
		p.cleaner = dc
	}
	if p.reducer == nil {
		p.reducer = fr
	}
	if p.adaptor == nil {
		p.adaptor = ad
	}
	p.logger = log.GetLogger().With(log.PipeIDKey, p.id)
	return p, nil
}

// ID returns the unique pipeline identifier.
func (p *MatPipe) ID() string { return p.id }

// Preset returns the preset this pipeline was built from.
func (p *MatPipe) Preset() Preset { return p.preset }

// Target returns the target column the pipeline was fit to.
func (p *MatPipe) Target() string { return p.target }

// Mode returns the detected problem mode after Fit.
func (p *MatPipe) Mode() automl.Mode { return p.mode }

// DetectMode classifies the problem by the target column type: string
// targets are classification, numeric targets regression.
func DetectMode(df *dataset.Frame, target string) (automl.Mode, error) {
	col, ok := df.Column(target)
	if !ok {
		return "", errors.NewMissingColumnError("pipeline.DetectMode", target)
	}
	switch col.Kind {
	case dataset.StringKind:
		return automl.Classification, nil
	case dataset.FloatKind:
		return automl.Regression, nil
	default:
		return "", errors.NewValueError("pipeline.DetectMode", "target column must be numeric or string")
	}
}

// Fit runs every stage on the training frame. The problem mode is detected
// from the target column type.
func (p *MatPipe) Fit(df *dataset.Frame, target string) error {
	const op = "MatPipe.Fit"
	started := time.Now()

	mode, err := DetectMode(df, target)
	if err != nil {
		return err
	}
	p.mode = mode
	p.target = target
	p.logger.Info("pipeline fit started",
		log.OperationKey, log.OperationFit,
		log.TargetKey, target,
		log.ModeKey, string(mode),
		log.RowsKey, df.NumRows())

	work := df
	if mode == automl.Classification {
		work, err = p.encodeTarget(df)
		if err != nil {
			return err
		}
	}

	work, err = p.autoFeaturizer.FitTransform(work, target)
	if err != nil {
		return errors.NewPipeError(op, log.StageAutoFeaturizer, err)
	}
	work, err = p.cleaner.FitTransform(work, target)
	if err != nil {
		return errors.NewPipeError(op, log.StageCleaner, err)
	}
	work, err = p.reducer.FitTransform(work, target)
	if err != nil {
		return errors.NewPipeError(op, log.StageReducer, err)
	}
	if err := p.adaptor.Fit(work, target, mode); err != nil {
		return errors.NewPipeError(op, log.StageLearner, err)
	}

	p.logger.Info("pipeline fit finished",
		log.OperationKey, log.OperationFit,
		log.ScoreKey, p.adaptor.BestScore(),
		log.DurationMsKey, time.Since(started).Milliseconds())
	p.SetFitted()
	return nil
}

// PredictedColumn returns the name of the prediction column added by
// Predict.
func (p *MatPipe) PredictedColumn() string {
	return "predicted " + p.target
}

// Predict transforms the frame through the fitted stages and appends the
// prediction column. The returned frame is the transformed one, so rows
// removed by cleaning do not appear.
func (p *MatPipe) Predict(df *dataset.Frame) (*dataset.Frame, error) {
	const op = "MatPipe.Predict"
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("MatPipe", "Predict")
	}

	work := df
	if p.mode == automl.Classification && work.HasColumn(p.target) {
		var err error
		work, err = p.encodeTarget(df)
		if err != nil {
			return nil, err
		}
	}

	work, err := p.autoFeaturizer.Transform(work, p.target)
	if err != nil {
		return nil, errors.NewPipeError(op, log.StageAutoFeaturizer, err)
	}
	work, err = p.cleaner.Transform(work, p.target)
	if err != nil {
		return nil, errors.NewPipeError(op, log.StageCleaner, err)
	}
	work, err = p.reducer.Transform(work, p.target)
	if err != nil {
		return nil, errors.NewPipeError(op, log.StageReducer, err)
	}

	pred, err := p.adaptor.Predict(work)
	if err != nil {
		return nil, errors.NewPipeError(op, log.StageLearner, err)
	}

	out := work.Copy()
	if p.labels != nil {
		decoded := make([]string, len(pred))
		for i, v := range pred {
			decoded[i] = p.decodeLabel(v)
		}
		if err := out.AddStringColumn(p.PredictedColumn(), decoded); err != nil {
			return nil, err
		}
	} else {
		if err := out.AddFloatColumn(p.PredictedColumn(), pred); err != nil {
			return nil, err
		}
	}

	p.logger.Info("pipeline predict finished",
		log.OperationKey, log.OperationPredict,
		log.RowsKey, out.NumRows())
	return out, nil
}

// encodeTarget replaces a string target column with float class codes.
// Labels are learned at fit and reused afterwards; unseen labels become
// missing.
func (p *MatPipe) encodeTarget(df *dataset.Frame) (*dataset.Frame, error) {
	col, ok := df.Column(p.target)
	if !ok || col.Kind != dataset.StringKind {
		return df, nil
	}

	if p.labels == nil {
		seen := map[string]bool{}
		for _, v := range col.Strings {
			if v != "" {
				seen[v] = true
			}
		}
		labels := make([]string, 0, len(seen))
		for v := range seen {
			labels = append(labels, v)
		}
		sort.Strings(labels)
		if len(labels) < 2 {
			return nil, errors.NewValueError("MatPipe.Fit", "classification target has fewer than two labels")
		}
		p.labels = labels
	}

	codes := make([]float64, col.Len())
	for i, v := range col.Strings {
		codes[i] = p.encodeLabel(v)
	}

	out := df.Drop(p.target)
	if err := out.AddFloatColumn(p.target, codes); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *MatPipe) encodeLabel(v string) float64 {
	for i, label := range p.labels {
		if label == v {
			return float64(i)
		}
	}
	return math.NaN()
}

func (p *MatPipe) decodeLabel(code float64) string {
	i := int(math.Round(code))
	if i < 0 || i >= len(p.labels) {
		return ""
	}
	return p.labels[i]
}
