// Package featurization maps raw materials columns to numeric features.
// The AutoFeaturizer inspects a dataset, excludes featurizers that the
// dataset's meta-features predict will mostly fail, and applies the rest.
package featurization

import (
	"context"
	"time"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/featurizer"
	"github.com/hikarimat/matpipe/metafeature"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
)

// Option configures an AutoFeaturizer.
type Option func(*AutoFeaturizer)

// WithMaxNAFrac sets the failure tolerance used for auto exclusion.
func WithMaxNAFrac(frac float64) Option {
	return func(af *AutoFeaturizer) { af.maxNAFrac = frac }
}

// WithWorkers sets the number of concurrent featurization workers.
func WithWorkers(n int) Option {
	return func(af *AutoFeaturizer) { af.workers = n }
}

// WithCompositionColumn overrides composition column auto-detection.
func WithCompositionColumn(name string) Option {
	return func(af *AutoFeaturizer) { af.compositionCol = name }
}

// WithStructureColumn overrides structure column auto-detection.
func WithStructureColumn(name string) Option {
	return func(af *AutoFeaturizer) { af.structureCol = name }
}

// AutoFeaturizer featurizes composition and structure columns of a frame,
// auto-excluding featurizers via dataset meta-features. The raw object
// columns are removed from the output.
type AutoFeaturizer struct {
	model.BaseEstimator

	maxNAFrac      float64
	workers        int
	compositionCol string
	structureCol   string

	selector         *metafeature.MetaSelector
	excludes         []string
	compFeaturizers  []featurizer.CompositionFeaturizer
	strucFeaturizers []featurizer.StructureFeaturizer

	logger log.Logger
}

// NewAutoFeaturizer builds an AutoFeaturizer with the default 5% failure
// tolerance.
func NewAutoFeaturizer(opts ...Option) *AutoFeaturizer {
	af := &AutoFeaturizer{
		maxNAFrac: metafeature.DefaultMaxNAFrac,
		logger:    log.GetLogger().With(log.StageKey, log.StageAutoFeaturizer),
	}
	for _, opt := range opts {
		opt(af)
	}
	return af
}

// Excludes returns the featurizer names excluded during the last Fit.
func (af *AutoFeaturizer) Excludes() []string {
	return append([]string(nil), af.excludes...)
}

// Metafeatures returns the meta-features computed during the last Fit, or
// nil before Fit.
func (af *AutoFeaturizer) Metafeatures() *metafeature.DatasetMetafeatures {
	if af.selector == nil {
		return nil
	}
	return af.selector.Metafeatures()
}

// State is the serializable fitted state of an AutoFeaturizer.
type State struct {
	MaxNAFrac      float64
	CompositionCol string
	StructureCol   string
	Excludes       []string
}

// State captures the fitted state for persistence.
func (af *AutoFeaturizer) State() State {
	return State{
		MaxNAFrac:      af.maxNAFrac,
		CompositionCol: af.compositionCol,
		StructureCol:   af.structureCol,
		Excludes:       af.Excludes(),
	}
}

// RestoreState rebuilds a fitted AutoFeaturizer from a saved state. The
// meta-features themselves are not restored.
func (af *AutoFeaturizer) RestoreState(s State) {
	af.maxNAFrac = s.MaxNAFrac
	af.compositionCol = s.CompositionCol
	af.structureCol = s.StructureCol
	af.excludes = append([]string(nil), s.Excludes...)
	af.selector = nil
	af.compFeaturizers = featurizer.CompositionSet(af.excludes)
	af.strucFeaturizers = featurizer.StructureSet(af.excludes)
	af.SetFitted()
}

// Fit detects the object columns, computes meta-features and decides which
// featurizers to apply. The target column is left untouched.
func (af *AutoFeaturizer) Fit(df *dataset.Frame, target string) error {
	const op = "AutoFeaturizer.Fit"
	if !df.HasColumn(target) {
		return errors.NewMissingColumnError(op, target)
	}

	prepared, err := af.prepare(df)
	if err != nil {
		return err
	}
	if af.detectComposition(prepared) == "" && af.detectStructure(prepared) == "" {
		return errors.Wrap(errors.ErrNoFeaturizableColumns, op)
	}

	selector, err := metafeature.NewMetaSelector(af.maxNAFrac)
	if err != nil {
		return err
	}
	excludes, err := selector.AutoExcludes(prepared)
	if err != nil {
		return err
	}
	af.selector = selector
	af.excludes = excludes
	af.compFeaturizers = featurizer.CompositionSet(excludes)
	af.strucFeaturizers = featurizer.StructureSet(excludes)

	af.logger.Info("featurizers selected",
		log.ExcludedKey, excludes,
		log.RowsKey, prepared.NumRows())
	af.SetFitted()
	return nil
}

// Transform featurizes the object columns and drops them, returning a new
// frame of numeric columns plus whatever non-object columns were present.
func (af *AutoFeaturizer) Transform(df *dataset.Frame, target string) (*dataset.Frame, error) {
	const op = "AutoFeaturizer.Transform"
	if !af.IsFitted() {
		return nil, errors.NewNotFittedError("AutoFeaturizer", "Transform")
	}

	prepared, err := af.prepare(df)
	if err != nil {
		return nil, err
	}
	out := prepared.Copy()
	opts := featurizer.ApplyOptions{Workers: af.workers, IgnoreErrors: true}
	ctx := context.Background()
	started := time.Now()

	var drop []string
	if col := af.detectComposition(out); col != "" {
		if err := featurizer.ApplyComposition(ctx, out, col, af.compFeaturizers, opts); err != nil {
			return nil, errors.NewPipeError(op, log.StageAutoFeaturizer, err)
		}
		drop = append(drop, col)
	}
	if col := af.detectStructure(out); col != "" {
		if err := featurizer.ApplyStructure(ctx, out, col, af.strucFeaturizers, opts); err != nil {
			return nil, errors.NewPipeError(op, log.StageAutoFeaturizer, err)
		}
		drop = append(drop, col)
	}
	if len(drop) == 0 {
		return nil, errors.Wrap(errors.ErrNoFeaturizableColumns, op)
	}
	out = out.Drop(drop...)

	af.logger.Info("featurization finished",
		log.ColumnsKey, out.NumCols(),
		log.DurationMsKey, time.Since(started).Milliseconds())
	return out, nil
}

// FitTransform runs Fit then Transform on the same frame.
func (af *AutoFeaturizer) FitTransform(df *dataset.Frame, target string) (*dataset.Frame, error) {
	if err := af.Fit(df, target); err != nil {
		return nil, err
	}
	return af.Transform(df, target)
}

// prepare parses well-known string columns into typed object columns so
// that CSV-loaded frames featurize without manual conversion.
func (af *AutoFeaturizer) prepare(df *dataset.Frame) (*dataset.Frame, error) {
	out := df
	for _, name := range af.compositionCandidates() {
		col, ok := out.Column(name)
		if !ok || col.Kind != dataset.StringKind {
			continue
		}
		parsed, err := dataset.ParseCompositionColumn(out, name)
		if err != nil {
			return nil, err
		}
		out = parsed
	}
	for _, name := range af.structureCandidates() {
		col, ok := out.Column(name)
		if !ok || col.Kind != dataset.StringKind {
			continue
		}
		parsed, err := dataset.ParseStructureColumn(out, name)
		if err != nil {
			return nil, err
		}
		out = parsed
	}
	return out, nil
}

func (af *AutoFeaturizer) compositionCandidates() []string {
	if af.compositionCol != "" {
		return []string{af.compositionCol}
	}
	return []string{metafeature.DefaultCompositionColumn, "formula"}
}

func (af *AutoFeaturizer) structureCandidates() []string {
	if af.structureCol != "" {
		return []string{af.structureCol}
	}
	return []string{metafeature.DefaultStructureColumn}
}

func (af *AutoFeaturizer) detectComposition(df *dataset.Frame) string {
	for _, name := range af.compositionCandidates() {
		if col, ok := df.Column(name); ok && col.Kind == dataset.CompositionKind {
			return name
		}
	}
	// Fall back to any composition column.
	for _, name := range df.Names() {
		if col, _ := df.Column(name); col.Kind == dataset.CompositionKind {
			return name
		}
	}
	return ""
}

func (af *AutoFeaturizer) detectStructure(df *dataset.Frame) string {
	for _, name := range af.structureCandidates() {
		if col, ok := df.Column(name); ok && col.Kind == dataset.StructureKind {
			return name
		}
	}
	for _, name := range df.Names() {
		if col, _ := df.Column(name); col.Kind == dataset.StructureKind {
			return name
		}
	}
	return ""
}
