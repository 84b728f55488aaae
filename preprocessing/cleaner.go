// Package preprocessing prepares featurized frames for learning: missing
// value handling, categorical encoding, low-information feature removal
// and numeric scaling.
package preprocessing

import (
	"math"
	"sort"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
)

// NAMethod selects how rows with missing feature values are handled after
// over-sparse columns have been dropped.
type NAMethod string

const (
	// ImputeMean replaces missing values with the column mean seen at fit.
	ImputeMean NAMethod = "impute"
	// DropRows removes rows that still contain missing values.
	DropRows NAMethod = "drop"
)

// DefaultNAThreshold is the per-column missing fraction above which a
// column is dropped instead of imputed.
const DefaultNAThreshold = 0.01

// CleanerOption configures a DataCleaner.
type CleanerOption func(*DataCleaner)

// WithNAThreshold sets the per-column missing fraction limit.
func WithNAThreshold(frac float64) CleanerOption {
	return func(dc *DataCleaner) { dc.naThreshold = frac }
}

// WithNAMethod sets the residual missing value strategy.
func WithNAMethod(m NAMethod) CleanerOption {
	return func(dc *DataCleaner) { dc.naMethod = m }
}

// DataCleaner drops over-sparse columns, imputes or drops remaining
// missing values, one-hot encodes string columns and removes rows whose
// target is missing.
type DataCleaner struct {
	model.BaseEstimator

	naThreshold float64
	naMethod    NAMethod

	dropped    []string
	means      map[string]float64
	categories map[string][]string

	logger log.Logger
}

// NewDataCleaner builds a DataCleaner with mean imputation and the default
// missing fraction limit.
func NewDataCleaner(opts ...CleanerOption) *DataCleaner {
	dc := &DataCleaner{
		naThreshold: DefaultNAThreshold,
		naMethod:    ImputeMean,
		logger:      log.GetLogger().With(log.StageKey, log.StageCleaner),
	}
	for _, opt := range opts {
		opt(dc)
	}
	return dc
}

// DroppedColumns returns the columns removed during the last Fit.
func (dc *DataCleaner) DroppedColumns() []string {
	return append([]string(nil), dc.dropped...)
}

// CleanerState is the serializable fitted state of a DataCleaner.
type CleanerState struct {
	NAThreshold float64
	NAMethod    NAMethod
	Dropped     []string
	Means       map[string]float64
	Categories  map[string][]string
}

// State captures the fitted state for persistence.
func (dc *DataCleaner) State() CleanerState {
	return CleanerState{
		NAThreshold: dc.naThreshold,
		NAMethod:    dc.naMethod,
		Dropped:     dc.DroppedColumns(),
		Means:       dc.means,
		Categories:  dc.categories,
	}
}

// RestoreState rebuilds a fitted DataCleaner from a saved state.
func (dc *DataCleaner) RestoreState(s CleanerState) {
	dc.naThreshold = s.NAThreshold
	dc.naMethod = s.NAMethod
	dc.dropped = append([]string(nil), s.Dropped...)
	dc.means = s.Means
	dc.categories = s.Categories
	if dc.means == nil {
		dc.means = map[string]float64{}
	}
	if dc.categories == nil {
		dc.categories = map[string][]string{}
	}
	dc.SetFitted()
}

// Fit learns which columns to drop, the imputation means and the one-hot
// categories. Rows with a missing target are ignored while learning.
func (dc *DataCleaner) Fit(df *dataset.Frame, target string) error {
	const op = "DataCleaner.Fit"
	if dc.naThreshold < 0 || dc.naThreshold > 1 {
		return errors.NewValidationError("naThreshold", "must be in [0, 1]", dc.naThreshold)
	}
	if dc.naMethod != ImputeMean && dc.naMethod != DropRows {
		return errors.NewValidationError("naMethod", "unknown method", string(dc.naMethod))
	}
	if !df.HasColumn(target) {
		return errors.NewMissingColumnError(op, target)
	}

	work, err := dropMissingTarget(df, target)
	if err != nil {
		return err
	}

	dc.dropped = nil
	dc.means = map[string]float64{}
	dc.categories = map[string][]string{}

	for _, name := range work.Names() {
		if name == target {
			continue
		}
		col, _ := work.Column(name)
		switch col.Kind {
		case dataset.FloatKind:
			naFrac, mean := floatColumnStats(col)
			if naFrac > dc.naThreshold {
				dc.dropped = append(dc.dropped, name)
				continue
			}
			dc.means[name] = mean
		case dataset.StringKind:
			dc.categories[name] = stringCategories(col)
		default:
			// Object columns do not survive featurization; drop defensively.
			dc.dropped = append(dc.dropped, name)
		}
	}

	if len(dc.dropped) > 0 {
		sort.Strings(dc.dropped)
		errors.Warn(errors.NewDroppedColumnsWarning(log.StageCleaner, dc.dropped, dc.naThreshold))
		dc.logger.Info("columns dropped",
			log.ColumnsKey, len(dc.dropped),
			log.NAFracKey, dc.naThreshold)
	}
	dc.SetFitted()
	return nil
}

// Transform applies the learned cleaning. The target column is optional;
// when present, rows with a missing target are removed.
func (dc *DataCleaner) Transform(df *dataset.Frame, target string) (*dataset.Frame, error) {
	if !dc.IsFitted() {
		return nil, errors.NewNotFittedError("DataCleaner", "Transform")
	}

	out := df.Copy()
	if out.HasColumn(target) {
		var err error
		out, err = dropMissingTarget(out, target)
		if err != nil {
			return nil, err
		}
	}
	if len(dc.dropped) > 0 {
		out = out.Drop(dc.dropped...)
	}

	out, err := dc.encodeStrings(out)
	if err != nil {
		return nil, err
	}

	switch dc.naMethod {
	case ImputeMean:
		dc.impute(out)
	case DropRows:
		out, err = dropMissingRows(out, target)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FitTransform runs Fit then Transform on the same frame.
func (dc *DataCleaner) FitTransform(df *dataset.Frame, target string) (*dataset.Frame, error) {
	if err := dc.Fit(df, target); err != nil {
		return nil, err
	}
	return dc.Transform(df, target)
}

func (dc *DataCleaner) impute(df *dataset.Frame) {
	for name, mean := range dc.means {
		col, ok := df.Column(name)
		if !ok || col.Kind != dataset.FloatKind {
			continue
		}
		for i, v := range col.Floats {
			if math.IsNaN(v) {
				col.Floats[i] = mean
			}
		}
	}
}

// encodeStrings replaces each fitted string column with one indicator
// column per category seen at fit. Unseen values encode to all zeros.
func (dc *DataCleaner) encodeStrings(df *dataset.Frame) (*dataset.Frame, error) {
	names := make([]string, 0, len(dc.categories))
	for name := range dc.categories {
		names = append(names, name)
	}
	sort.Strings(names)

	out := df
	for _, name := range names {
		col, ok := out.Column(name)
		if !ok || col.Kind != dataset.StringKind {
			continue
		}
		values := col.Strings
		out = out.Drop(name)
		for _, cat := range dc.categories[name] {
			indicator := make([]float64, len(values))
			for i, v := range values {
				if v == cat {
					indicator[i] = 1
				}
			}
			if err := out.AddFloatColumn(name+"="+cat, indicator); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func floatColumnStats(col *dataset.Column) (naFrac, mean float64) {
	n := col.Len()
	if n == 0 {
		return 0, 0
	}
	missing := 0
	sum := 0.0
	for _, v := range col.Floats {
		if math.IsNaN(v) {
			missing++
			continue
		}
		sum += v
	}
	if missing == n {
		return 1, 0
	}
	return float64(missing) / float64(n), sum / float64(n-missing)
}

func stringCategories(col *dataset.Column) []string {
	seen := map[string]bool{}
	for _, v := range col.Strings {
		if v != "" {
			seen[v] = true
		}
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return cats
}

func dropMissingTarget(df *dataset.Frame, target string) (*dataset.Frame, error) {
	col, ok := df.Column(target)
	if !ok {
		return df, nil
	}
	mask := make([]bool, col.Len())
	any := false
	for i := range mask {
		mask[i] = !col.IsMissing(i)
		if !mask[i] {
			any = true
		}
	}
	if !any {
		return df, nil
	}
	return df.Filter(mask)
}

func dropMissingRows(df *dataset.Frame, target string) (*dataset.Frame, error) {
	n := df.NumRows()
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	for _, name := range df.Names() {
		col, _ := df.Column(name)
		for i := 0; i < n; i++ {
			if col.IsMissing(i) {
				mask[i] = false
			}
		}
	}
	return df.Filter(mask)
}
