package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
)

const (
	// DefaultCorrThreshold is the absolute Pearson correlation above which
	// one of a feature pair is removed.
	DefaultCorrThreshold = 0.95
	// DefaultVarThreshold removes features whose variance is at or below
	// this value.
	DefaultVarThreshold = 0.0
)

// ReducerOption configures a FeatureReducer.
type ReducerOption func(*FeatureReducer)

// WithCorrThreshold sets the pairwise correlation limit.
func WithCorrThreshold(r float64) ReducerOption {
	return func(fr *FeatureReducer) { fr.corrThreshold = r }
}

// WithVarThreshold sets the minimum feature variance.
func WithVarThreshold(v float64) ReducerOption {
	return func(fr *FeatureReducer) { fr.varThreshold = v }
}

// FeatureReducer removes constant features and, from each highly
// correlated feature pair, the one less correlated with the target.
type FeatureReducer struct {
	model.BaseEstimator

	corrThreshold float64
	varThreshold  float64

	kept    []string
	removed []string

	logger log.Logger
}

// NewFeatureReducer builds a FeatureReducer with the default thresholds.
func NewFeatureReducer(opts ...ReducerOption) *FeatureReducer {
	fr := &FeatureReducer{
		corrThreshold: DefaultCorrThreshold,
		varThreshold:  DefaultVarThreshold,
		logger:        log.GetLogger().With(log.StageKey, log.StageReducer),
	}
	for _, opt := range opts {
		opt(fr)
	}
	return fr
}

// KeptFeatures returns the surviving feature names, in frame order.
func (fr *FeatureReducer) KeptFeatures() []string {
	return append([]string(nil), fr.kept...)
}

// RemovedFeatures returns the removed feature names, sorted.
func (fr *FeatureReducer) RemovedFeatures() []string {
	return append([]string(nil), fr.removed...)
}

// ReducerState is the serializable fitted state of a FeatureReducer.
type ReducerState struct {
	CorrThreshold float64
	VarThreshold  float64
	Kept          []string
	Removed       []string
}

// State captures the fitted state for persistence.
func (fr *FeatureReducer) State() ReducerState {
	return ReducerState{
		CorrThreshold: fr.corrThreshold,
		VarThreshold:  fr.varThreshold,
		Kept:          fr.KeptFeatures(),
		Removed:       fr.RemovedFeatures(),
	}
}

// RestoreState rebuilds a fitted FeatureReducer from a saved state.
func (fr *FeatureReducer) RestoreState(s ReducerState) {
	fr.corrThreshold = s.CorrThreshold
	fr.varThreshold = s.VarThreshold
	fr.kept = append([]string(nil), s.Kept...)
	fr.removed = append([]string(nil), s.Removed...)
	fr.SetFitted()
}

// Fit decides which feature columns survive. Only float columns other than
// the target participate; the frame must already be cleaned.
func (fr *FeatureReducer) Fit(df *dataset.Frame, target string) error {
	const op = "FeatureReducer.Fit"
	if fr.corrThreshold <= 0 || fr.corrThreshold > 1 {
		return errors.NewValidationError("corrThreshold", "must be in (0, 1]", fr.corrThreshold)
	}
	if !df.HasColumn(target) {
		return errors.NewMissingColumnError(op, target)
	}
	targetCol, _ := df.Column(target)
	if targetCol.Kind != dataset.FloatKind {
		return errors.NewValueError(op, "target column is not numeric")
	}

	features := make([]string, 0, df.NumCols())
	for _, name := range df.FloatColumnNames() {
		if name != target {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}

	columns := make(map[string][]float64, len(features))
	removedSet := map[string]bool{}
	for _, name := range features {
		col, _ := df.Column(name)
		columns[name] = col.Floats
		if variance(col.Floats) <= fr.varThreshold {
			removedSet[name] = true
		}
	}

	// |target correlation| decides which of a correlated pair to keep.
	targetCorr := make(map[string]float64, len(features))
	for _, name := range features {
		if removedSet[name] {
			continue
		}
		targetCorr[name] = math.Abs(stat.Correlation(columns[name], targetCol.Floats, nil))
	}

	for i := 0; i < len(features); i++ {
		a := features[i]
		if removedSet[a] {
			continue
		}
		for j := i + 1; j < len(features); j++ {
			b := features[j]
			if removedSet[b] {
				continue
			}
			r := stat.Correlation(columns[a], columns[b], nil)
			if math.IsNaN(r) || math.Abs(r) < fr.corrThreshold {
				continue
			}
			if targetCorr[a] >= targetCorr[b] {
				removedSet[b] = true
			} else {
				removedSet[a] = true
			}
			if removedSet[a] {
				break
			}
		}
	}

	fr.kept = nil
	fr.removed = nil
	for _, name := range features {
		if removedSet[name] {
			fr.removed = append(fr.removed, name)
		} else {
			fr.kept = append(fr.kept, name)
		}
	}
	sort.Strings(fr.removed)

	fr.logger.Info("features reduced",
		log.ColumnsKey, len(fr.kept),
		"removed", len(fr.removed))
	fr.SetFitted()
	return nil
}

// Transform keeps only the surviving features, plus the target when
// present. Features absent from the frame are an error.
func (fr *FeatureReducer) Transform(df *dataset.Frame, target string) (*dataset.Frame, error) {
	if !fr.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureReducer", "Transform")
	}
	names := append([]string(nil), fr.kept...)
	if df.HasColumn(target) {
		names = append(names, target)
	}
	return df.Select(names...)
}

// FitTransform runs Fit then Transform on the same frame.
func (fr *FeatureReducer) FitTransform(df *dataset.Frame, target string) (*dataset.Frame, error) {
	if err := fr.Fit(df, target); err != nil {
		return nil, err
	}
	return fr.Transform(df, target)
}

func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.Variance(xs, nil)
}
