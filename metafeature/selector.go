package metafeature

import (
	"sort"

	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// DefaultMaxNAFrac is the default tolerated NA fraction for auto-exclusion.
const DefaultMaxNAFrac = 0.05

// compositionRule excludes featurizers when a composition meta-feature
// crosses its threshold. Thresholds are expressed relative to MaxNAFrac: a
// featurizer expected to produce NA values on more than MaxNAFrac of rows is
// excluded.
type compositionRule struct {
	appliesFn func(mf *CompositionMetafeatures, maxNAFrac float64) bool
	excludes  []string
}

type structureRule struct {
	appliesFn func(mf *StructureMetafeatures, maxNAFrac float64) bool
	excludes  []string
}

// The rule tables encode which featurizers are inapplicable to which kinds
// of datasets: alloy-oriented featurizers (Miedema, YangSolidSolution) fail
// on non-metallic compounds, ion-based featurizers fail on metallic alloys
// with no oxidation states, and symmetry features fail on disordered
// structures.
var compositionRules = []compositionRule{
	{
		appliesFn: func(mf *CompositionMetafeatures, maxNAFrac float64) bool {
			return mf.PercentOfAllNonmetal > maxNAFrac
		},
		excludes: []string{"Miedema", "YangSolidSolution"},
	},
	{
		appliesFn: func(mf *CompositionMetafeatures, maxNAFrac float64) bool {
			return mf.PercentOfContainTransMetal < 1-maxNAFrac
		},
		excludes: []string{"TMetalFraction", "Miedema", "YangSolidSolution"},
	},
	{
		appliesFn: func(mf *CompositionMetafeatures, maxNAFrac float64) bool {
			return mf.PercentOfAllMetal > maxNAFrac
		},
		excludes: []string{
			"CationProperty", "OxidationStates", "ElectronAffinity",
			"ElectronegativityDiff", "IonProperty",
		},
	},
}

var structureRules = []structureRule{
	{
		appliesFn: func(mf *StructureMetafeatures, maxNAFrac float64) bool {
			return mf.PercentOfOrderedStructures < 1-maxNAFrac
		},
		excludes: []string{"GlobalSymmetryFeatures"},
	},
}

// MetaSelector decides which featurizers to skip for a dataset, based on its
// meta-features and a tolerated NA fraction. The meta-features computed by
// AutoExcludes are cached on the selector.
type MetaSelector struct {
	maxNAFrac float64

	mfs      *DatasetMetafeatures
	excludes []string
}

// NewMetaSelector creates a selector with the given tolerated NA fraction.
func NewMetaSelector(maxNAFrac float64) (*MetaSelector, error) {
	if maxNAFrac < 0 || maxNAFrac > 1 {
		return nil, errors.NewValidationError("max_na_frac", "must be in [0, 1]", maxNAFrac)
	}
	return &MetaSelector{maxNAFrac: maxNAFrac}, nil
}

// MaxNAFrac returns the tolerated NA fraction.
func (s *MetaSelector) MaxNAFrac() float64 {
	return s.maxNAFrac
}

// AutoExcludes computes the dataset's meta-features and returns the sorted,
// deduplicated names of featurizers to exclude.
func (s *MetaSelector) AutoExcludes(f *dataset.Frame) ([]string, error) {
	mfs, err := Compute(f)
	if err != nil {
		return nil, err
	}
	s.mfs = mfs

	seen := map[string]bool{}
	if mfs.Composition != nil {
		for _, rule := range compositionRules {
			if rule.appliesFn(mfs.Composition, s.maxNAFrac) {
				for _, name := range rule.excludes {
					seen[name] = true
				}
			}
		}
	}
	if mfs.Structure != nil {
		for _, rule := range structureRules {
			if rule.appliesFn(mfs.Structure, s.maxNAFrac) {
				for _, name := range rule.excludes {
					seen[name] = true
				}
			}
		}
	}

	excludes := make([]string, 0, len(seen))
	for name := range seen {
		excludes = append(excludes, name)
	}
	sort.Strings(excludes)
	s.excludes = excludes
	return excludes, nil
}

// Metafeatures returns the meta-features computed by the last AutoExcludes
// call, or nil if it has not run.
func (s *MetaSelector) Metafeatures() *DatasetMetafeatures {
	return s.mfs
}

// Excludes returns the exclusion list from the last AutoExcludes call.
func (s *MetaSelector) Excludes() []string {
	return s.excludes
}
