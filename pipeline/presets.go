package pipeline

import (
	"github.com/hikarimat/matpipe/automl"
	"github.com/hikarimat/matpipe/featurization"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/preprocessing"
)

// Preset names a bundled stage configuration.
type Preset string

const (
	// PresetBalanced trades accuracy against runtime with the default
	// thresholds.
	PresetBalanced Preset = "balanced"
	// PresetPerformance searches harder: more folds and a tighter
	// correlation limit.
	PresetPerformance Preset = "performance"
	// PresetConvenience is the fastest configuration, meant for smoke
	// runs on small datasets.
	PresetConvenience Preset = "convenience"
)

// stages builds the four pipeline stages for a preset.
func (p Preset) stages(seed int64) (*featurization.AutoFeaturizer, *preprocessing.DataCleaner, *preprocessing.FeatureReducer, *automl.CVSearchAdaptor, error) {
	switch p {
	case PresetBalanced:
		return featurization.NewAutoFeaturizer(),
			preprocessing.NewDataCleaner(preprocessing.WithNAThreshold(0.05)),
			preprocessing.NewFeatureReducer(),
			automl.NewCVSearchAdaptor(automl.WithSeed(seed)),
			nil
	case PresetPerformance:
		return featurization.NewAutoFeaturizer(),
			preprocessing.NewDataCleaner(preprocessing.WithNAThreshold(0.01)),
			preprocessing.NewFeatureReducer(preprocessing.WithCorrThreshold(0.90)),
			automl.NewCVSearchAdaptor(automl.WithFolds(10), automl.WithSeed(seed)),
			nil
	case PresetConvenience:
		return featurization.NewAutoFeaturizer(),
			preprocessing.NewDataCleaner(preprocessing.WithNAThreshold(0.10)),
			preprocessing.NewFeatureReducer(preprocessing.WithCorrThreshold(0.98)),
			automl.NewCVSearchAdaptor(automl.WithFolds(2), automl.WithSeed(seed)),
			nil
	default:
		return nil, nil, nil, nil, errors.NewValidationError("preset", "unknown preset", string(p))
	}
}
