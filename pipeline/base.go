// Package pipeline wires featurization, cleaning, reduction and learning
// into a single fit/predict surface over materials datasets.
package pipeline

import (
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/featurization"
	"github.com/hikarimat/matpipe/preprocessing"
)

// DataframeTransformer is a fittable frame-to-frame stage. The target
// column is carried through untouched so downstream stages can see it.
type DataframeTransformer interface {
	Fit(df *dataset.Frame, target string) error
	Transform(df *dataset.Frame, target string) (*dataset.Frame, error)
	FitTransform(df *dataset.Frame, target string) (*dataset.Frame, error)
}

var (
	_ DataframeTransformer = (*featurization.AutoFeaturizer)(nil)
	_ DataframeTransformer = (*preprocessing.DataCleaner)(nil)
	_ DataframeTransformer = (*preprocessing.FeatureReducer)(nil)
)
