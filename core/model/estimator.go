package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable estimators.
type Fitter interface {
	// Fit trains the estimator on X and targets y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for estimators that can predict.
type Predictor interface {
	// Predict returns predictions for the rows of X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator combines fitting and prediction. All learners used by the AutoML
// adaptor implement it.
type Estimator interface {
	Fitter
	Predictor

	// Name returns a short identifier used in logs and the pipeline digest.
	Name() string
}

// Transformer is the interface for matrix-level data transformations.
type Transformer interface {
	// Fit learns the parameters needed for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the transformation.
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform combines Fit and Transform on the same data.
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}
