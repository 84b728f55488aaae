// Package matpipe is an AutoML library for materials science datasets.
//
// A dataset is a column-oriented frame holding chemical compositions,
// crystal structures and numeric columns. The pipeline turns it into a
// trained model in four stages:
//
//   - featurization: compositions and structures become numeric feature
//     vectors, with featurizers auto-excluded when dataset meta-features
//     predict they would mostly produce missing values
//   - cleaning: over-sparse columns are dropped, remaining missing values
//     imputed or removed, and categorical columns one-hot encoded
//   - reduction: constant and highly correlated features are pruned
//   - learning: candidate models are scored by cross validation and the
//     winner is refit on all rows
//
// The pipeline package ties the stages together:
//
//	pipe, err := pipeline.NewMatPipe(pipeline.PresetBalanced)
//	if err != nil {
//		// handle error
//	}
//	if err := pipe.Fit(train, "bandgap"); err != nil {
//		// handle error
//	}
//	predictions, err := pipe.Predict(test)
//
// Each stage is also usable on its own; see the featurization,
// preprocessing and automl packages.
package matpipe
