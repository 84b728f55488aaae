// Package automl selects and trains the final estimator: candidate models
// are scored by k-fold cross validation and the winner is refit on the
// full training data.
package automl

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/learner"
	"github.com/hikarimat/matpipe/metrics"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
)

// Mode distinguishes regression from classification problems.
type Mode string

const (
	Regression     Mode = "regression"
	Classification Mode = "classification"
)

// DefaultFolds is the default cross validation fold count.
const DefaultFolds = 5

// Adaptor trains a model on a numeric frame and predicts on new frames.
type Adaptor interface {
	Fit(df *dataset.Frame, target string, mode Mode) error
	Predict(df *dataset.Frame) ([]float64, error)
	BestName() string
	BestScore() float64
	Features() []string
}

// candidate pairs an estimator factory with its display name. A fresh
// instance is built per fold so state never leaks between fits.
type candidate struct {
	name  string
	build func() model.Estimator
}

func regressionCandidates() []candidate {
	return []candidate{
		{"LinearRegression", func() model.Estimator { return learner.NewLinearRegression() }},
		{"Ridge", func() model.Estimator { return learner.NewRidge(learner.DefaultRidgeAlpha) }},
		{"KNNRegressor", func() model.Estimator { return learner.NewKNNRegressor(learner.DefaultKNeighbors) }},
	}
}

func classificationCandidates() []candidate {
	return []candidate{
		{"KNNClassifier(1)", func() model.Estimator { return learner.NewKNNClassifier(1) }},
		{"KNNClassifier(5)", func() model.Estimator { return learner.NewKNNClassifier(learner.DefaultKNeighbors) }},
		{"KNNClassifier(15)", func() model.Estimator { return learner.NewKNNClassifier(15) }},
	}
}

// AdaptorOption configures a CVSearchAdaptor.
type AdaptorOption func(*CVSearchAdaptor)

// WithFolds sets the cross validation fold count.
func WithFolds(k int) AdaptorOption {
	return func(a *CVSearchAdaptor) { a.folds = k }
}

// WithSeed fixes the shuffling seed for reproducible searches.
func WithSeed(seed int64) AdaptorOption {
	return func(a *CVSearchAdaptor) { a.seed = seed }
}

// CVSearchAdaptor scores each candidate by k-fold cross validation and
// keeps the best. Regression is scored by RMSE (lower wins),
// classification by accuracy (higher wins).
type CVSearchAdaptor struct {
	model.BaseEstimator

	folds int
	seed  int64

	mode      Mode
	features  []string
	best      model.Estimator
	bestName  string
	bestScore float64

	logger log.Logger
}

// NewCVSearchAdaptor builds an adaptor with the default fold count.
func NewCVSearchAdaptor(opts ...AdaptorOption) *CVSearchAdaptor {
	a := &CVSearchAdaptor{
		folds:  DefaultFolds,
		logger: log.GetLogger().With(log.StageKey, log.StageLearner),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BestName returns the winning candidate's name.
func (a *CVSearchAdaptor) BestName() string { return a.bestName }

// BestScore returns the winning candidate's cross validation score.
func (a *CVSearchAdaptor) BestScore() float64 { return a.bestScore }

// Features returns the feature columns used at fit, in order.
func (a *CVSearchAdaptor) Features() []string {
	return append([]string(nil), a.features...)
}

// AdaptorState is the serializable fitted state of a CVSearchAdaptor.
type AdaptorState struct {
	Mode      Mode
	Folds     int
	Features  []string
	BestName  string
	BestScore float64
	Model     learner.Snapshot
}

// State captures the fitted state for persistence.
func (a *CVSearchAdaptor) State() (AdaptorState, error) {
	if !a.IsFitted() {
		return AdaptorState{}, errors.NewNotFittedError("CVSearchAdaptor", "State")
	}
	snap, err := learner.Capture(a.best)
	if err != nil {
		return AdaptorState{}, err
	}
	return AdaptorState{
		Mode:      a.mode,
		Folds:     a.folds,
		Features:  a.Features(),
		BestName:  a.bestName,
		BestScore: a.bestScore,
		Model:     snap,
	}, nil
}

// RestoreState rebuilds a fitted CVSearchAdaptor from a saved state.
func (a *CVSearchAdaptor) RestoreState(s AdaptorState) error {
	est, err := learner.Restore(s.Model)
	if err != nil {
		return err
	}
	a.mode = s.Mode
	a.folds = s.Folds
	a.features = append([]string(nil), s.Features...)
	a.best = est
	a.bestName = s.BestName
	a.bestScore = s.BestScore
	a.SetFitted()
	return nil
}

// Fit cross validates every candidate and refits the winner on all rows.
func (a *CVSearchAdaptor) Fit(df *dataset.Frame, target string, mode Mode) error {
	const op = "CVSearchAdaptor.Fit"
	if a.folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", a.folds)
	}
	if mode != Regression && mode != Classification {
		return errors.NewValidationError("mode", "unknown mode", string(mode))
	}
	if !df.HasColumn(target) {
		return errors.NewMissingColumnError(op, target)
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

	x, err := df.Matrix(features)
	if err != nil {
		return err
	}
	targetCol, _ := df.Column(target)
	y := targetCol.Floats

	n := len(y)
	folds := a.folds
	if folds > n {
		return errors.NewValidationError("folds", "exceeds number of rows", folds)
	}

	perm := rand.New(rand.NewSource(a.seed)).Perm(n)

	candidates := regressionCandidates()
	if mode == Classification {
		candidates = classificationCandidates()
	}

	bestIdx := -1
	var bestScore float64
	for ci, cand := range candidates {
		score, err := a.crossValidate(cand, x, y, perm, folds, mode)
		if err != nil {
			a.logger.Warn("candidate failed", "candidate", cand.name, "error", err)
			continue
		}
		a.logger.Debug("candidate scored",
			"candidate", cand.name, log.ScoreKey, score, log.FoldsKey, folds)
		if bestIdx < 0 || better(mode, score, bestScore) {
			bestIdx, bestScore = ci, score
		}
	}
	if bestIdx < 0 {
		return errors.NewValueError(op, "no candidate could be fit")
	}

	winner := candidates[bestIdx]
	est := winner.build()
	if err := est.Fit(x, columnVector(y)); err != nil {
		return errors.NewPipeError(op, log.StageLearner, err)
	}

	a.mode = mode
	a.features = features
	a.best = est
	a.bestName = winner.name
	a.bestScore = bestScore
	a.logger.Info("model selected",
		"candidate", winner.name, log.ScoreKey, bestScore, log.ModeKey, string(mode))
	a.SetFitted()
	return nil
}

// Predict runs the winning estimator over the stored feature columns.
func (a *CVSearchAdaptor) Predict(df *dataset.Frame) ([]float64, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("CVSearchAdaptor", "Predict")
	}
	x, err := df.Matrix(a.features)
	if err != nil {
		return nil, err
	}
	pred, err := a.best.Predict(x)
	if err != nil {
		return nil, err
	}

	r, _ := pred.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = pred.At(i, 0)
	}
	return out, nil
}

func (a *CVSearchAdaptor) crossValidate(cand candidate, x *mat.Dense, y []float64, perm []int, folds int, mode Mode) (float64, error) {
	n := len(y)
	_, c := x.Dims()

	total := 0.0
	for fold := 0; fold < folds; fold++ {
		lo := fold * n / folds
		hi := (fold + 1) * n / folds

		testIdx := perm[lo:hi]
		trainIdx := make([]int, 0, n-len(testIdx))
		trainIdx = append(trainIdx, perm[:lo]...)
		trainIdx = append(trainIdx, perm[hi:]...)

		xTrain, yTrain := subset(x, y, trainIdx, c)
		xTest, yTest := subset(x, y, testIdx, c)

		est := cand.build()
		if err := est.Fit(xTrain, columnVector(yTrain)); err != nil {
			return 0, err
		}
		pred, err := est.Predict(xTest)
		if err != nil {
			return 0, err
		}
		yPred := make([]float64, len(yTest))
		for i := range yPred {
			yPred[i] = pred.At(i, 0)
		}

		var score float64
		if mode == Regression {
			score, err = metrics.RMSE(yTest, yPred)
		} else {
			score, err = metrics.Accuracy(yTest, yPred)
		}
		if err != nil {
			return 0, err
		}
		total += score
	}
	return total / float64(folds), nil
}

func better(mode Mode, score, best float64) bool {
	if mode == Regression {
		return score < best
	}
	return score > best
}

func subset(x *mat.Dense, y []float64, idx []int, cols int) (*mat.Dense, []float64) {
	xs := mat.NewDense(len(idx), cols, nil)
	ys := make([]float64, len(idx))
	for i, src := range idx {
		for j := 0; j < cols; j++ {
			xs.Set(i, j, x.At(src, j))
		}
		ys[i] = y[src]
	}
	return xs, ys
}

func columnVector(y []float64) *mat.Dense {
	return mat.NewDense(len(y), 1, append([]float64(nil), y...))
}
