package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	perrors "github.com/hikarimat/matpipe/pkg/errors"
)

var _ model.Estimator = (*LinearRegression)(nil)
var _ model.Estimator = (*Ridge)(nil)
var _ model.Estimator = (*KNNRegressor)(nil)
var _ model.Estimator = (*KNNClassifier)(nil)

func TestLinearRegressionExactFit(t *testing.T) {
	// y = 2x + 1
	x := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 3, 5, 7})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(x, y))

	assert.InDelta(t, 1.0, lr.Intercept(), 1e-9)
	coef := lr.Coefficients()
	require.Len(t, coef, 1)
	assert.InDelta(t, 2.0, coef[0], 1e-9)

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{10, -1}))
	require.NoError(t, err)
	assert.InDelta(t, 21.0, pred.At(0, 0), 1e-9)
	assert.InDelta(t, -1.0, pred.At(1, 0), 1e-9)
}

func TestLinearRegressionMultivariate(t *testing.T) {
	// y = 3a - 2b + 0.5
	x := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 0,
		0, 3,
		4, 2,
		1, 5,
	})
	y := mat.NewDense(5, 1, []float64{1.5, 6.5, -5.5, 8.5, -6.5})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(x, y))

	coef := lr.Coefficients()
	assert.InDelta(t, 3.0, coef[0], 1e-9)
	assert.InDelta(t, -2.0, coef[1], 1e-9)
	assert.InDelta(t, 0.5, lr.Intercept(), 1e-9)
}

func TestLinearRegressionErrors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, nil))
	var nf *perrors.NotFittedError
	assert.ErrorAs(t, err, &nf)

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var de *perrors.DimensionError
	assert.ErrorAs(t, err, &de)

	require.NoError(t, lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3})))
	_, err = lr.Predict(mat.NewDense(1, 2, nil))
	assert.ErrorAs(t, err, &de)
}

func TestRidgeShrinksTowardZero(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{1, 3, 5, 7})

	small := NewRidge(1e-9)
	require.NoError(t, small.Fit(x, y))

	large := NewRidge(1000)
	require.NoError(t, large.Fit(x, y))

	smallPred, err := small.Predict(mat.NewDense(1, 1, []float64{2}))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, smallPred.At(0, 0), 1e-6)

	// Strong regularization pulls the slope toward zero, so far-out
	// predictions collapse toward the target mean.
	largePred, err := large.Predict(mat.NewDense(1, 1, []float64{100}))
	require.NoError(t, err)
	assert.Less(t, largePred.At(0, 0), 50.0)
}

func TestRidgeValidation(t *testing.T) {
	r := NewRidge(-1)
	err := r.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{1, 2}))
	var ve *perrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestKNNRegressor(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
	y := mat.NewDense(4, 1, []float64{0, 2, 20, 22})

	kr := NewKNNRegressor(2)
	require.NoError(t, kr.Fit(x, y))

	pred, err := kr.Predict(mat.NewDense(2, 1, []float64{0.5, 10.5}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pred.At(0, 0), 1e-9)
	assert.InDelta(t, 21.0, pred.At(1, 0), 1e-9)
}

func TestKNNClassifier(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{0, 0.1, 0.2, 5, 5.1, 5.2})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	kc := NewKNNClassifier(3)
	require.NoError(t, kc.Fit(x, y))

	pred, err := kc.Predict(mat.NewDense(2, 1, []float64{0.05, 5.05}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.At(0, 0))
	assert.Equal(t, 1.0, pred.At(1, 0))
}

func TestKNNValidation(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{0, 1})
	y := mat.NewDense(2, 1, []float64{0, 1})

	var ve *perrors.ValidationError
	assert.ErrorAs(t, NewKNNRegressor(0).Fit(x, y), &ve)
	assert.ErrorAs(t, NewKNNRegressor(5).Fit(x, y), &ve)
}

func TestMajorityVoteTieBreak(t *testing.T) {
	assert.Equal(t, 0.0, majorityVote([]float64{0, 1, 1, 0}))
	assert.Equal(t, 2.0, majorityVote([]float64{2, 2, 1}))
}
