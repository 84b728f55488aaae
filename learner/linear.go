// Package learner implements the estimators the AutoML search chooses
// between: linear models and k-nearest neighbours, for regression and
// classification.
package learner

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// LinearRegression fits ordinary least squares with an intercept.
type LinearRegression struct {
	model.BaseEstimator

	coef      *mat.VecDense
	intercept float64
	nFeatures int
}

// NewLinearRegression builds an unfitted ordinary least squares model.
func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

func (lr *LinearRegression) Name() string { return "LinearRegression" }

// Coefficients returns a copy of the fitted weights, without the intercept.
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.coef == nil {
		return nil
	}
	out := make([]float64, lr.coef.Len())
	for i := range out {
		out[i] = lr.coef.AtVec(i)
	}
	return out
}

// Intercept returns the fitted intercept.
func (lr *LinearRegression) Intercept() float64 { return lr.intercept }

// Fit solves the least squares problem with an intercept column via QR.
func (lr *LinearRegression) Fit(x, y mat.Matrix) error {
	const op = "LinearRegression.Fit"
	xr, xc, yv, err := checkFitInputs(op, x, y)
	if err != nil {
		return err
	}
	// QR needs at least as many rows as unknowns (features plus intercept).
	if xr < xc+1 {
		return errors.Wrap(errors.ErrSingularMatrix, op)
	}

	aug := augmentIntercept(x, xr, xc)
	var qr mat.QR
	qr.Factorize(aug)

	sol := mat.NewDense(xc+1, 1, nil)
	rhs := mat.NewDense(xr, 1, nil)
	rhs.SetCol(0, rawVec(yv))
	if err := qr.SolveTo(sol, false, rhs); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, op)
	}

	lr.setSolution(sol, xc)
	return nil
}

// Predict returns an n x 1 matrix of predictions.
func (lr *LinearRegression) Predict(x mat.Matrix) (mat.Matrix, error) {
	return linearPredict(&lr.BaseEstimator, "LinearRegression", lr.coef, lr.intercept, lr.nFeatures, x)
}

func (lr *LinearRegression) setSolution(sol *mat.Dense, nFeatures int) {
	lr.intercept = sol.At(0, 0)
	lr.coef = mat.NewVecDense(nFeatures, nil)
	for j := 0; j < nFeatures; j++ {
		lr.coef.SetVec(j, sol.At(j+1, 0))
	}
	lr.nFeatures = nFeatures
	lr.SetFitted()
}

func checkFitInputs(op string, x, y mat.Matrix) (rows, cols int, yv *mat.VecDense, err error) {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr == 0 || xc == 0 {
		return 0, 0, nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if yc != 1 {
		return 0, 0, nil, errors.NewDimensionError(op, 1, yc, 1)
	}
	if yr != xr {
		return 0, 0, nil, errors.NewDimensionError(op, xr, yr, 0)
	}
	yv = mat.NewVecDense(yr, nil)
	for i := 0; i < yr; i++ {
		yv.SetVec(i, y.At(i, 0))
	}
	return xr, xc, yv, nil
}

func augmentIntercept(x mat.Matrix, r, c int) *mat.Dense {
	aug := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < c; j++ {
			aug.Set(i, j+1, x.At(i, j))
		}
	}
	return aug
}

func rawVec(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func linearPredict(base *model.BaseEstimator, component string, coef *mat.VecDense, intercept float64, nFeatures int, x mat.Matrix) (mat.Matrix, error) {
	if !base.IsFitted() {
		return nil, errors.NewNotFittedError(component, "Predict")
	}
	r, c := x.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError(component+".Predict", nFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := intercept
		for j := 0; j < c; j++ {
			sum += coef.AtVec(j) * x.At(i, j)
		}
		out.Set(i, 0, sum)
	}
	return out, nil
}
