package learner

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// DefaultRidgeAlpha is the default L2 penalty strength.
const DefaultRidgeAlpha = 1.0

// Ridge fits L2-regularized least squares with an unpenalized intercept.
type Ridge struct {
	model.BaseEstimator

	alpha     float64
	coef      *mat.VecDense
	intercept float64
	nFeatures int
}

// NewRidge builds an unfitted ridge model with penalty alpha.
func NewRidge(alpha float64) *Ridge { return &Ridge{alpha: alpha} }

func (r *Ridge) Name() string { return "Ridge" }

// Fit solves the normal equations with an L2 penalty on the weights.
func (r *Ridge) Fit(x, y mat.Matrix) error {
	const op = "Ridge.Fit"
	if r.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.alpha)
	}
	xr, xc, yv, err := checkFitInputs(op, x, y)
	if err != nil {
		return err
	}

	aug := augmentIntercept(x, xr, xc)

	var gram mat.Dense
	gram.Mul(aug.T(), aug)
	for j := 1; j <= xc; j++ {
		gram.Set(j, j, gram.At(j, j)+r.alpha)
	}

	var rhs mat.Dense
	yd := mat.NewDense(xr, 1, rawVec(yv))
	rhs.Mul(aug.T(), yd)

	var sol mat.Dense
	if err := sol.Solve(&gram, &rhs); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, op)
	}

	r.intercept = sol.At(0, 0)
	r.coef = mat.NewVecDense(xc, nil)
	for j := 0; j < xc; j++ {
		r.coef.SetVec(j, sol.At(j+1, 0))
	}
	r.nFeatures = xc
	r.SetFitted()
	return nil
}

// Predict returns an n x 1 matrix of predictions.
func (r *Ridge) Predict(x mat.Matrix) (mat.Matrix, error) {
	return linearPredict(&r.BaseEstimator, "Ridge", r.coef, r.intercept, r.nFeatures, x)
}
