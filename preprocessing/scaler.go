package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// StandardScaler standardizes columns to zero mean and unit variance.
// Constant columns keep a unit scale so they map to zero.
type StandardScaler struct {
	model.BaseEstimator

	means  []float64
	scales []float64
}

var _ model.Transformer = (*StandardScaler)(nil)

// NewStandardScaler builds an unfitted StandardScaler.
func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// NewStandardScalerFrom rebuilds a fitted scaler from stored parameters.
func NewStandardScalerFrom(means, scales []float64) *StandardScaler {
	s := &StandardScaler{
		means:  append([]float64(nil), means...),
		scales: append([]float64(nil), scales...),
	}
	s.SetFitted()
	return s
}

// Means returns a copy of the fitted column means.
func (s *StandardScaler) Means() []float64 {
	return append([]float64(nil), s.means...)
}

// Scales returns a copy of the fitted column standard deviations.
func (s *StandardScaler) Scales() []float64 {
	return append([]float64(nil), s.scales...)
}

// Fit computes per-column means and standard deviations.
func (s *StandardScaler) Fit(x mat.Matrix) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "StandardScaler.Fit")
	}

	s.means = make([]float64, c)
	s.scales = make([]float64, c)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += x.At(i, j)
		}
		mean := sum / float64(r)

		ss := 0.0
		for i := 0; i < r; i++ {
			d := x.At(i, j) - mean
			ss += d * d
		}
		scale := math.Sqrt(ss / float64(r))
		if scale == 0 {
			scale = 1
		}
		s.means[j] = mean
		s.scales[j] = scale
	}
	s.SetFitted()
	return nil
}

// Transform standardizes x using the fitted means and scales.
func (s *StandardScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := x.Dims()
	if c != len(s.means) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.means), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (x.At(i, j)-s.means[j])/s.scales[j])
		}
	}
	return out, nil
}

// FitTransform fits the scaler and standardizes x in one call.
func (s *StandardScaler) FitTransform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}
