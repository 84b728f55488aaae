package learner

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/core/parallel"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/preprocessing"
)

// DefaultKNeighbors is the default neighbourhood size.
const DefaultKNeighbors = 5

// knnBase holds the standardized training data shared by the KNN
// regressor and classifier.
type knnBase struct {
	model.BaseEstimator

	k         int
	scaler    *preprocessing.StandardScaler
	train     *mat.Dense
	targets   []float64
	nFeatures int
}

func (b *knnBase) fit(op string, x, y mat.Matrix) error {
	if b.k < 1 {
		return errors.NewValidationError("k", "must be at least 1", b.k)
	}
	xr, xc, yv, err := checkFitInputs(op, x, y)
	if err != nil {
		return err
	}
	if b.k > xr {
		return errors.NewValidationError("k", "exceeds number of samples", b.k)
	}

	b.scaler = preprocessing.NewStandardScaler()
	scaled, err := b.scaler.FitTransform(x)
	if err != nil {
		return err
	}
	b.train = scaled
	b.targets = rawVec(yv)
	b.nFeatures = xc
	b.SetFitted()
	return nil
}

// neighbors returns the target values of the k nearest training rows.
func (b *knnBase) neighbors(row []float64) []float64 {
	type cand struct {
		dist   float64
		target float64
	}
	n, _ := b.train.Dims()
	cands := make([]cand, n)
	for i := 0; i < n; i++ {
		d := 0.0
		for j, v := range row {
			diff := b.train.At(i, j) - v
			d += diff * diff
		}
		cands[i] = cand{dist: d, target: b.targets[i]}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	out := make([]float64, b.k)
	for i := 0; i < b.k; i++ {
		out[i] = cands[i].target
	}
	return out
}

// predictParallelThreshold is the query count above which prediction rows
// are distributed across CPU cores.
const predictParallelThreshold = 64

func (b *knnBase) predict(component string, x mat.Matrix, combine func(targets []float64) float64) (mat.Matrix, error) {
	if !b.IsFitted() {
		return nil, errors.NewNotFittedError(component, "Predict")
	}
	r, c := x.Dims()
	if c != b.nFeatures {
		return nil, errors.NewDimensionError(component+".Predict", b.nFeatures, c, 1)
	}
	scaled, err := b.scaler.Transform(x)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, predictParallelThreshold, func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				row[j] = scaled.At(i, j)
			}
			out.Set(i, 0, combine(b.neighbors(row)))
		}
	})
	return out, nil
}

// KNNRegressor predicts the mean target of the k nearest training rows,
// measured in standardized feature space.
type KNNRegressor struct {
	knnBase
}

// NewKNNRegressor builds an unfitted k-nearest-neighbours regressor.
func NewKNNRegressor(k int) *KNNRegressor {
	return &KNNRegressor{knnBase{k: k}}
}

func (kr *KNNRegressor) Name() string { return "KNNRegressor" }

func (kr *KNNRegressor) Fit(x, y mat.Matrix) error {
	return kr.fit("KNNRegressor.Fit", x, y)
}

func (kr *KNNRegressor) Predict(x mat.Matrix) (mat.Matrix, error) {
	return kr.predict("KNNRegressor", x, func(targets []float64) float64 {
		sum := 0.0
		for _, t := range targets {
			sum += t
		}
		return sum / float64(len(targets))
	})
}

// KNNClassifier predicts the majority class label among the k nearest
// training rows. Ties break toward the smallest label.
type KNNClassifier struct {
	knnBase
}

// NewKNNClassifier builds an unfitted k-nearest-neighbours classifier.
func NewKNNClassifier(k int) *KNNClassifier {
	return &KNNClassifier{knnBase{k: k}}
}

func (kc *KNNClassifier) Name() string { return "KNNClassifier" }

func (kc *KNNClassifier) Fit(x, y mat.Matrix) error {
	return kc.fit("KNNClassifier.Fit", x, y)
}

func (kc *KNNClassifier) Predict(x mat.Matrix) (mat.Matrix, error) {
	return kc.predict("KNNClassifier", x, majorityVote)
}

func majorityVote(targets []float64) float64 {
	counts := map[float64]int{}
	for _, t := range targets {
		counts[t]++
	}
	best := math.Inf(1)
	bestCount := -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < best) {
			best = label
			bestCount = count
		}
	}
	return best
}
