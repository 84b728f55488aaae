package learner

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/core/model"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/preprocessing"
)

// Snapshot is the serializable state of a fitted estimator. Only the
// fields relevant to the estimator kind are populated.
type Snapshot struct {
	Kind string

	// Linear models.
	Coef      []float64
	Intercept float64
	Alpha     float64

	// Nearest neighbours.
	K       int
	Rows    int
	Cols    int
	Train   []float64
	Targets []float64
	Means   []float64
	Scales  []float64
}

const (
	kindLinear        = "linear"
	kindRidge         = "ridge"
	kindKNNRegressor  = "knn-regressor"
	kindKNNClassifier = "knn-classifier"
)

// Capture extracts the state of a fitted estimator for persistence.
func Capture(est model.Estimator) (Snapshot, error) {
	const op = "learner.Capture"
	switch e := est.(type) {
	case *LinearRegression:
		if !e.IsFitted() {
			return Snapshot{}, errors.NewNotFittedError("LinearRegression", "Capture")
		}
		return Snapshot{Kind: kindLinear, Coef: e.Coefficients(), Intercept: e.intercept}, nil
	case *Ridge:
		if !e.IsFitted() {
			return Snapshot{}, errors.NewNotFittedError("Ridge", "Capture")
		}
		return Snapshot{Kind: kindRidge, Coef: rawVec(e.coef), Intercept: e.intercept, Alpha: e.alpha}, nil
	case *KNNRegressor:
		return captureKNN(kindKNNRegressor, &e.knnBase)
	case *KNNClassifier:
		return captureKNN(kindKNNClassifier, &e.knnBase)
	default:
		return Snapshot{}, errors.NewValueError(op, "unknown estimator "+est.Name())
	}
}

func captureKNN(kind string, b *knnBase) (Snapshot, error) {
	if !b.IsFitted() {
		return Snapshot{}, errors.NewNotFittedError(kind, "Capture")
	}
	r, c := b.train.Dims()
	train := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			train = append(train, b.train.At(i, j))
		}
	}
	return Snapshot{
		Kind:    kind,
		K:       b.k,
		Rows:    r,
		Cols:    c,
		Train:   train,
		Targets: append([]float64(nil), b.targets...),
		Means:   b.scaler.Means(),
		Scales:  b.scaler.Scales(),
	}, nil
}

// Restore rebuilds a fitted estimator from a snapshot.
func Restore(s Snapshot) (model.Estimator, error) {
	const op = "learner.Restore"
	switch s.Kind {
	case kindLinear:
		lr := NewLinearRegression()
		lr.coef = mat.NewVecDense(len(s.Coef), append([]float64(nil), s.Coef...))
		lr.intercept = s.Intercept
		lr.nFeatures = len(s.Coef)
		lr.SetFitted()
		return lr, nil
	case kindRidge:
		r := NewRidge(s.Alpha)
		r.coef = mat.NewVecDense(len(s.Coef), append([]float64(nil), s.Coef...))
		r.intercept = s.Intercept
		r.nFeatures = len(s.Coef)
		r.SetFitted()
		return r, nil
	case kindKNNRegressor:
		kr := NewKNNRegressor(s.K)
		restoreKNN(&kr.knnBase, s)
		return kr, nil
	case kindKNNClassifier:
		kc := NewKNNClassifier(s.K)
		restoreKNN(&kc.knnBase, s)
		return kc, nil
	default:
		return nil, errors.NewValueError(op, "unknown snapshot kind "+s.Kind)
	}
}

func restoreKNN(b *knnBase, s Snapshot) {
	b.train = mat.NewDense(s.Rows, s.Cols, append([]float64(nil), s.Train...))
	b.targets = append([]float64(nil), s.Targets...)
	b.scaler = preprocessing.NewStandardScalerFrom(s.Means, s.Scales)
	b.nFeatures = s.Cols
	b.SetFitted()
}
