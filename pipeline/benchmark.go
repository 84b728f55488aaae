package pipeline

import (
	"math/rand"

	"github.com/hikarimat/matpipe/automl"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/metrics"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
)

// BenchmarkResult summarizes a hold-out evaluation of the pipeline.
type BenchmarkResult struct {
	Mode      automl.Mode
	BestModel string
	CVScore   float64
	TrainRows int
	TestRows  int
	// Scores holds hold-out metrics keyed by name. Empty when the
	// benchmark was CV-only.
	Scores map[string]float64
	// Predictions pairs true and predicted targets for the test rows.
	// Nil when the benchmark was CV-only.
	Predictions *dataset.Frame
}

// Benchmark fits the pipeline on a random train split and scores it on the
// held-out rows. A zero test fraction fits on everything and reports the
// cross validation score only.
func (p *MatPipe) Benchmark(df *dataset.Frame, target string, testFrac float64) (*BenchmarkResult, error) {
	const op = "MatPipe.Benchmark"
	if testFrac < 0 || testFrac >= 1 {
		return nil, errors.NewValidationError("testFrac", "must be in [0, 1)", testFrac)
	}

	p.logger.Info("benchmark started",
		log.OperationKey, log.OperationBenchmark,
		log.TargetKey, target,
		log.RowsKey, df.NumRows())

	if testFrac == 0 {
		if err := p.Fit(df, target); err != nil {
			return nil, err
		}
		return &BenchmarkResult{
			Mode:      p.mode,
			BestModel: p.adaptor.BestName(),
			CVScore:   p.adaptor.BestScore(),
			TrainRows: df.NumRows(),
		}, nil
	}

	n := df.NumRows()
	nTest := int(float64(n) * testFrac)
	if nTest == 0 || nTest == n {
		return nil, errors.NewValueError(op, "test split is empty or everything")
	}

	perm := rand.New(rand.NewSource(p.seed)).Perm(n)
	mask := make([]bool, n)
	for _, i := range perm[:nTest] {
		mask[i] = true
	}
	test, train, err := df.Split(mask)
	if err != nil {
		return nil, err
	}

	if err := p.Fit(train, target); err != nil {
		return nil, err
	}
	pred, err := p.Predict(test)
	if err != nil {
		return nil, err
	}

	yTrue, yPred, err := p.alignedTargets(pred)
	if err != nil {
		return nil, err
	}

	scores, err := scoreAll(p.mode, yTrue, yPred)
	if err != nil {
		return nil, err
	}

	result := &BenchmarkResult{
		Mode:        p.mode,
		BestModel:   p.adaptor.BestName(),
		CVScore:     p.adaptor.BestScore(),
		TrainRows:   train.NumRows(),
		TestRows:    len(yTrue),
		Scores:      scores,
		Predictions: pred,
	}
	p.logger.Info("benchmark finished",
		log.OperationKey, log.OperationBenchmark,
		log.ScoreKey, result.CVScore)
	return result, nil
}

// alignedTargets extracts numeric true and predicted targets from a frame
// returned by Predict.
func (p *MatPipe) alignedTargets(pred *dataset.Frame) (yTrue, yPred []float64, err error) {
	const op = "MatPipe.Benchmark"
	trueCol, ok := pred.Column(p.target)
	if !ok {
		return nil, nil, errors.NewMissingColumnError(op, p.target)
	}
	predCol, ok := pred.Column(p.PredictedColumn())
	if !ok {
		return nil, nil, errors.NewMissingColumnError(op, p.PredictedColumn())
	}

	n := trueCol.Len()
	yTrue = make([]float64, n)
	yPred = make([]float64, n)
	for i := 0; i < n; i++ {
		yTrue[i] = trueCol.Floats[i]
		if predCol.Kind == dataset.StringKind {
			yPred[i] = p.encodeLabel(predCol.Strings[i])
		} else {
			yPred[i] = predCol.Floats[i]
		}
	}
	return yTrue, yPred, nil
}

func scoreAll(mode automl.Mode, yTrue, yPred []float64) (map[string]float64, error) {
	scores := map[string]float64{}
	if mode == automl.Regression {
		for name, fn := range map[string]func([]float64, []float64) (float64, error){
			"rmse": metrics.RMSE,
			"mae":  metrics.MAE,
		} {
			v, err := fn(yTrue, yPred)
			if err != nil {
				return nil, err
			}
			scores[name] = v
		}
		// R2 is undefined for constant targets; skip rather than fail.
		if v, err := metrics.R2(yTrue, yPred); err == nil {
			scores["r2"] = v
		}
	} else {
		for name, fn := range map[string]func([]float64, []float64) (float64, error){
			"accuracy": metrics.Accuracy,
			"f1_macro": metrics.F1Macro,
		} {
			v, err := fn(yTrue, yPred)
			if err != nil {
				return nil, err
			}
			scores[name] = v
		}
	}
	return scores, nil
}
