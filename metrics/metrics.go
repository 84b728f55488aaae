// Package metrics implements the scores the AutoML search and benchmark
// report: regression errors and classification accuracy measures.
package metrics

import (
	"math"

	"github.com/hikarimat/matpipe/pkg/errors"
)

func check(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(yTrue) != len(yPred) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// MSE returns the mean squared error.
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := check("metrics.MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := check("metrics.MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// R2 returns the coefficient of determination. A constant true vector
// yields an error since the score is undefined.
func R2(yTrue, yPred []float64) (float64, error) {
	const op = "metrics.R2"
	if err := check(op, yTrue, yPred); err != nil {
		return 0, err
	}
	mean := 0.0
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))

	var ssRes, ssTot float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		ssRes += d * d
		t := yTrue[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0, errors.NewValueError(op, "true values are constant")
	}
	return 1 - ssRes/ssTot, nil
}

// Accuracy returns the fraction of exactly matching labels.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if err := check("metrics.Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	hits := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}

// F1Macro returns the unweighted mean of per-class F1 scores. Classes with
// no predicted and no true positives contribute zero.
func F1Macro(yTrue, yPred []float64) (float64, error) {
	if err := check("metrics.F1Macro", yTrue, yPred); err != nil {
		return 0, err
	}

	classes := map[float64]bool{}
	for _, v := range yTrue {
		classes[v] = true
	}
	for _, v := range yPred {
		classes[v] = true
	}

	total := 0.0
	for class := range classes {
		var tp, fp, fn float64
		for i := range yTrue {
			switch {
			case yPred[i] == class && yTrue[i] == class:
				tp++
			case yPred[i] == class:
				fp++
			case yTrue[i] == class:
				fn++
			}
		}
		if tp == 0 {
			continue
		}
		precision := tp / (tp + fp)
		recall := tp / (tp + fn)
		total += 2 * precision * recall / (precision + recall)
	}
	return total / float64(len(classes)), nil
}
