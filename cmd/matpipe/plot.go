package main

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hikarimat/matpipe/pipeline"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// parityPlot draws predicted against true targets with an identity line.
func parityPlot(result *pipeline.BenchmarkResult, target, path string) error {
	const op = "matpipe benchmark"
	trueCol, ok := result.Predictions.Column(target)
	if !ok {
		return errors.NewMissingColumnError(op, target)
	}
	predCol, ok := result.Predictions.Column("predicted " + target)
	if !ok {
		return errors.NewMissingColumnError(op, "predicted "+target)
	}

	pts := make(plotter.XYs, 0, trueCol.Len())
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < trueCol.Len(); i++ {
		x, y := trueCol.Floats[i], predCol.Floats[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
		lo = math.Min(lo, math.Min(x, y))
		hi = math.Max(hi, math.Max(x, y))
	}
	if len(pts) == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}

	p := plot.New()
	p.Title.Text = "Parity: " + target
	p.X.Label.Text = "true " + target
	p.Y.Label.Text = "predicted " + target

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, op)
	}
	p.Add(scatter)

	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.XMin, identity.XMax = lo, hi
	p.Add(identity)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
