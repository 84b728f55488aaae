package featurizer

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// ApplyOptions controls frame-level featurization.
type ApplyOptions struct {
	// Workers is the number of concurrent row workers. Zero means
	// runtime.NumCPU().
	Workers int
	// IgnoreErrors fills failed rows with NaN and emits a warning instead
	// of aborting. When false the first row error aborts the run.
	IgnoreErrors bool
}

func (o ApplyOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// ApplyComposition runs each featurizer over the named composition column
// and appends one float column per feature label. Missing rows become NaN.
func ApplyComposition(ctx context.Context, f *dataset.Frame, column string, fts []CompositionFeaturizer, opts ApplyOptions) error {
	col, ok := f.Column(column)
	if !ok {
		return errors.NewMissingColumnError("featurizer.ApplyComposition", column)
	}
	if col.Kind != dataset.CompositionKind {
		return errors.NewValueError("featurizer.ApplyComposition", "column "+column+" does not hold compositions")
	}
	for _, ft := range fts {
		featurize := func(i int) ([]float64, error) {
			c := col.Compositions[i]
			if c == nil {
				return nil, errNoValue
			}
			return ft.Featurize(c)
		}
		if err := applyOne(ctx, f, ft.Name(), ft.Labels(), col.Len(), featurize, opts); err != nil {
			return err
		}
	}
	return nil
}

// ApplyStructure runs each featurizer over the named structure column and
// appends one float column per feature label.
func ApplyStructure(ctx context.Context, f *dataset.Frame, column string, fts []StructureFeaturizer, opts ApplyOptions) error {
	col, ok := f.Column(column)
	if !ok {
		return errors.NewMissingColumnError("featurizer.ApplyStructure", column)
	}
	if col.Kind != dataset.StructureKind {
		return errors.NewValueError("featurizer.ApplyStructure", "column "+column+" does not hold structures")
	}
	for _, ft := range fts {
		featurize := func(i int) ([]float64, error) {
			s := col.Structures[i]
			if s == nil {
				return nil, errNoValue
			}
			return ft.Featurize(s)
		}
		if err := applyOne(ctx, f, ft.Name(), ft.Labels(), col.Len(), featurize, opts); err != nil {
			return err
		}
	}
	return nil
}

// errNoValue marks a missing input row. It is never surfaced to callers
// and never counted as a featurization failure.
var errNoValue = errors.New("no value")

func applyOne(ctx context.Context, f *dataset.Frame, name string, labels []string, nRows int, featurize func(i int) ([]float64, error), opts ApplyOptions) error {
	results := make([][]float64, nRows)
	rowErrs := make([]error, nRows)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := 0; i < nRows; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := errors.SafeExecute(name, func() error {
				values, ferr := featurize(i)
				if ferr != nil {
					return ferr
				}
				if len(values) != len(labels) {
					return errors.NewDimensionError(name, len(labels), len(values), 1)
				}
				results[i] = values
				return nil
			})
			if err == nil || errors.Is(err, errNoValue) {
				return nil
			}
			if opts.IgnoreErrors {
				rowErrs[i] = err
				return nil
			}
			return errors.NewPipeError(name, "featurize", err)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	var firstErr error
	for _, err := range rowErrs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		errors.Warn(errors.NewFeaturizationWarning(name, failed, nRows, firstErr.Error()))
	}

	for j, label := range labels {
		values := make([]float64, nRows)
		for i := range values {
			if results[i] == nil {
				values[i] = math.NaN()
			} else {
				values[i] = results[i][j]
			}
		}
		if err := f.AddFloatColumn(name+" "+label, values); err != nil {
			return err
		}
	}
	return nil
}
