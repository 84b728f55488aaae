package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/dataset"
	perrors "github.com/hikarimat/matpipe/pkg/errors"
)

func TestDataCleanerDropsSparseColumns(t *testing.T) {
	var warnings []error
	perrors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer perrors.SetWarningHandler(nil)

	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("dense", []float64{1, 2, 3, 4}))
	require.NoError(t, f.AddFloatColumn("sparse", []float64{1, math.NaN(), math.NaN(), 4}))
	require.NoError(t, f.AddFloatColumn("y", []float64{0, 1, 0, 1}))

	dc := NewDataCleaner(WithNAThreshold(0.25))
	out, err := dc.FitTransform(f, "y")
	require.NoError(t, err)

	assert.True(t, out.HasColumn("dense"))
	assert.False(t, out.HasColumn("sparse"))
	assert.Equal(t, []string{"sparse"}, dc.DroppedColumns())

	require.Len(t, warnings, 1)
	var dw *perrors.DroppedColumnsWarning
	require.ErrorAs(t, warnings[0], &dw)
	assert.Equal(t, []string{"sparse"}, dw.Columns)
}

func TestDataCleanerImputesMean(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("x", []float64{1, math.NaN(), 3, 4}))
	require.NoError(t, f.AddFloatColumn("y", []float64{0, 1, 0, 1}))

	dc := NewDataCleaner(WithNAThreshold(0.5))
	out, err := dc.FitTransform(f, "y")
	require.NoError(t, err)

	col, _ := out.Column("x")
	assert.InDelta(t, (1.0+3+4)/3, col.Floats[1], 1e-12)
}

func TestDataCleanerDropRows(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("x", []float64{1, math.NaN(), 3}))
	require.NoError(t, f.AddFloatColumn("y", []float64{0, 1, 0}))

	dc := NewDataCleaner(WithNAThreshold(0.5), WithNAMethod(DropRows))
	out, err := dc.FitTransform(f, "y")
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestDataCleanerOneHotEncoding(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddStringColumn("phase", []string{"alpha", "beta", "alpha"}))
	require.NoError(t, f.AddFloatColumn("y", []float64{0, 1, 0}))

	dc := NewDataCleaner()
	out, err := dc.FitTransform(f, "y")
	require.NoError(t, err)

	assert.False(t, out.HasColumn("phase"))
	alpha, ok := out.Column("phase=alpha")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0, 1}, alpha.Floats)
	beta, ok := out.Column("phase=beta")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 0}, beta.Floats)
}

func TestDataCleanerDropsMissingTargetRows(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("x", []float64{1, 2, 3}))
	require.NoError(t, f.AddFloatColumn("y", []float64{0, math.NaN(), 1}))

	dc := NewDataCleaner()
	out, err := dc.FitTransform(f, "y")
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestDataCleanerNotFitted(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("y", []float64{0}))

	dc := NewDataCleaner()
	_, err := dc.Transform(f, "y")
	var nf *perrors.NotFittedError
	assert.ErrorAs(t, err, &nf)
}

func TestDataCleanerValidation(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("y", []float64{0}))

	dc := NewDataCleaner(WithNAThreshold(1.5))
	err := dc.Fit(f, "y")
	var ve *perrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestFeatureReducerRemovesConstant(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("constant", []float64{5, 5, 5, 5}))
	require.NoError(t, f.AddFloatColumn("varying", []float64{1, 2, 3, 4}))
	require.NoError(t, f.AddFloatColumn("y", []float64{1, 2, 3, 4}))

	fr := NewFeatureReducer()
	out, err := fr.FitTransform(f, "y")
	require.NoError(t, err)

	assert.False(t, out.HasColumn("constant"))
	assert.True(t, out.HasColumn("varying"))
	assert.Equal(t, []string{"constant"}, fr.RemovedFeatures())
}

func TestFeatureReducerRemovesCorrelated(t *testing.T) {
	f := dataset.NewFrame()
	// a and b are perfectly correlated; a tracks the target better after
	// noise is added to b's relation with y.
	require.NoError(t, f.AddFloatColumn("a", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, f.AddFloatColumn("b", []float64{2, 4, 6, 8, 10}))
	require.NoError(t, f.AddFloatColumn("noise", []float64{0.3, -0.8, 0.5, -0.1, 0.2}))
	require.NoError(t, f.AddFloatColumn("y", []float64{1.1, 2.0, 3.2, 3.9, 5.0}))

	fr := NewFeatureReducer()
	out, err := fr.FitTransform(f, "y")
	require.NoError(t, err)

	kept := 0
	for _, name := range []string{"a", "b"} {
		if out.HasColumn(name) {
			kept++
		}
	}
	assert.Equal(t, 1, kept, "exactly one of the correlated pair survives")
	assert.True(t, out.HasColumn("noise"))
	assert.True(t, out.HasColumn("y"))
}

func TestFeatureReducerTransformWithoutTarget(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("x", []float64{1, 2, 3}))
	require.NoError(t, f.AddFloatColumn("y", []float64{2, 4, 6}))

	fr := NewFeatureReducer()
	require.NoError(t, fr.Fit(f, "y"))

	test := dataset.NewFrame()
	require.NoError(t, test.AddFloatColumn("x", []float64{7, 8}))
	out, err := fr.Transform(test, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out.Names())
}

func TestStandardScaler(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
	})

	s := NewStandardScaler()
	out, err := s.FitTransform(x)
	require.NoError(t, err)

	assert.InDelta(t, -math.Sqrt(1.5), out.At(0, 0), 1e-9)
	assert.InDelta(t, 0, out.At(1, 0), 1e-9)
	// Constant column maps to zero.
	assert.InDelta(t, 0, out.At(0, 1), 1e-12)

	_, err = s.Transform(mat.NewDense(1, 3, nil))
	var de *perrors.DimensionError
	assert.ErrorAs(t, err, &de)
}

func TestStandardScalerNotFitted(t *testing.T) {
	s := NewStandardScaler()
	_, err := s.Transform(mat.NewDense(1, 1, nil))
	var nf *perrors.NotFittedError
	assert.ErrorAs(t, err, &nf)
}
