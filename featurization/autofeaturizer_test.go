package featurization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikarimat/matpipe/dataset"
	perrors "github.com/hikarimat/matpipe/pkg/errors"
)

func formulaFrame(t *testing.T, formulas []string, ys []float64) *dataset.Frame {
	t.Helper()
	f := dataset.NewFrame()
	require.NoError(t, f.AddStringColumn("composition", formulas))
	require.NoError(t, f.AddFloatColumn("y", ys))
	return f
}

func TestAutoFeaturizerFitTransform(t *testing.T) {
	f := formulaFrame(t,
		[]string{"Fe2O3", "NaCl", "SiO2", "MgAl2O4"},
		[]float64{1, 2, 3, 4})

	af := NewAutoFeaturizer()
	out, err := af.FitTransform(f, "y")
	require.NoError(t, err)

	assert.False(t, out.HasColumn("composition"), "raw column dropped")
	assert.True(t, out.HasColumn("y"), "target kept")
	assert.True(t, out.HasColumn("ElementProperty mean atomic_mass"))
	assert.True(t, out.HasColumn("Stoichiometry 0-norm"))
	assert.Greater(t, out.NumCols(), 10)

	// Input frame is untouched.
	assert.True(t, f.HasColumn("composition"))
}

func TestAutoFeaturizerExcludes(t *testing.T) {
	// No transition metals: TMetalFraction must not be applied.
	f := formulaFrame(t,
		[]string{"SiO2", "NaCl", "MgAl2O4", "CaO"},
		[]float64{1, 2, 3, 4})

	af := NewAutoFeaturizer()
	out, err := af.FitTransform(f, "y")
	require.NoError(t, err)

	assert.Contains(t, af.Excludes(), "TMetalFraction")
	assert.False(t, out.HasColumn("TMetalFraction transition metal fraction"))
	require.NotNil(t, af.Metafeatures())
}

func TestAutoFeaturizerNotFitted(t *testing.T) {
	f := formulaFrame(t, []string{"Fe2O3"}, []float64{1})

	af := NewAutoFeaturizer()
	_, err := af.Transform(f, "y")
	require.Error(t, err)
	var nf *perrors.NotFittedError
	assert.ErrorAs(t, err, &nf)
}

func TestAutoFeaturizerMissingTarget(t *testing.T) {
	f := formulaFrame(t, []string{"Fe2O3"}, []float64{1})

	af := NewAutoFeaturizer()
	err := af.Fit(f, "bandgap")
	require.Error(t, err)
	var mc *perrors.MissingColumnError
	assert.ErrorAs(t, err, &mc)
}

func TestAutoFeaturizerNoObjectColumns(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddFloatColumn("x", []float64{1, 2}))
	require.NoError(t, f.AddFloatColumn("y", []float64{3, 4}))

	af := NewAutoFeaturizer()
	err := af.Fit(f, "y")
	require.Error(t, err)
	assert.ErrorIs(t, err, perrors.ErrNoFeaturizableColumns)
}

func TestAutoFeaturizerCustomColumn(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddStringColumn("chem", []string{"Fe2O3", "NiO"}))
	require.NoError(t, f.AddFloatColumn("y", []float64{1, 2}))

	af := NewAutoFeaturizer(WithCompositionColumn("chem"), WithWorkers(1))
	out, err := af.FitTransform(f, "y")
	require.NoError(t, err)
	assert.False(t, out.HasColumn("chem"))
	assert.True(t, out.HasColumn("TMetalFraction transition metal fraction"))
}
