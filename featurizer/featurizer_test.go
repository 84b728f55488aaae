package featurizer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/dataset"
	perrors "github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/structure"
)

func mustComp(t *testing.T, formula string) *composition.Composition {
	t.Helper()
	c := composition.MustParse(formula)
	return &c
}

func TestElementPropertyLabels(t *testing.T) {
	ep := NewElementProperty()
	labels := ep.Labels()
	assert.Len(t, labels, 25)
	assert.Equal(t, "minimum atomic_number", labels[0])
	assert.Equal(t, "avg_dev group", labels[len(labels)-1])
}

func TestElementPropertyFeaturize(t *testing.T) {
	ep := NewElementProperty()
	values, err := ep.Featurize(mustComp(t, "NaCl"))
	require.NoError(t, err)
	require.Len(t, values, len(ep.Labels()))

	// atomic_number block: Na=11, Cl=17, equal fractions.
	assert.InDelta(t, 11, values[0], 1e-12)  // minimum
	assert.InDelta(t, 17, values[1], 1e-12)  // maximum
	assert.InDelta(t, 6, values[2], 1e-12)   // range
	assert.InDelta(t, 14, values[3], 1e-12)  // mean
	assert.InDelta(t, 3, values[4], 1e-12)   // avg_dev
}

func TestElementPropertyWeightedMean(t *testing.T) {
	ep := NewElementProperty()
	values, err := ep.Featurize(mustComp(t, "Fe2O3"))
	require.NoError(t, err)

	// mean atomic_number = 0.4*26 + 0.6*8 = 15.2
	assert.InDelta(t, 15.2, values[3], 1e-9)
}

func TestStoichiometry(t *testing.T) {
	st := NewStoichiometry()
	values, err := st.Featurize(mustComp(t, "NaCl"))
	require.NoError(t, err)
	require.Len(t, values, 6)

	assert.InDelta(t, 2, values[0], 1e-12) // 0-norm
	// p-norm of (0.5, 0.5) = (2 * 0.5^p)^(1/p)
	assert.InDelta(t, math.Pow(0.5, 0.5), values[1], 1e-12)
	assert.InDelta(t, math.Pow(2*math.Pow(0.5, 10), 0.1), values[5], 1e-12)
}

func TestTMetalFraction(t *testing.T) {
	tf := NewTMetalFraction()

	values, err := tf.Featurize(mustComp(t, "Fe2O3"))
	require.NoError(t, err)
	assert.InDelta(t, 0.4, values[0], 1e-12)

	values, err = tf.Featurize(mustComp(t, "SiO2"))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, values[0], 1e-12)
}

func TestElectronegativityDiff(t *testing.T) {
	ed := NewElectronegativityDiff()

	// NaCl: Cl (3.16) is the anion, Na (0.93) the only other element.
	values, err := ed.Featurize(mustComp(t, "NaCl"))
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.InDelta(t, 2.23, values[0], 1e-9)
	assert.InDelta(t, 2.23, values[1], 1e-9)
	assert.InDelta(t, 0.0, values[2], 1e-9)
	assert.InDelta(t, 2.23, values[3], 1e-9)
	assert.InDelta(t, 0.0, values[4], 1e-9)

	_, err = ed.Featurize(mustComp(t, "Fe"))
	assert.Error(t, err)
}

func TestDensityFeatures(t *testing.T) {
	lattice := structure.Lattice{Matrix: [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}}
	s, err := structure.New(lattice, []structure.Site{
		{Species: []structure.SiteSpecies{{Element: "Fe", Occu: 1}}},
		{Species: []structure.SiteSpecies{{Element: "Fe", Occu: 1}}},
	})
	require.NoError(t, err)

	df := NewDensityFeatures()
	values, err := df.Featurize(&s)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Greater(t, values[0], 0.0)
	assert.InDelta(t, 32.0, values[1], 1e-9) // 64 Å³ over 2 atoms
}

func TestGlobalSymmetryFeatures(t *testing.T) {
	lattice := structure.Lattice{Matrix: [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}}
	ordered, err := structure.New(lattice, []structure.Site{
		{Species: []structure.SiteSpecies{{Element: "Po", Occu: 1}}},
	})
	require.NoError(t, err)

	gs := NewGlobalSymmetryFeatures()
	values, err := gs.Featurize(&ordered)
	require.NoError(t, err)
	assert.InDelta(t, float64(structure.Cubic), values[0], 1e-12)

	disordered, err := structure.New(lattice, []structure.Site{
		{Species: []structure.SiteSpecies{
			{Element: "Cu", Occu: 0.5},
			{Element: "Zn", Occu: 0.5},
		}},
	})
	require.NoError(t, err)
	_, err = gs.Featurize(&disordered)
	assert.Error(t, err)
}

func TestCompositionSetExcludes(t *testing.T) {
	all := CompositionSet(nil)
	assert.Len(t, all, 4)

	kept := CompositionSet([]string{"TMetalFraction", "ElectronegativityDiff"})
	names := make([]string, 0, len(kept))
	for _, ft := range kept {
		names = append(names, ft.Name())
	}
	assert.ElementsMatch(t, []string{"ElementProperty", "Stoichiometry"}, names)
}

func TestApplyComposition(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddCompositionColumn("composition", []*composition.Composition{
		mustComp(t, "NaCl"),
		nil, // missing row stays NaN without a warning
		mustComp(t, "Fe2O3"),
	}))

	err := ApplyComposition(context.Background(), f, "composition",
		[]CompositionFeaturizer{NewTMetalFraction()}, ApplyOptions{Workers: 2})
	require.NoError(t, err)

	col, ok := f.Column("TMetalFraction transition metal fraction")
	require.True(t, ok)
	assert.InDelta(t, 0.0, col.Floats[0], 1e-12)
	assert.True(t, math.IsNaN(col.Floats[1]))
	assert.InDelta(t, 0.4, col.Floats[2], 1e-12)
}

func TestApplyCompositionIgnoreErrors(t *testing.T) {
	var warnings []error
	perrors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer perrors.SetWarningHandler(nil)

	f := dataset.NewFrame()
	require.NoError(t, f.AddCompositionColumn("composition", []*composition.Composition{
		mustComp(t, "NaCl"),
		mustComp(t, "Fe"), // single element fails ElectronegativityDiff
	}))

	err := ApplyComposition(context.Background(), f, "composition",
		[]CompositionFeaturizer{NewElectronegativityDiff()}, ApplyOptions{IgnoreErrors: true})
	require.NoError(t, err)

	col, ok := f.Column("ElectronegativityDiff mean EN difference")
	require.True(t, ok)
	assert.False(t, math.IsNaN(col.Floats[0]))
	assert.True(t, math.IsNaN(col.Floats[1]))

	require.Len(t, warnings, 1)
	var fw *perrors.FeaturizationWarning
	require.ErrorAs(t, warnings[0], &fw)
	assert.Equal(t, "ElectronegativityDiff", fw.Featurizer)
	assert.Equal(t, 1, fw.FailedRows)
	assert.Equal(t, 2, fw.TotalRows)
}

func TestApplyCompositionAbortsOnError(t *testing.T) {
	f := dataset.NewFrame()
	require.NoError(t, f.AddCompositionColumn("composition", []*composition.Composition{
		mustComp(t, "Fe"),
	}))

	err := ApplyComposition(context.Background(), f, "composition",
		[]CompositionFeaturizer{NewElectronegativityDiff()}, ApplyOptions{})
	assert.Error(t, err)
}

func TestApplyStructure(t *testing.T) {
	lattice := structure.Lattice{Matrix: [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}}
	s, err := structure.New(lattice, []structure.Site{
		{Species: []structure.SiteSpecies{{Element: "Fe", Occu: 1}}},
	})
	require.NoError(t, err)

	f := dataset.NewFrame()
	require.NoError(t, f.AddStructureColumn("structure", []*structure.Structure{&s}))

	err = ApplyStructure(context.Background(), f, "structure",
		StructureSet(nil), ApplyOptions{})
	require.NoError(t, err)

	assert.True(t, f.HasColumn("DensityFeatures density"))
	assert.True(t, f.HasColumn("DensityFeatures vpa"))
	assert.True(t, f.HasColumn("GlobalSymmetryFeatures crystal system"))
}

func TestApplyMissingColumn(t *testing.T) {
	f := dataset.NewFrame()
	err := ApplyComposition(context.Background(), f, "composition", CompositionSet(nil), ApplyOptions{})
	assert.Error(t, err)
	var mce *perrors.MissingColumnError
	assert.ErrorAs(t, err, &mce)
}
