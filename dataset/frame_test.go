package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikarimat/matpipe/composition"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame()
	require.NoError(t, f.AddFloatColumn("a", []float64{1, 2, 3}))
	require.NoError(t, f.AddFloatColumn("b", []float64{4, math.NaN(), 6}))
	require.NoError(t, f.AddStringColumn("label", []string{"x", "y", ""}))
	return f
}

func TestAddColumnValidation(t *testing.T) {
	f := sampleFrame(t)

	err := f.AddFloatColumn("a", []float64{7, 8, 9})
	assert.Error(t, err, "duplicate name")

	err = f.AddFloatColumn("c", []float64{1, 2})
	assert.Error(t, err, "length mismatch")

	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 3, f.NumCols())
	assert.Equal(t, []string{"a", "b", "label"}, f.Names())
}

func TestDropSelectCopy(t *testing.T) {
	f := sampleFrame(t)

	dropped := f.Drop("label", "nonexistent")
	assert.Equal(t, []string{"a", "b"}, dropped.Names())
	assert.Equal(t, 3, f.NumCols(), "original unchanged")

	sel, err := f.Select("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, sel.Names())

	_, err = f.Select("missing")
	assert.Error(t, err)

	cp := f.Copy()
	col, _ := cp.Column("a")
	col.Floats[0] = 99
	orig, _ := f.Column("a")
	assert.Equal(t, 1.0, orig.Floats[0], "copy is deep")
}

func TestFilterAndSplit(t *testing.T) {
	f := sampleFrame(t)

	sub, err := f.Filter([]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.NumRows())
	a, _ := sub.Column("a")
	assert.Equal(t, []float64{1, 3}, a.Floats)

	_, err = f.Filter([]bool{true})
	assert.Error(t, err)

	test, train, err := f.Split([]bool{true, false, false})
	require.NoError(t, err)
	assert.Equal(t, 1, test.NumRows())
	assert.Equal(t, 2, train.NumRows())
}

func TestMatrixExport(t *testing.T) {
	f := sampleFrame(t)

	m, err := f.Matrix([]string{"a", "b"})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.True(t, math.IsNaN(m.At(1, 1)))

	_, err = f.Matrix([]string{"label"})
	assert.Error(t, err, "string column refuses export")

	_, err = f.Matrix(nil)
	assert.Error(t, err)
}

func TestMissingStats(t *testing.T) {
	f := sampleFrame(t)
	stats := f.Missing()

	assert.Equal(t, 9, stats.Cells)
	assert.Equal(t, 2, stats.MissingCells) // NaN in b, "" in label
	assert.Equal(t, 2, stats.RowsMissing)
	assert.InDelta(t, 2.0/9.0, stats.MissingCellFrac(), 1e-12)
	assert.InDelta(t, 2.0/3.0, stats.MissingRowFrac(), 1e-12)
}

func TestReadCSV(t *testing.T) {
	data := `composition,bandgap,note
Fe2O3,2.2,stable
NaCl,5.0,
bogus!!,1.0,meta
SiO2,,quartz
`
	f, err := ReadCSV(strings.NewReader(data), "composition")
	require.NoError(t, err)

	assert.Equal(t, 4, f.NumRows())

	comp, ok := f.Column("composition")
	require.True(t, ok)
	assert.Equal(t, CompositionKind, comp.Kind)
	assert.NotNil(t, comp.Compositions[0])
	assert.Nil(t, comp.Compositions[2], "unparseable formula left missing")

	gap, ok := f.Column("bandgap")
	require.True(t, ok)
	assert.Equal(t, FloatKind, gap.Kind)
	assert.True(t, math.IsNaN(gap.Floats[3]))

	note, ok := f.Column("note")
	require.True(t, ok)
	assert.Equal(t, StringKind, note.Kind)
	assert.True(t, note.IsMissing(1))
}

func TestParseStructureColumn(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddStringColumn("structure", []string{
		`{"lattice": {"matrix": [[4,0,0],[0,4,0],[0,0,4]]},
		  "sites": [{"species": [{"element": "Fe", "occu": 1.0}], "abc": [0,0,0]}]}`,
		"not json",
		"",
	}))
	require.NoError(t, f.AddFloatColumn("y", []float64{1, 2, 3}))

	parsed, err := ParseStructureColumn(f, "structure")
	require.NoError(t, err)

	col, ok := parsed.Column("structure")
	require.True(t, ok)
	assert.Equal(t, StructureKind, col.Kind)
	assert.NotNil(t, col.Structures[0])
	assert.Nil(t, col.Structures[1])
	assert.Nil(t, col.Structures[2])
	assert.Equal(t, []string{"structure", "y"}, parsed.Names(), "order preserved")

	_, err = ParseStructureColumn(f, "y")
	assert.Error(t, err)
	_, err = ParseStructureColumn(f, "nope")
	assert.Error(t, err)
}

func TestCompositionColumnRoundTrip(t *testing.T) {
	c := composition.MustParse("Fe2O3")
	f := NewFrame()
	require.NoError(t, f.AddCompositionColumn("composition", []*composition.Composition{&c, nil}))

	col, _ := f.Column("composition")
	assert.False(t, col.IsMissing(0))
	assert.True(t, col.IsMissing(1))
}
