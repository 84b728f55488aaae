// Package dataset provides the column-oriented frame passed between pipeline
// stages. A frame holds named columns of floats, strings, compositions or
// structures; missing values are NaN (floats), "" (strings) or nil
// (compositions and structures).
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/structure"
)

// ColumnKind identifies the cell type of a column.
type ColumnKind int

const (
	// FloatKind holds float64 cells, NaN meaning missing.
	FloatKind ColumnKind = iota
	// StringKind holds string cells, "" meaning missing.
	StringKind
	// CompositionKind holds parsed compositions, nil meaning missing.
	CompositionKind
	// StructureKind holds crystal structures, nil meaning missing.
	StructureKind
)

func (k ColumnKind) String() string {
	switch k {
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case CompositionKind:
		return "composition"
	case StructureKind:
		return "structure"
	default:
		return "unknown"
	}
}

// Column is one named, typed column of a frame. Exactly one of the value
// slices is populated, selected by Kind.
type Column struct {
	Name string
	Kind ColumnKind

	Floats       []float64
	Strings      []string
	Compositions []*composition.Composition
	Structures   []*structure.Structure
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case FloatKind:
		return len(c.Floats)
	case StringKind:
		return len(c.Strings)
	case CompositionKind:
		return len(c.Compositions)
	case StructureKind:
		return len(c.Structures)
	}
	return 0
}

// IsMissing reports whether the cell at row i is missing.
func (c *Column) IsMissing(i int) bool {
	switch c.Kind {
	case FloatKind:
		return math.IsNaN(c.Floats[i])
	case StringKind:
		return c.Strings[i] == ""
	case CompositionKind:
		return c.Compositions[i] == nil
	case StructureKind:
		return c.Structures[i] == nil
	}
	return true
}

func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case FloatKind:
		cp.Floats = append([]float64(nil), c.Floats...)
	case StringKind:
		cp.Strings = append([]string(nil), c.Strings...)
	case CompositionKind:
		cp.Compositions = append([]*composition.Composition(nil), c.Compositions...)
	case StructureKind:
		cp.Structures = append([]*structure.Structure(nil), c.Structures...)
	}
	return cp
}

func (c *Column) filter(mask []bool) *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind}
	for i := 0; i < c.Len(); i++ {
		if !mask[i] {
			continue
		}
		switch c.Kind {
		case FloatKind:
			cp.Floats = append(cp.Floats, c.Floats[i])
		case StringKind:
			cp.Strings = append(cp.Strings, c.Strings[i])
		case CompositionKind:
			cp.Compositions = append(cp.Compositions, c.Compositions[i])
		case StructureKind:
			cp.Structures = append(cp.Structures, c.Structures[i])
		}
	}
	return cp
}

// Frame is an ordered collection of equally sized columns.
type Frame struct {
	columns []*Column
	index   map[string]int
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{index: map[string]int{}}
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return f.columns[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int {
	return len(f.columns)
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the frame contains a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

func (f *Frame) addColumn(c *Column) error {
	if _, exists := f.index[c.Name]; exists {
		return errors.NewValidationError("column", "duplicate column name", c.Name)
	}
	if len(f.columns) > 0 && c.Len() != f.NumRows() {
		return errors.NewDimensionError("Frame.AddColumn", f.NumRows(), c.Len(), 0)
	}
	f.index[c.Name] = len(f.columns)
	f.columns = append(f.columns, c)
	return nil
}

// AddFloatColumn appends a float column.
func (f *Frame) AddFloatColumn(name string, values []float64) error {
	return f.addColumn(&Column{Name: name, Kind: FloatKind, Floats: values})
}

// AddStringColumn appends a string column.
func (f *Frame) AddStringColumn(name string, values []string) error {
	return f.addColumn(&Column{Name: name, Kind: StringKind, Strings: values})
}

// AddCompositionColumn appends a composition column.
func (f *Frame) AddCompositionColumn(name string, values []*composition.Composition) error {
	return f.addColumn(&Column{Name: name, Kind: CompositionKind, Compositions: values})
}

// AddStructureColumn appends a structure column.
func (f *Frame) AddStructureColumn(name string, values []*structure.Structure) error {
	return f.addColumn(&Column{Name: name, Kind: StructureKind, Structures: values})
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	cp := NewFrame()
	for _, c := range f.columns {
		// addColumn cannot fail here: names are unique and lengths equal.
		_ = cp.addColumn(c.clone())
	}
	return cp
}

// Drop returns a copy of the frame without the named columns. Unknown names
// are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	dropped := make(map[string]bool, len(names))
	for _, n := range names {
		dropped[n] = true
	}
	cp := NewFrame()
	for _, c := range f.columns {
		if dropped[c.Name] {
			continue
		}
		_ = cp.addColumn(c.clone())
	}
	return cp
}

// Select returns a copy of the frame with only the named columns, in the
// given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cp := NewFrame()
	for _, n := range names {
		c, ok := f.Column(n)
		if !ok {
			return nil, errors.NewMissingColumnError("Frame.Select", n)
		}
		if err := cp.addColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

// Filter returns the rows for which mask is true.
func (f *Frame) Filter(mask []bool) (*Frame, error) {
	if len(mask) != f.NumRows() {
		return nil, errors.NewDimensionError("Frame.Filter", f.NumRows(), len(mask), 0)
	}
	cp := NewFrame()
	for _, c := range f.columns {
		_ = cp.addColumn(c.filter(mask))
	}
	return cp, nil
}

// Split partitions rows into (selected, rest) by mask. Used by benchmarking
// to carve out a test set.
func (f *Frame) Split(mask []bool) (selected, rest *Frame, err error) {
	selected, err = f.Filter(mask)
	if err != nil {
		return nil, nil, err
	}
	inverse := make([]bool, len(mask))
	for i, m := range mask {
		inverse[i] = !m
	}
	rest, err = f.Filter(inverse)
	if err != nil {
		return nil, nil, err
	}
	return selected, rest, nil
}

// FloatColumnNames returns the names of all float columns in order.
func (f *Frame) FloatColumnNames() []string {
	var names []string
	for _, c := range f.columns {
		if c.Kind == FloatKind {
			names = append(names, c.Name)
		}
	}
	return names
}

// Matrix exports the named float columns as a dense matrix, one frame row
// per matrix row.
func (f *Frame) Matrix(names []string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Frame.Matrix")
	}
	rows := f.NumRows()
	m := mat.NewDense(rows, len(names), nil)
	for j, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, errors.NewMissingColumnError("Frame.Matrix", name)
		}
		if c.Kind != FloatKind {
			return nil, errors.NewValidationError("column", "not a float column", name)
		}
		for i := 0; i < rows; i++ {
			m.Set(i, j, c.Floats[i])
		}
	}
	return m, nil
}

// MissingStats summarizes missing values in the frame.
type MissingStats struct {
	Cells        int
	MissingCells int
	RowsTotal    int
	RowsMissing  int
}

// MissingCellFrac returns the fraction of cells that are missing.
func (s MissingStats) MissingCellFrac() float64 {
	if s.Cells == 0 {
		return 0
	}
	return float64(s.MissingCells) / float64(s.Cells)
}

// MissingRowFrac returns the fraction of rows containing a missing cell.
func (s MissingStats) MissingRowFrac() float64 {
	if s.RowsTotal == 0 {
		return 0
	}
	return float64(s.RowsMissing) / float64(s.RowsTotal)
}

// Missing computes missing-value statistics over all columns.
func (f *Frame) Missing() MissingStats {
	stats := MissingStats{RowsTotal: f.NumRows()}
	for i := 0; i < f.NumRows(); i++ {
		rowMissing := false
		for _, c := range f.columns {
			stats.Cells++
			if c.IsMissing(i) {
				stats.MissingCells++
				rowMissing = true
			}
		}
		if rowMissing {
			stats.RowsMissing++
		}
	}
	return stats
}
