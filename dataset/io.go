package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/structure"
)

// ReadCSV reads a headered CSV into a frame. Columns whose cells all parse
// as numbers (empty cells allowed) become float columns; everything else
// becomes a string column. Column names listed in compositionCols are parsed
// as chemical formulas, with unparseable cells left missing.
func ReadCSV(r io.Reader, compositionCols ...string) (*Frame, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset.ReadCSV")
	}
	if len(records) < 1 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset.ReadCSV")
	}

	header := records[0]
	rows := records[1:]
	compSet := make(map[string]bool, len(compositionCols))
	for _, n := range compositionCols {
		compSet[n] = true
	}

	f := NewFrame()
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}

		switch {
		case compSet[name]:
			if err := f.AddCompositionColumn(name, parseCompositions(raw)); err != nil {
				return nil, err
			}
		case isNumeric(raw):
			if err := f.AddFloatColumn(name, parseFloats(raw)); err != nil {
				return nil, err
			}
		default:
			if err := f.AddStringColumn(name, raw); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func isNumeric(raw []string) bool {
	seen := false
	for _, s := range raw {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func parseFloats(raw []string) []float64 {
	out := make([]float64, len(raw))
	for i, s := range raw {
		if s == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

func parseCompositions(raw []string) []*composition.Composition {
	out := make([]*composition.Composition, len(raw))
	for i, s := range raw {
		if s == "" {
			continue
		}
		c, err := composition.Parse(s)
		if err != nil {
			continue // left missing; featurization counts and warns
		}
		out[i] = &c
	}
	return out
}

// WriteCSV writes the frame as headered CSV. Composition and structure
// columns are rendered through their string forms; missing cells are empty.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	names := f.Names()
	if err := cw.Write(names); err != nil {
		return errors.Wrap(err, "dataset.WriteCSV")
	}

	n := f.NumRows()
	record := make([]string, len(names))
	for i := 0; i < n; i++ {
		for j, name := range names {
			col, _ := f.Column(name)
			record[j] = cellString(col, i)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "dataset.WriteCSV")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "dataset.WriteCSV")
}

func cellString(col *Column, i int) string {
	if col.IsMissing(i) {
		return ""
	}
	switch col.Kind {
	case FloatKind:
		return strconv.FormatFloat(col.Floats[i], 'g', -1, 64)
	case StringKind:
		return col.Strings[i]
	case CompositionKind:
		return col.Compositions[i].String()
	default:
		data, err := json.Marshal(col.Structures[i])
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// ParseCompositionColumn converts a string column holding chemical formulas
// into a composition column of the same name, replacing it in a copy of the
// frame. Unparseable cells are left missing.
func ParseCompositionColumn(f *Frame, name string) (*Frame, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, errors.NewMissingColumnError("dataset.ParseCompositionColumn", name)
	}
	if col.Kind != StringKind {
		return nil, errors.NewValidationError("column", "not a string column", name)
	}

	cp := NewFrame()
	for _, c := range f.columns {
		if c.Name == name {
			if err := cp.AddCompositionColumn(name, parseCompositions(col.Strings)); err != nil {
				return nil, err
			}
			continue
		}
		if err := cp.addColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

// ParseStructureColumn converts a string column holding JSON-encoded
// structures into a structure column of the same name, replacing it in a
// copy of the frame. Unparseable cells are left missing.
func ParseStructureColumn(f *Frame, name string) (*Frame, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, errors.NewMissingColumnError("dataset.ParseStructureColumn", name)
	}
	if col.Kind != StringKind {
		return nil, errors.NewValidationError("column", "not a string column", name)
	}

	structures := make([]*structure.Structure, col.Len())
	for i, s := range col.Strings {
		if s == "" {
			continue
		}
		st, err := structure.ParseJSON([]byte(s))
		if err != nil {
			continue
		}
		structures[i] = &st
	}

	// Preserve column order: rebuild with the structure column in place.
	cp := NewFrame()
	for _, c := range f.columns {
		if c.Name == name {
			if err := cp.AddStructureColumn(name, structures); err != nil {
				return nil, err
			}
			continue
		}
		if err := cp.addColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	return cp, nil
}
