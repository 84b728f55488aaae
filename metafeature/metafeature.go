package metafeature

import (
	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/dataset"
)

// Default column names scanned by Compute when none are given explicitly.
const (
	DefaultCompositionColumn = "composition"
	DefaultStructureColumn   = "structure"
)

// CompositionMetafeatures summarizes the compositions of a dataset.
type CompositionMetafeatures struct {
	NumberOfCompositions       int     `json:"number_of_compositions"`
	PercentOfAllMetal          float64 `json:"percent_of_all_metal"`
	PercentOfMetalNonmetal     float64 `json:"percent_of_metal_nonmetal"`
	PercentOfAllNonmetal       float64 `json:"percent_of_all_nonmetal"`
	PercentOfContainTransMetal float64 `json:"percent_of_contain_trans_metal"`
	NumberOfDifferentElements  int     `json:"number_of_different_elements"`
	AvgNumberOfElements        float64 `json:"avg_number_of_elements"`
	MaxNumberOfElements        int     `json:"max_number_of_elements"`
	MinNumberOfElements        int     `json:"min_number_of_elements"`
}

// StructureMetafeatures summarizes the structures of a dataset.
type StructureMetafeatures struct {
	NumberOfStructures                    int     `json:"number_of_structures"`
	PercentOfOrderedStructures            float64 `json:"percent_of_ordered_structures"`
	AvgNumberOfSites                      float64 `json:"avg_number_of_sites"`
	MaxNumberOfSites                      int     `json:"max_number_of_sites"`
	NumberOfDifferentElementsInStructures int     `json:"number_of_different_elements_in_structures"`
}

// MissingMetafeatures summarizes missing values across the whole frame.
type MissingMetafeatures struct {
	NumberOfMissingValues    int     `json:"number_of_missing_values"`
	PercentOfMissingValues   float64 `json:"percent_of_missing_values"`
	NumberOfRowsWithMissing  int     `json:"number_of_rows_with_missing"`
	PercentOfRowsWithMissing float64 `json:"percent_of_rows_with_missing"`
}

// DatasetMetafeatures holds every meta-feature section computed for a frame.
// Composition and Structure are nil when the frame has no column of that
// kind.
type DatasetMetafeatures struct {
	Composition *CompositionMetafeatures `json:"composition_metafeatures,omitempty"`
	Structure   *StructureMetafeatures   `json:"structure_metafeatures,omitempty"`
	Missing     MissingMetafeatures      `json:"missing_value_metafeatures"`
}

// CompositionMetafeaturesFromStats derives the composition meta-features
// from cached per-row statistics.
func CompositionMetafeaturesFromStats(cs *CompositionStatistics) *CompositionMetafeatures {
	n := len(cs.Stats)
	mf := &CompositionMetafeatures{
		NumberOfCompositions: n,
		MinNumberOfElements:  cs.Stats[0].NElements,
	}

	elements := map[string]bool{}
	var allMetal, metalNonmetal, allNonmetal, transMetal, nElementsSum int
	for _, stat := range cs.Stats {
		switch stat.Category {
		case composition.AllMetal:
			allMetal++
		case composition.MetalNonmetal:
			metalNonmetal++
		case composition.AllNonmetal:
			allNonmetal++
		}
		if stat.ContainsTransitionMetal {
			transMetal++
		}
		for _, sym := range stat.Symbols {
			elements[sym] = true
		}
		nElementsSum += stat.NElements
		if stat.NElements > mf.MaxNumberOfElements {
			mf.MaxNumberOfElements = stat.NElements
		}
		if stat.NElements < mf.MinNumberOfElements {
			mf.MinNumberOfElements = stat.NElements
		}
	}

	mf.PercentOfAllMetal = float64(allMetal) / float64(n)
	mf.PercentOfMetalNonmetal = float64(metalNonmetal) / float64(n)
	mf.PercentOfAllNonmetal = float64(allNonmetal) / float64(n)
	mf.PercentOfContainTransMetal = float64(transMetal) / float64(n)
	mf.NumberOfDifferentElements = len(elements)
	mf.AvgNumberOfElements = float64(nElementsSum) / float64(n)
	return mf
}

// StructureMetafeaturesFromStats derives the structure meta-features from
// cached per-row statistics.
func StructureMetafeaturesFromStats(ss *StructureStatistics) *StructureMetafeatures {
	n := len(ss.Stats)
	mf := &StructureMetafeatures{NumberOfStructures: n}

	elements := map[string]bool{}
	var ordered, sitesSum int
	for _, stat := range ss.Stats {
		if stat.IsOrdered {
			ordered++
		}
		sitesSum += stat.NSites
		if stat.NSites > mf.MaxNumberOfSites {
			mf.MaxNumberOfSites = stat.NSites
		}
		for _, sym := range stat.Symbols {
			elements[sym] = true
		}
	}

	mf.PercentOfOrderedStructures = float64(ordered) / float64(n)
	mf.AvgNumberOfSites = float64(sitesSum) / float64(n)
	mf.NumberOfDifferentElementsInStructures = len(elements)
	return mf
}

// Compute calculates all meta-features for a frame. The first composition
// column and the first structure column are used; a frame with neither still
// yields missing-value meta-features.
func Compute(f *dataset.Frame) (*DatasetMetafeatures, error) {
	mfs := &DatasetMetafeatures{}

	if col := firstColumnOfKind(f, dataset.CompositionKind); col != "" {
		cs, err := ComputeCompositionStatistics(f, col)
		if err != nil {
			return nil, err
		}
		mfs.Composition = CompositionMetafeaturesFromStats(cs)
	}

	if col := firstColumnOfKind(f, dataset.StructureKind); col != "" {
		ss, err := ComputeStructureStatistics(f, col)
		if err != nil {
			return nil, err
		}
		mfs.Structure = StructureMetafeaturesFromStats(ss)
	}

	missing := f.Missing()
	mfs.Missing = MissingMetafeatures{
		NumberOfMissingValues:    missing.MissingCells,
		PercentOfMissingValues:   missing.MissingCellFrac(),
		NumberOfRowsWithMissing:  missing.RowsMissing,
		PercentOfRowsWithMissing: missing.MissingRowFrac(),
	}
	return mfs, nil
}

func firstColumnOfKind(f *dataset.Frame, kind dataset.ColumnKind) string {
	for _, name := range f.Names() {
		if col, ok := f.Column(name); ok && col.Kind == kind {
			return name
		}
	}
	return ""
}

// Item is one named meta-feature value, used for tabular rendering.
type Item struct {
	Section string
	Name    string
	Value   float64
}

// Items flattens the meta-features into a stable list for display.
func (m *DatasetMetafeatures) Items() []Item {
	var items []Item
	if c := m.Composition; c != nil {
		items = append(items,
			Item{"composition", "number_of_compositions", float64(c.NumberOfCompositions)},
			Item{"composition", "percent_of_all_metal", c.PercentOfAllMetal},
			Item{"composition", "percent_of_metal_nonmetal", c.PercentOfMetalNonmetal},
			Item{"composition", "percent_of_all_nonmetal", c.PercentOfAllNonmetal},
			Item{"composition", "percent_of_contain_trans_metal", c.PercentOfContainTransMetal},
			Item{"composition", "number_of_different_elements", float64(c.NumberOfDifferentElements)},
			Item{"composition", "avg_number_of_elements", c.AvgNumberOfElements},
			Item{"composition", "max_number_of_elements", float64(c.MaxNumberOfElements)},
			Item{"composition", "min_number_of_elements", float64(c.MinNumberOfElements)},
		)
	}
	if s := m.Structure; s != nil {
		items = append(items,
			Item{"structure", "number_of_structures", float64(s.NumberOfStructures)},
			Item{"structure", "percent_of_ordered_structures", s.PercentOfOrderedStructures},
			Item{"structure", "avg_number_of_sites", s.AvgNumberOfSites},
			Item{"structure", "max_number_of_sites", float64(s.MaxNumberOfSites)},
			Item{"structure", "number_of_different_elements_in_structures", float64(s.NumberOfDifferentElementsInStructures)},
		)
	}
	items = append(items,
		Item{"missing", "number_of_missing_values", float64(m.Missing.NumberOfMissingValues)},
		Item{"missing", "percent_of_missing_values", m.Missing.PercentOfMissingValues},
		Item{"missing", "number_of_rows_with_missing", float64(m.Missing.NumberOfRowsWithMissing)},
		Item{"missing", "percent_of_rows_with_missing", m.Missing.PercentOfRowsWithMissing},
	)
	return items
}
