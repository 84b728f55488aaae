// Package metafeature computes dataset meta-features and drives featurizer
// auto-exclusion. Meta-features are summary statistics of a dataset (fraction
// of metallic formulas, average structure size, ...) computed from per-row
// statistics that are gathered in a single pass and cached, so that the rule
// engine and any number of meta-feature reads share the same pass.
package metafeature

import (
	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// FormulaStats holds the cached per-row statistics of one composition.
type FormulaStats struct {
	Category                composition.Category
	Symbols                 []string
	NElements               int
	ContainsTransitionMetal bool
}

// CompositionStatistics is the cached per-row statistics of a composition
// column. Missing rows are skipped; Stats holds one entry per parsed row.
type CompositionStatistics struct {
	Stats     []FormulaStats
	TotalRows int
}

// ComputeCompositionStatistics gathers per-row formula statistics from the
// named composition column.
func ComputeCompositionStatistics(f *dataset.Frame, column string) (*CompositionStatistics, error) {
	col, ok := f.Column(column)
	if !ok {
		return nil, errors.NewMissingColumnError("metafeature.ComputeCompositionStatistics", column)
	}
	if col.Kind != dataset.CompositionKind {
		return nil, errors.NewValidationError("column", "not a composition column", column)
	}

	cs := &CompositionStatistics{TotalRows: col.Len()}
	for _, c := range col.Compositions {
		if c == nil {
			continue
		}
		cs.Stats = append(cs.Stats, FormulaStats{
			Category:                c.Category(),
			Symbols:                 c.Symbols(),
			NElements:               c.NumElements(),
			ContainsTransitionMetal: c.ContainsTransitionMetal(),
		})
	}
	if len(cs.Stats) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "metafeature.ComputeCompositionStatistics")
	}
	return cs, nil
}

// SiteStats holds the cached per-row statistics of one structure.
type SiteStats struct {
	NSites    int
	IsOrdered bool
	Symbols   []string
}

// StructureStatistics is the cached per-row statistics of a structure column.
type StructureStatistics struct {
	Stats     []SiteStats
	TotalRows int
}

// ComputeStructureStatistics gathers per-row structure statistics from the
// named structure column.
func ComputeStructureStatistics(f *dataset.Frame, column string) (*StructureStatistics, error) {
	col, ok := f.Column(column)
	if !ok {
		return nil, errors.NewMissingColumnError("metafeature.ComputeStructureStatistics", column)
	}
	if col.Kind != dataset.StructureKind {
		return nil, errors.NewValidationError("column", "not a structure column", column)
	}

	ss := &StructureStatistics{TotalRows: col.Len()}
	for _, s := range col.Structures {
		if s == nil {
			continue
		}
		stats := SiteStats{
			NSites:    s.NumSites(),
			IsOrdered: s.IsOrdered(),
		}
		if c, err := s.Composition(); err == nil {
			stats.Symbols = c.Symbols()
		}
		ss.Stats = append(ss.Stats, stats)
	}
	if len(ss.Stats) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "metafeature.ComputeStructureStatistics")
	}
	return ss, nil
}
