// Package featurizer turns compositions and structures into numeric
// feature vectors. Each featurizer is stateless: it maps one object to a
// fixed set of labelled values, and the frame-level application layer
// handles parallelism and failure tolerance.
package featurizer

import (
	"sort"

	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/structure"
)

// CompositionFeaturizer derives features from a single composition.
type CompositionFeaturizer interface {
	// Name identifies the featurizer for exclusion matching and logging.
	Name() string
	// Labels returns the feature column names, in Featurize output order.
	Labels() []string
	// Featurize computes one value per label.
	Featurize(c *composition.Composition) ([]float64, error)
}

// StructureFeaturizer derives features from a single crystal structure.
type StructureFeaturizer interface {
	Name() string
	Labels() []string
	Featurize(s *structure.Structure) ([]float64, error)
}

// CompositionSet returns the built-in composition featurizers, minus any
// whose name appears in excludes.
func CompositionSet(excludes []string) []CompositionFeaturizer {
	all := []CompositionFeaturizer{
		NewElementProperty(),
		NewStoichiometry(),
		NewTMetalFraction(),
		NewElectronegativityDiff(),
	}
	return filterComposition(all, excludes)
}

// StructureSet returns the built-in structure featurizers, minus any
// whose name appears in excludes.
func StructureSet(excludes []string) []StructureFeaturizer {
	all := []StructureFeaturizer{
		NewDensityFeatures(),
		NewGlobalSymmetryFeatures(),
	}
	excluded := toSet(excludes)
	kept := all[:0]
	for _, ft := range all {
		if !excluded[ft.Name()] {
			kept = append(kept, ft)
		}
	}
	return kept
}

func filterComposition(all []CompositionFeaturizer, excludes []string) []CompositionFeaturizer {
	excluded := toSet(excludes)
	kept := all[:0]
	for _, ft := range all {
		if !excluded[ft.Name()] {
			kept = append(kept, ft)
		}
	}
	return kept
}

func toSet(names []string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// CompositionNames lists the built-in composition featurizer names, sorted.
func CompositionNames() []string {
	names := make([]string, 0, 4)
	for _, ft := range CompositionSet(nil) {
		names = append(names, ft.Name())
	}
	sort.Strings(names)
	return names
}

func validateComposition(op string, c *composition.Composition) error {
	if c == nil {
		return errors.NewValueError(op, "nil composition")
	}
	if c.NumElements() == 0 {
		return errors.NewValueError(op, "empty composition")
	}
	return nil
}

func validateStructure(op string, s *structure.Structure) error {
	if s == nil {
		return errors.NewValueError(op, "nil structure")
	}
	if s.NumSites() == 0 {
		return errors.NewValueError(op, "structure has no sites")
	}
	return nil
}
