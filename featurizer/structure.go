package featurizer

import (
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/structure"
)

// DensityFeatures computes bulk density and volume per atom from the
// lattice and site occupancies.
type DensityFeatures struct{}

func NewDensityFeatures() *DensityFeatures { return &DensityFeatures{} }

func (df *DensityFeatures) Name() string { return "DensityFeatures" }

func (df *DensityFeatures) Labels() []string {
	return []string{"density", "vpa"}
}

func (df *DensityFeatures) Featurize(s *structure.Structure) ([]float64, error) {
	if err := validateStructure("DensityFeatures.Featurize", s); err != nil {
		return nil, err
	}
	density, err := s.Density()
	if err != nil {
		return nil, err
	}
	vpa, err := s.VolumePerAtom()
	if err != nil {
		return nil, err
	}
	return []float64{density, vpa}, nil
}

// GlobalSymmetryFeatures reports the crystal system inferred from the
// lattice geometry, encoded as an integer from 0 (triclinic) to 6
// (cubic). Disordered structures are rejected.
type GlobalSymmetryFeatures struct{}

func NewGlobalSymmetryFeatures() *GlobalSymmetryFeatures { return &GlobalSymmetryFeatures{} }

func (gs *GlobalSymmetryFeatures) Name() string { return "GlobalSymmetryFeatures" }

func (gs *GlobalSymmetryFeatures) Labels() []string {
	return []string{"crystal system"}
}

func (gs *GlobalSymmetryFeatures) Featurize(s *structure.Structure) ([]float64, error) {
	const op = "GlobalSymmetryFeatures.Featurize"
	if err := validateStructure(op, s); err != nil {
		return nil, err
	}
	if !s.IsOrdered() {
		return nil, errors.NewValueError(op, "disordered structure")
	}
	return []float64{float64(s.CrystalSystemFromLattice())}, nil
}
