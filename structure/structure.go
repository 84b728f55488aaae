// Package structure provides the crystal structure type used by structure
// featurizers and the meta-feature engine.
package structure

import (
	"encoding/json"
	"math"

	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/element"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// amuPerCubicAngstromToGramsPerCC converts amu/Å³ to g/cm³.
const amuPerCubicAngstromToGramsPerCC = 1.66053906660

// Lattice is a crystal lattice defined by three row vectors in Å.
type Lattice struct {
	Matrix [3][3]float64 `json:"matrix"`
}

// Volume returns the lattice volume in Å³.
func (l Lattice) Volume() float64 {
	m := l.Matrix
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	return math.Abs(det)
}

// Lengths returns the lattice parameters a, b, c in Å.
func (l Lattice) Lengths() (a, b, c float64) {
	norm := func(v [3]float64) float64 {
		return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	return norm(l.Matrix[0]), norm(l.Matrix[1]), norm(l.Matrix[2])
}

// Angles returns the lattice angles alpha, beta, gamma in degrees.
func (l Lattice) Angles() (alpha, beta, gamma float64) {
	dot := func(u, v [3]float64) float64 {
		return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
	}
	a, b, c := l.Lengths()
	va, vb, vc := l.Matrix[0], l.Matrix[1], l.Matrix[2]
	angle := func(u, v [3]float64, lu, lv float64) float64 {
		cos := dot(u, v) / (lu * lv)
		// Clamp against rounding before acos.
		cos = math.Max(-1, math.Min(1, cos))
		return math.Acos(cos) * 180 / math.Pi
	}
	return angle(vb, vc, b, c), angle(va, vc, a, c), angle(va, vb, a, b)
}

// SiteSpecies is one species occupying a site with a fractional occupancy.
type SiteSpecies struct {
	Element string  `json:"element"`
	Occu    float64 `json:"occu"`
}

// Site is one crystallographic site with fractional coordinates.
type Site struct {
	Species []SiteSpecies `json:"species"`
	Abc     [3]float64    `json:"abc"`
}

// IsOrdered reports whether the site is fully occupied by a single species.
func (s Site) IsOrdered() bool {
	if len(s.Species) != 1 {
		return false
	}
	return math.Abs(s.Species[0].Occu-1.0) < 1e-8
}

// Structure is a periodic crystal: a lattice plus sites.
type Structure struct {
	Lattice Lattice `json:"lattice"`
	Sites   []Site  `json:"sites"`
}

// New validates and builds a Structure.
func New(lattice Lattice, sites []Site) (Structure, error) {
	if len(sites) == 0 {
		return Structure{}, errors.NewValueError("structure.New", "structure has no sites")
	}
	if lattice.Volume() <= 0 {
		return Structure{}, errors.NewValueError("structure.New", "lattice volume is not positive")
	}
	for _, site := range sites {
		if len(site.Species) == 0 {
			return Structure{}, errors.NewValueError("structure.New", "site has no species")
		}
		for _, sp := range site.Species {
			if !element.IsKnownSymbol(sp.Element) {
				return Structure{}, errors.NewValueError("structure.New", "unknown element symbol: "+sp.Element)
			}
			if sp.Occu <= 0 || sp.Occu > 1+1e-8 {
				return Structure{}, errors.NewValueError("structure.New", "occupancy out of (0, 1]: "+sp.Element)
			}
		}
	}
	return Structure{Lattice: lattice, Sites: sites}, nil
}

// NumSites returns the number of crystallographic sites.
func (s Structure) NumSites() int {
	return len(s.Sites)
}

// IsOrdered reports whether every site is fully occupied by one species.
func (s Structure) IsOrdered() bool {
	for _, site := range s.Sites {
		if !site.IsOrdered() {
			return false
		}
	}
	return true
}

// Composition returns the total composition of the cell, weighting species
// by occupancy.
func (s Structure) Composition() (composition.Composition, error) {
	amounts := map[string]float64{}
	for _, site := range s.Sites {
		for _, sp := range site.Species {
			amounts[sp.Element] += sp.Occu
		}
	}
	return composition.FromAmounts(amounts)
}

// Volume returns the cell volume in Å³.
func (s Structure) Volume() float64 {
	return s.Lattice.Volume()
}

// Density returns the mass density in g/cm³.
func (s Structure) Density() (float64, error) {
	vol := s.Volume()
	if vol <= 0 {
		return 0, errors.NewValueError("Structure.Density", "lattice volume is not positive")
	}
	var mass float64
	for _, site := range s.Sites {
		for _, sp := range site.Species {
			el, err := element.FromSymbol(sp.Element)
			if err != nil {
				return 0, err
			}
			mass += el.Mass * sp.Occu
		}
	}
	return mass * amuPerCubicAngstromToGramsPerCC / vol, nil
}

// VolumePerAtom returns the volume per atom in Å³, counting partial
// occupancies fractionally.
func (s Structure) VolumePerAtom() (float64, error) {
	var atoms float64
	for _, site := range s.Sites {
		for _, sp := range site.Species {
			atoms += sp.Occu
		}
	}
	if atoms == 0 {
		return 0, errors.NewValueError("Structure.VolumePerAtom", "structure has no atoms")
	}
	return s.Volume() / atoms, nil
}

// CrystalSystem is the lattice-derived crystal system.
type CrystalSystem int

const (
	Triclinic CrystalSystem = iota
	Monoclinic
	Orthorhombic
	Tetragonal
	Rhombohedral
	Hexagonal
	Cubic
)

var crystalSystemNames = [...]string{
	"triclinic", "monoclinic", "orthorhombic", "tetragonal",
	"rhombohedral", "hexagonal", "cubic",
}

func (cs CrystalSystem) String() string {
	if int(cs) < len(crystalSystemNames) {
		return crystalSystemNames[cs]
	}
	return "unknown"
}

// CrystalSystemFromLattice guesses the crystal system from the lattice
// parameters alone. This is a cell-shape classification, not a full symmetry
// analysis.
func (s Structure) CrystalSystemFromLattice() CrystalSystem {
	const tol = 1e-3
	eq := func(x, y float64) bool { return math.Abs(x-y) < tol*math.Max(1, math.Abs(x)) }

	a, b, c := s.Lattice.Lengths()
	alpha, beta, gamma := s.Lattice.Angles()
	allRight := eq(alpha, 90) && eq(beta, 90) && eq(gamma, 90)

	switch {
	case allRight && eq(a, b) && eq(b, c):
		return Cubic
	case allRight && eq(a, b):
		return Tetragonal
	case allRight:
		return Orthorhombic
	case eq(alpha, 90) && eq(beta, 90) && eq(gamma, 120) && eq(a, b):
		return Hexagonal
	case eq(a, b) && eq(b, c) && eq(alpha, beta) && eq(beta, gamma):
		return Rhombohedral
	case eq(alpha, 90) && eq(gamma, 90):
		return Monoclinic
	default:
		return Triclinic
	}
}

// ParseJSON decodes a structure from its JSON encoding (a lattice matrix
// plus a site list, the layout emitted by common materials databases).
func ParseJSON(data []byte) (Structure, error) {
	var s Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return Structure{}, errors.Wrap(err, "structure.ParseJSON")
	}
	return New(s.Lattice, s.Sites)
}
