// Package element provides a periodic-table registry with the per-element
// data and classifications needed by composition statistics and featurizers.
package element

import (
	"github.com/hikarimat/matpipe/pkg/errors"
)

// Element holds the per-element data used across the library. The zero value
// is not a valid element; obtain instances via FromSymbol or FromZ.
type Element struct {
	Z                 int
	Symbol            string
	Mass              float64
	Electronegativity float64 // Pauling scale, 0 where undefined
	Row               int
	Group             int
}

// IsTransitionMetal reports whether the element is a d- or f-block metal
// (including lanthanoids and actinoids).
func (e Element) IsTransitionMetal() bool {
	return (e.Z >= 21 && e.Z <= 30) ||
		(e.Z >= 39 && e.Z <= 48) ||
		(e.Z >= 57 && e.Z <= 80) ||
		(e.Z >= 89 && e.Z <= 103)
}

// IsAlkali reports whether the element is an alkali metal.
func (e Element) IsAlkali() bool {
	switch e.Z {
	case 3, 11, 19, 37, 55, 87:
		return true
	}
	return false
}

// IsAlkaline reports whether the element is an alkaline earth metal.
func (e Element) IsAlkaline() bool {
	switch e.Z {
	case 4, 12, 20, 38, 56, 88:
		return true
	}
	return false
}

// IsPostTransitionMetal reports whether the element is a p-block metal.
func (e Element) IsPostTransitionMetal() bool {
	switch e.Z {
	case 13, 31, 49, 50, 81, 82, 83, 84:
		return true
	}
	return false
}

// IsMetalloid reports whether the element is a metalloid. Metalloids do not
// count as metals for formula classification.
func (e Element) IsMetalloid() bool {
	switch e.Z {
	case 5, 14, 32, 33, 51, 52:
		return true
	}
	return false
}

// IsNobleGas reports whether the element is a noble gas.
func (e Element) IsNobleGas() bool {
	switch e.Z {
	case 2, 10, 18, 36, 54, 86:
		return true
	}
	return false
}

// IsHalogen reports whether the element is a halogen.
func (e Element) IsHalogen() bool {
	switch e.Z {
	case 9, 17, 35, 53, 85:
		return true
	}
	return false
}

// IsMetal reports whether the element behaves as a metal. This drives the
// all-metal / metal-nonmetal / all-nonmetal formula classification used by
// the meta-feature engine.
func (e Element) IsMetal() bool {
	return e.IsAlkali() || e.IsAlkaline() || e.IsTransitionMetal() || e.IsPostTransitionMetal()
}

// FromSymbol returns the element with the given symbol.
func FromSymbol(symbol string) (Element, error) {
	el, ok := bySymbol[symbol]
	if !ok {
		return Element{}, errors.NewValueError("element.FromSymbol", "unknown element symbol: "+symbol)
	}
	return el, nil
}

// FromZ returns the element with the given atomic number.
func FromZ(z int) (Element, error) {
	if z < 1 || z > len(table) {
		return Element{}, errors.Newf("element.FromZ: atomic number %d out of range", z)
	}
	return table[z-1], nil
}

// IsKnownSymbol reports whether symbol names a known element.
func IsKnownSymbol(symbol string) bool {
	_, ok := bySymbol[symbol]
	return ok
}

var bySymbol = func() map[string]Element {
	m := make(map[string]Element, len(table))
	for _, el := range table {
		m[el.Symbol] = el
	}
	return m
}()

// table covers H through Pu. Electronegativities are Pauling values; noble
// gases without an accepted value carry 0.
var table = []Element{
	{1, "H", 1.008, 2.20, 1, 1},
	{2, "He", 4.0026, 0, 1, 18},
	{3, "Li", 6.94, 0.98, 2, 1},
	{4, "Be", 9.0122, 1.57, 2, 2},
	{5, "B", 10.81, 2.04, 2, 13},
	{6, "C", 12.011, 2.55, 2, 14},
	{7, "N", 14.007, 3.04, 2, 15},
	{8, "O", 15.999, 3.44, 2, 16},
	{9, "F", 18.998, 3.98, 2, 17},
	{10, "Ne", 20.180, 0, 2, 18},
	{11, "Na", 22.990, 0.93, 3, 1},
	{12, "Mg", 24.305, 1.31, 3, 2},
	{13, "Al", 26.982, 1.61, 3, 13},
	{14, "Si", 28.085, 1.90, 3, 14},
	{15, "P", 30.974, 2.19, 3, 15},
	{16, "S", 32.06, 2.58, 3, 16},
	{17, "Cl", 35.45, 3.16, 3, 17},
	{18, "Ar", 39.948, 0, 3, 18},
	{19, "K", 39.098, 0.82, 4, 1},
	{20, "Ca", 40.078, 1.00, 4, 2},
	{21, "Sc", 44.956, 1.36, 4, 3},
	{22, "Ti", 47.867, 1.54, 4, 4},
	{23, "V", 50.942, 1.63, 4, 5},
	{24, "Cr", 51.996, 1.66, 4, 6},
	{25, "Mn", 54.938, 1.55, 4, 7},
	{26, "Fe", 55.845, 1.83, 4, 8},
	{27, "Co", 58.933, 1.88, 4, 9},
	{28, "Ni", 58.693, 1.91, 4, 10},
	{29, "Cu", 63.546, 1.90, 4, 11},
	{30, "Zn", 65.38, 1.65, 4, 12},
	{31, "Ga", 69.723, 1.81, 4, 13},
	{32, "Ge", 72.630, 2.01, 4, 14},
	{33, "As", 74.922, 2.18, 4, 15},
	{34, "Se", 78.971, 2.55, 4, 16},
	{35, "Br", 79.904, 2.96, 4, 17},
	{36, "Kr", 83.798, 3.00, 4, 18},
	{37, "Rb", 85.468, 0.82, 5, 1},
	{38, "Sr", 87.62, 0.95, 5, 2},
	{39, "Y", 88.906, 1.22, 5, 3},
	{40, "Zr", 91.224, 1.33, 5, 4},
	{41, "Nb", 92.906, 1.60, 5, 5},
	{42, "Mo", 95.95, 2.16, 5, 6},
	{43, "Tc", 98.0, 1.90, 5, 7},
	{44, "Ru", 101.07, 2.20, 5, 8},
	{45, "Rh", 102.91, 2.28, 5, 9},
	{46, "Pd", 106.42, 2.20, 5, 10},
	{47, "Ag", 107.87, 1.93, 5, 11},
	{48, "Cd", 112.41, 1.69, 5, 12},
	{49, "In", 114.82, 1.78, 5, 13},
	{50, "Sn", 118.71, 1.96, 5, 14},
	{51, "Sb", 121.76, 2.05, 5, 15},
	{52, "Te", 127.60, 2.10, 5, 16},
	{53, "I", 126.90, 2.66, 5, 17},
	{54, "Xe", 131.29, 2.60, 5, 18},
	{55, "Cs", 132.91, 0.79, 6, 1},
	{56, "Ba", 137.33, 0.89, 6, 2},
	{57, "La", 138.91, 1.10, 6, 3},
	{58, "Ce", 140.12, 1.12, 6, 3},
	{59, "Pr", 140.91, 1.13, 6, 3},
	{60, "Nd", 144.24, 1.14, 6, 3},
	{61, "Pm", 145.0, 1.13, 6, 3},
	{62, "Sm", 150.36, 1.17, 6, 3},
	{63, "Eu", 151.96, 1.20, 6, 3},
	{64, "Gd", 157.25, 1.20, 6, 3},
	{65, "Tb", 158.93, 1.20, 6, 3},
	{66, "Dy", 162.50, 1.22, 6, 3},
	{67, "Ho", 164.93, 1.23, 6, 3},
	{68, "Er", 167.26, 1.24, 6, 3},
	{69, "Tm", 168.93, 1.25, 6, 3},
	{70, "Yb", 173.05, 1.10, 6, 3},
	{71, "Lu", 174.97, 1.27, 6, 3},
	{72, "Hf", 178.49, 1.30, 6, 4},
	{73, "Ta", 180.95, 1.50, 6, 5},
	{74, "W", 183.84, 2.36, 6, 6},
	{75, "Re", 186.21, 1.90, 6, 7},
	{76, "Os", 190.23, 2.20, 6, 8},
	{77, "Ir", 192.22, 2.20, 6, 9},
	{78, "Pt", 195.08, 2.28, 6, 10},
	{79, "Au", 196.97, 2.54, 6, 11},
	{80, "Hg", 200.59, 2.00, 6, 12},
	{81, "Tl", 204.38, 1.62, 6, 13},
	{82, "Pb", 207.2, 2.33, 6, 14},
	{83, "Bi", 208.98, 2.02, 6, 15},
	{84, "Po", 209.0, 2.00, 6, 16},
	{85, "At", 210.0, 2.20, 6, 17},
	{86, "Rn", 222.0, 0, 6, 18},
	{87, "Fr", 223.0, 0.70, 7, 1},
	{88, "Ra", 226.0, 0.90, 7, 2},
	{89, "Ac", 227.0, 1.10, 7, 3},
	{90, "Th", 232.04, 1.30, 7, 3},
	{91, "Pa", 231.04, 1.50, 7, 3},
	{92, "U", 238.03, 1.38, 7, 3},
	{93, "Np", 237.0, 1.36, 7, 3},
	{94, "Pu", 244.0, 1.28, 7, 3},
}
