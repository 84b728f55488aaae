// Package composition provides chemical formula parsing and the Composition
// type used by featurizers and the meta-feature engine.
package composition

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hikarimat/matpipe/element"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// Composition maps element symbols to their amounts in a formula unit.
type Composition struct {
	amounts map[string]float64
}

// Category classifies a formula by the metallicity of its elements.
type Category int

const (
	// AllMetal means every element in the formula is a metal.
	AllMetal Category = iota + 1
	// MetalNonmetal means the formula mixes metallic and non-metallic elements.
	MetalNonmetal
	// AllNonmetal means no element in the formula is a metal.
	AllNonmetal
)

// Parse parses a chemical formula such as "Fe2O3", "Ca(OH)2" or
// "Li0.5FePO4" into a Composition. Nested parentheses are supported.
func Parse(formula string) (Composition, error) {
	s := strings.TrimSpace(formula)
	if s == "" {
		return Composition{}, errors.NewValueError("composition.Parse", "empty formula")
	}

	amounts := map[string]float64{}
	rest, err := parseGroup(s, 1.0, amounts)
	if err != nil {
		return Composition{}, err
	}
	if rest != "" {
		return Composition{}, errors.NewValueError("composition.Parse",
			fmt.Sprintf("unexpected %q in formula %q", rest, formula))
	}
	if len(amounts) == 0 {
		return Composition{}, errors.NewValueError("composition.Parse", "formula has no elements: "+formula)
	}
	return Composition{amounts: amounts}, nil
}

// MustParse is Parse that panics on error. Intended for tests and fixtures.
func MustParse(formula string) Composition {
	c, err := Parse(formula)
	if err != nil {
		panic(err)
	}
	return c
}

// parseGroup consumes element/group tokens until the string ends or a closing
// parenthesis is hit, scaling every parsed amount by mult. It returns the
// unconsumed remainder (beginning with ')' when inside a group).
func parseGroup(s string, mult float64, amounts map[string]float64) (string, error) {
	for s != "" {
		switch {
		case s[0] == ')':
			return s, nil
		case s[0] == '(':
			inner := map[string]float64{}
			rest, err := parseGroup(s[1:], 1.0, inner)
			if err != nil {
				return "", err
			}
			if rest == "" || rest[0] != ')' {
				return "", errors.NewValueError("composition.Parse", "unbalanced parenthesis")
			}
			rest = rest[1:]
			factor, rest, err := parseAmount(rest)
			if err != nil {
				return "", err
			}
			for sym, amt := range inner {
				amounts[sym] += amt * factor * mult
			}
			s = rest
		default:
			sym, rest, err := parseSymbol(s)
			if err != nil {
				return "", err
			}
			amt, rest, err := parseAmount(rest)
			if err != nil {
				return "", err
			}
			amounts[sym] += amt * mult
			s = rest
		}
	}
	return "", nil
}

// parseSymbol reads one element symbol: an uppercase letter followed by
// optional lowercase letters.
func parseSymbol(s string) (string, string, error) {
	if s[0] < 'A' || s[0] > 'Z' {
		return "", "", errors.NewValueError("composition.Parse",
			fmt.Sprintf("expected element symbol at %q", s))
	}
	end := 1
	for end < len(s) && s[end] >= 'a' && s[end] <= 'z' {
		end++
	}
	sym := s[:end]
	if !element.IsKnownSymbol(sym) {
		return "", "", errors.NewValueError("composition.Parse", "unknown element symbol: "+sym)
	}
	return sym, s[end:], nil
}

// parseAmount reads an optional decimal amount, defaulting to 1. A digit/dot
// run that is not a positive number is an error, not an implicit 1.
func parseAmount(s string) (float64, string, error) {
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 1.0, s, nil
	}
	amt, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || amt <= 0 {
		return 0, "", errors.NewValueError("composition.Parse", "invalid amount: "+s[:end])
	}
	return amt, s[end:], nil
}

// FromAmounts builds a Composition directly from a symbol→amount map.
// Unknown symbols and non-positive amounts are rejected.
func FromAmounts(amounts map[string]float64) (Composition, error) {
	if len(amounts) == 0 {
		return Composition{}, errors.NewValueError("composition.FromAmounts", "no elements")
	}
	clean := make(map[string]float64, len(amounts))
	for sym, amt := range amounts {
		if !element.IsKnownSymbol(sym) {
			return Composition{}, errors.NewValueError("composition.FromAmounts", "unknown element symbol: "+sym)
		}
		if amt <= 0 || math.IsNaN(amt) || math.IsInf(amt, 0) {
			return Composition{}, errors.NewValueError("composition.FromAmounts",
				fmt.Sprintf("invalid amount %v for %s", amt, sym))
		}
		clean[sym] += amt
	}
	return Composition{amounts: clean}, nil
}

// Symbols returns the element symbols in the composition, sorted.
func (c Composition) Symbols() []string {
	syms := make([]string, 0, len(c.amounts))
	for sym := range c.amounts {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

// Elements returns the elements in the composition, sorted by symbol.
func (c Composition) Elements() []element.Element {
	syms := c.Symbols()
	els := make([]element.Element, len(syms))
	for i, sym := range syms {
		els[i], _ = element.FromSymbol(sym)
	}
	return els
}

// Amount returns the amount of the given element symbol, 0 if absent.
func (c Composition) Amount(symbol string) float64 {
	return c.amounts[symbol]
}

// NumElements returns the number of distinct elements.
func (c Composition) NumElements() int {
	return len(c.amounts)
}

// NumAtoms returns the total number of atoms per formula unit.
func (c Composition) NumAtoms() float64 {
	var n float64
	for _, amt := range c.amounts {
		n += amt
	}
	return n
}

// Fraction returns the atomic fraction of the given element symbol.
func (c Composition) Fraction(symbol string) float64 {
	n := c.NumAtoms()
	if n == 0 {
		return 0
	}
	return c.amounts[symbol] / n
}

// Weight returns the formula weight in g/mol.
func (c Composition) Weight() float64 {
	var w float64
	for sym, amt := range c.amounts {
		el, _ := element.FromSymbol(sym)
		w += el.Mass * amt
	}
	return w
}

// Category classifies the formula as all-metal, metal-nonmetal or
// all-nonmetal. Metalloids count as non-metals.
func (c Composition) Category() Category {
	metals, nonmetals := 0, 0
	for _, el := range c.Elements() {
		if el.IsMetal() {
			metals++
		} else {
			nonmetals++
		}
	}
	switch {
	case nonmetals == 0:
		return AllMetal
	case metals == 0:
		return AllNonmetal
	default:
		return MetalNonmetal
	}
}

// ContainsTransitionMetal reports whether any element is a transition metal.
func (c Composition) ContainsTransitionMetal() bool {
	for _, el := range c.Elements() {
		if el.IsTransitionMetal() {
			return true
		}
	}
	return false
}

// TransitionMetalFraction returns the atomic fraction of transition-metal
// atoms in the formula unit.
func (c Composition) TransitionMetalFraction() float64 {
	n := c.NumAtoms()
	if n == 0 {
		return 0
	}
	var tm float64
	for sym, amt := range c.amounts {
		el, _ := element.FromSymbol(sym)
		if el.IsTransitionMetal() {
			tm += amt
		}
	}
	return tm / n
}

// String returns the formula with elements in sorted order, e.g. "Fe2O3"
// renders as "Fe2 O3".
func (c Composition) String() string {
	parts := make([]string, 0, len(c.amounts))
	for _, sym := range c.Symbols() {
		amt := c.amounts[sym]
		if amt == 1 {
			parts = append(parts, sym)
		} else if amt == math.Trunc(amt) {
			parts = append(parts, fmt.Sprintf("%s%d", sym, int(amt)))
		} else {
			parts = append(parts, fmt.Sprintf("%s%g", sym, amt))
		}
	}
	return strings.Join(parts, " ")
}
