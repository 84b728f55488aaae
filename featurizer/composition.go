package featurizer

import (
	"math"
	"sort"

	"github.com/hikarimat/matpipe/composition"
	"github.com/hikarimat/matpipe/element"
	"github.com/hikarimat/matpipe/pkg/errors"
)

// elementProperty names a per-element scalar used by ElementProperty.
type elementProperty struct {
	name  string
	value func(el element.Element) float64
}

var elementProperties = []elementProperty{
	{"atomic_number", func(el element.Element) float64 { return float64(el.Z) }},
	{"atomic_mass", func(el element.Element) float64 { return el.Mass }},
	{"electronegativity", func(el element.Element) float64 { return el.Electronegativity }},
	{"row", func(el element.Element) float64 { return float64(el.Row) }},
	{"group", func(el element.Element) float64 { return float64(el.Group) }},
}

var propertyStats = []string{"minimum", "maximum", "range", "mean", "avg_dev"}

// ElementProperty computes fraction-weighted statistics of elemental
// properties over a composition. For each property it emits the minimum,
// maximum, range, weighted mean and weighted mean absolute deviation.
type ElementProperty struct{}

func NewElementProperty() *ElementProperty { return &ElementProperty{} }

func (ep *ElementProperty) Name() string { return "ElementProperty" }

func (ep *ElementProperty) Labels() []string {
	labels := make([]string, 0, len(elementProperties)*len(propertyStats))
	for _, p := range elementProperties {
		for _, s := range propertyStats {
			labels = append(labels, s+" "+p.name)
		}
	}
	return labels
}

func (ep *ElementProperty) Featurize(c *composition.Composition) ([]float64, error) {
	if err := validateComposition("ElementProperty.Featurize", c); err != nil {
		return nil, err
	}
	els := c.Elements()
	fracs := make([]float64, len(els))
	for i, el := range els {
		fracs[i] = c.Fraction(el.Symbol)
	}

	out := make([]float64, 0, len(elementProperties)*len(propertyStats))
	for _, p := range elementProperties {
		values := make([]float64, len(els))
		for i, el := range els {
			values[i] = p.value(el)
		}
		minV, maxV := values[0], values[0]
		mean := 0.0
		for i, v := range values {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			mean += fracs[i] * v
		}
		avgDev := 0.0
		for i, v := range values {
			avgDev += fracs[i] * math.Abs(v-mean)
		}
		out = append(out, minV, maxV, maxV-minV, mean, avgDev)
	}
	return out, nil
}

var stoichiometryOrders = []int{0, 2, 3, 5, 7, 10}

// Stoichiometry computes p-norms of the element fraction vector. The
// 0-norm is the number of distinct elements.
type Stoichiometry struct{}

func NewStoichiometry() *Stoichiometry { return &Stoichiometry{} }

func (st *Stoichiometry) Name() string { return "Stoichiometry" }

func (st *Stoichiometry) Labels() []string {
	labels := make([]string, len(stoichiometryOrders))
	for i, p := range stoichiometryOrders {
		labels[i] = normLabel(p)
	}
	return labels
}

func normLabel(p int) string {
	switch p {
	case 0:
		return "0-norm"
	case 2:
		return "2-norm"
	case 3:
		return "3-norm"
	case 5:
		return "5-norm"
	case 7:
		return "7-norm"
	default:
		return "10-norm"
	}
}

func (st *Stoichiometry) Featurize(c *composition.Composition) ([]float64, error) {
	if err := validateComposition("Stoichiometry.Featurize", c); err != nil {
		return nil, err
	}
	symbols := c.Symbols()
	fracs := make([]float64, len(symbols))
	for i, sym := range symbols {
		fracs[i] = c.Fraction(sym)
	}

	out := make([]float64, len(stoichiometryOrders))
	for i, p := range stoichiometryOrders {
		if p == 0 {
			out[i] = float64(len(fracs))
			continue
		}
		sum := 0.0
		for _, f := range fracs {
			sum += math.Pow(f, float64(p))
		}
		out[i] = math.Pow(sum, 1.0/float64(p))
	}
	return out, nil
}

// TMetalFraction computes the fraction of atoms that are transition metals.
type TMetalFraction struct{}

func NewTMetalFraction() *TMetalFraction { return &TMetalFraction{} }

func (tf *TMetalFraction) Name() string { return "TMetalFraction" }

func (tf *TMetalFraction) Labels() []string {
	return []string{"transition metal fraction"}
}

func (tf *TMetalFraction) Featurize(c *composition.Composition) ([]float64, error) {
	if err := validateComposition("TMetalFraction.Featurize", c); err != nil {
		return nil, err
	}
	return []float64{c.TransitionMetalFraction()}, nil
}

// ElectronegativityDiff computes statistics of the electronegativity gap
// between the most electronegative element and every other element,
// weighted by atomic fraction. Single-element compositions have no gap
// and produce an error.
type ElectronegativityDiff struct{}

func NewElectronegativityDiff() *ElectronegativityDiff { return &ElectronegativityDiff{} }

func (ed *ElectronegativityDiff) Name() string { return "ElectronegativityDiff" }

func (ed *ElectronegativityDiff) Labels() []string {
	return []string{
		"minimum EN difference",
		"maximum EN difference",
		"range EN difference",
		"mean EN difference",
		"std_dev EN difference",
	}
}

func (ed *ElectronegativityDiff) Featurize(c *composition.Composition) ([]float64, error) {
	const op = "ElectronegativityDiff.Featurize"
	if err := validateComposition(op, c); err != nil {
		return nil, err
	}
	els := c.Elements()
	if len(els) < 2 {
		return nil, errors.NewValueError(op, "requires at least two elements")
	}
	sort.Slice(els, func(i, j int) bool {
		return els[i].Electronegativity < els[j].Electronegativity
	})
	anion := els[len(els)-1]
	if anion.Electronegativity == 0 {
		return nil, errors.NewValueError(op, "no electronegativity data for "+anion.Symbol)
	}

	rest := els[:len(els)-1]
	diffs := make([]float64, len(rest))
	weights := make([]float64, len(rest))
	totalW := 0.0
	for i, el := range rest {
		diffs[i] = anion.Electronegativity - el.Electronegativity
		weights[i] = c.Amount(el.Symbol)
		totalW += weights[i]
	}

	minD, maxD := diffs[0], diffs[0]
	mean := 0.0
	for i, d := range diffs {
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
		mean += weights[i] / totalW * d
	}
	variance := 0.0
	for i, d := range diffs {
		variance += weights[i] / totalW * (d - mean) * (d - mean)
	}
	return []float64{minD, maxD, maxD - minD, mean, math.Sqrt(variance)}, nil
}
