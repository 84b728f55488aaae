package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    map[string]float64
		wantErr bool
	}{
		{
			name:    "simple oxide",
			formula: "Fe2O3",
			want:    map[string]float64{"Fe": 2, "O": 3},
		},
		{
			name:    "implicit unit amounts",
			formula: "SrTiO3",
			want:    map[string]float64{"Sr": 1, "Ti": 1, "O": 3},
		},
		{
			name:    "parenthesized group",
			formula: "Ca(OH)2",
			want:    map[string]float64{"Ca": 1, "O": 2, "H": 2},
		},
		{
			name:    "nested groups",
			formula: "Mg(Al(OH)4)2",
			want:    map[string]float64{"Mg": 1, "Al": 2, "O": 8, "H": 8},
		},
		{
			name:    "fractional amounts",
			formula: "Li0.5FePO4",
			want:    map[string]float64{"Li": 0.5, "Fe": 1, "P": 1, "O": 4},
		},
		{
			name:    "repeated element accumulates",
			formula: "FeOFe",
			want:    map[string]float64{"Fe": 2, "O": 1},
		},
		{
			name:    "empty formula",
			formula: "  ",
			wantErr: true,
		},
		{
			name:    "unknown symbol",
			formula: "Xx2O3",
			wantErr: true,
		},
		{
			name:    "unbalanced parenthesis",
			formula: "Ca(OH",
			wantErr: true,
		},
		{
			name:    "stray closing parenthesis",
			formula: "CaO)2",
			wantErr: true,
		},
		{
			name:    "lowercase start",
			formula: "fe2O3",
			wantErr: true,
		},
		{
			name:    "zero amount",
			formula: "Fe0",
			wantErr: true,
		},
		{
			name:    "two decimal points",
			formula: "Fe1.2.3O",
			wantErr: true,
		},
		{
			name:    "bare dot amount",
			formula: "Fe.O",
			wantErr: true,
		},
		{
			name:    "zero group amount",
			formula: "Ca(OH)0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.formula)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.Symbols(), len(tt.want))
			for sym, amt := range tt.want {
				assert.InDelta(t, amt, c.Amount(sym), 1e-12, "amount of %s", sym)
			}
		})
	}
}

func TestCompositionAccessors(t *testing.T) {
	c := MustParse("Fe2O3")

	assert.Equal(t, 2, c.NumElements())
	assert.InDelta(t, 5.0, c.NumAtoms(), 1e-12)
	assert.InDelta(t, 0.4, c.Fraction("Fe"), 1e-12)
	assert.InDelta(t, 0.6, c.Fraction("O"), 1e-12)
	// 2*55.845 + 3*15.999
	assert.InDelta(t, 159.687, c.Weight(), 1e-3)
	assert.Equal(t, []string{"Fe", "O"}, c.Symbols())
}

func TestCategory(t *testing.T) {
	tests := []struct {
		formula string
		want    Category
	}{
		{"FeAl", AllMetal},
		{"CuZn", AllMetal},
		{"Fe2O3", MetalNonmetal},
		{"NaCl", MetalNonmetal},
		{"SiO2", AllNonmetal}, // metalloid counts as non-metal
		{"CO2", AllNonmetal},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.formula).Category())
		})
	}
}

func TestTransitionMetal(t *testing.T) {
	assert.True(t, MustParse("Fe2O3").ContainsTransitionMetal())
	assert.False(t, MustParse("NaCl").ContainsTransitionMetal())
	assert.InDelta(t, 0.4, MustParse("Fe2O3").TransitionMetalFraction(), 1e-12)
	assert.InDelta(t, 0.0, MustParse("MgAl2O4").TransitionMetalFraction(), 1e-12)
}

func TestFromAmounts(t *testing.T) {
	c, err := FromAmounts(map[string]float64{"Fe": 2, "O": 3})
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumElements())

	_, err = FromAmounts(map[string]float64{"Bad": 1})
	assert.Error(t, err)
	_, err = FromAmounts(map[string]float64{"Fe": -1})
	assert.Error(t, err)
	_, err = FromAmounts(nil)
	assert.Error(t, err)
}
