package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSymbol(t *testing.T) {
	fe, err := FromSymbol("Fe")
	require.NoError(t, err)
	assert.Equal(t, 26, fe.Z)
	assert.InDelta(t, 55.845, fe.Mass, 1e-9)

	_, err = FromSymbol("Xx")
	assert.Error(t, err)
}

func TestFromZ(t *testing.T) {
	o, err := FromZ(8)
	require.NoError(t, err)
	assert.Equal(t, "O", o.Symbol)

	_, err = FromZ(0)
	assert.Error(t, err)
	_, err = FromZ(2000)
	assert.Error(t, err)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		symbol     string
		metal      bool
		transition bool
	}{
		{"Fe", true, true},
		{"Cu", true, true},
		{"La", true, true},
		{"U", true, true},
		{"Na", true, false},
		{"Ca", true, false},
		{"Al", true, false},
		{"Pb", true, false},
		{"O", false, false},
		{"Si", false, false}, // metalloid
		{"Cl", false, false},
		{"He", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			el, err := FromSymbol(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.metal, el.IsMetal(), "IsMetal")
			assert.Equal(t, tt.transition, el.IsTransitionMetal(), "IsTransitionMetal")
		})
	}
}

func TestTableConsistency(t *testing.T) {
	for z := 1; z <= 94; z++ {
		el, err := FromZ(z)
		require.NoError(t, err)
		assert.Equal(t, z, el.Z)
		assert.NotEmpty(t, el.Symbol)
		assert.Greater(t, el.Mass, 0.0)

		back, err := FromSymbol(el.Symbol)
		require.NoError(t, err)
		assert.Equal(t, el.Z, back.Z)
	}
}
