package ndvi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeKnownValues(t *testing.T) {
	cases := []struct {
		nir, red float64
		expected float64
	}{
		{0.5, 0.1, 0.667},
		{0.4, 0.2, 0.333},
		{0.8, 0.05, 0.882},
		{0.3, 0.3, 0},
	}

	for _, c := range cases {
		result := Compute(c.nir, c.red)
		require.False(t, result.NoData)
		assert.InDelta(t, c.expected, result.Value, 1e-3)
	}
}

func TestComputeZeroDenominatorIsNoData(t *testing.T) {
	result := Compute(0, 0)
	assert.True(t, result.NoData)

	// Within epsilon of zero counts as no reflectance too.
	result = Compute(1e-12, 1e-12)
	assert.True(t, result.NoData)
}

func TestComputeNonFiniteInputIsNoData(t *testing.T) {
	assert.True(t, Compute(math.NaN(), 0.5).NoData)
	assert.True(t, Compute(0.5, math.Inf(1)).NoData)
}

func TestComputeClampsOutOfRangeRatios(t *testing.T) {
	// Calibration artifacts can push the ratio outside [-1, 1].
	result := Compute(1.0, -0.5)
	require.False(t, result.NoData)
	assert.True(t, result.Clamped)
	assert.Equal(t, 1.0, result.Value)

	result = Compute(-0.5, 1.0)
	require.False(t, result.NoData)
	assert.True(t, result.Clamped)
	assert.Equal(t, -1.0, result.Value)
}

func TestComputeStaysInRange(t *testing.T) {
	values := []float64{-2, -0.7, -0.1, 0, 0.1, 0.4, 0.9, 1.5, 3}
	for _, nir := range values {
		for _, red := range values {
			result := Compute(nir, red)
			if result.NoData {
				continue
			}
			assert.GreaterOrEqual(t, result.Value, -1.0)
			assert.LessOrEqual(t, result.Value, 1.0)
		}
	}
}

func TestComputeAntisymmetricUnderBandSwap(t *testing.T) {
	pairs := [][2]float64{{0.5, 0.1}, {0.4, 0.2}, {0.8, 0.05}, {0.2, 0.7}}
	for _, pair := range pairs {
		forward := Compute(pair[0], pair[1])
		backward := Compute(pair[1], pair[0])
		require.False(t, forward.NoData)
		require.False(t, backward.NoData)
		assert.InDelta(t, -forward.Value, backward.Value, 1e-12)
	}
}
