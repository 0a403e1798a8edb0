package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHenderson_LowDensityLimit_IsIdealGas(t *testing.T) {
	assert.InDelta(t, 1.0, Henderson(0), 1e-15)
	assert.InDelta(t, 1.0, Henderson(1e-9), 1e-8)
}

func TestHenderson_KnownValue(t *testing.T) {
	// eta = 0.5: (1 + 0.25/8) / 0.25 = 4.125
	assert.InDelta(t, 4.125, Henderson(0.5), 1e-12)
}

func TestPackingFraction_InvertsPressure(t *testing.T) {
	tests := []struct {
		name   string
		betaP  float64
		radius float64
	}{
		{"dilute", 0.1, 0.5},
		{"moderate", 5, 0.5},
		{"dense", 9, 0.5},
		{"other radius", 2, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eta, err := PackingFraction(tt.betaP, tt.radius)
			require.NoError(t, err)
			assert.Greater(t, eta, 0.0)
			assert.Less(t, eta, 1.0)
			assert.InDelta(t, tt.betaP, Pressure(eta, tt.radius), 1e-9*tt.betaP)
		})
	}
}

func TestPackingFraction_BetaP5_NearPointSix(t *testing.T) {
	// Henderson at betaP = 5 for unit-diameter disks sits close to eta = 0.6
	eta, err := PackingFraction(5, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, eta, 0.01)
}

func TestPackingFraction_InvalidInput_ReturnsError(t *testing.T) {
	_, err := PackingFraction(0, 0.5)
	assert.Error(t, err)
	_, err = PackingFraction(math.Inf(1), 0.5)
	assert.Error(t, err)
	_, err = PackingFraction(1, 0)
	assert.Error(t, err)
}

func TestReducedVolume_InverseOfPackingFraction(t *testing.T) {
	// phi = pi/4 means one squared diameter per disk
	assert.InDelta(t, 1.0, ReducedVolume(math.Pi/4), 1e-15)
}

func TestReference_VolumeDecreasesWithPressure(t *testing.T) {
	for i := 1; i < len(Reference); i++ {
		prev, cur := Reference[i-1], Reference[i]
		assert.Greater(t, prev.Pressure, cur.Pressure)
		assert.Less(t, prev.Volume, cur.Volume)
	}
}

func TestPressure_MonotonicInPackingFraction(t *testing.T) {
	prev := 0.0
	for eta := 0.05; eta < 0.9; eta += 0.05 {
		p := Pressure(eta, 0.5)
		assert.Greater(t, p, prev, "eta=%v", eta)
		prev = p
	}
}

func TestTail_DiscardsLeadingFraction(t *testing.T) {
	series := []float64{0, 0, 0, 0, 0, 1, 2, 3, 4, 5}
	eq, err := Tail(series, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5, eq.Start)
	assert.Equal(t, 5, eq.Samples)
	assert.InDelta(t, 3.0, eq.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), eq.StdDev, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5)/math.Sqrt(5), eq.StdErr, 1e-12)
}

func TestTail_SingleSample_ZeroSpread(t *testing.T) {
	eq, err := Tail([]float64{0.42}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.42, eq.Mean)
	assert.Equal(t, 0.0, eq.StdDev)
}

func TestTail_InvalidInput_ReturnsError(t *testing.T) {
	_, err := Tail([]float64{1, 2}, 1)
	assert.Error(t, err)
	_, err = Tail([]float64{1, 2}, -0.1)
	assert.Error(t, err)
	_, err = Tail(nil, 0)
	assert.Error(t, err)
}

func TestMSER_RampThenPlateau_FindsEndOfRamp(t *testing.T) {
	// GIVEN 100 samples climbing from 0.3 to 0.6 followed by 400 samples
	// alternating around 0.6
	var series []float64
	for i := 0; i < 100; i++ {
		series = append(series, 0.3+0.003*float64(i))
	}
	for i := 0; i < 400; i++ {
		series = append(series, 0.6+0.001*float64(1-2*(i%2)))
	}

	// WHEN the equilibration point is detected
	eq, err := MSER(series)
	require.NoError(t, err)

	// THEN the ramp is cut off and the plateau statistics remain
	assert.Equal(t, MethodMSER, eq.Method)
	assert.InDelta(t, 100, eq.Start, 2)
	assert.Equal(t, len(series)-eq.Start, eq.Samples)
	assert.InDelta(t, 0.6, eq.Mean, 1e-4)
	assert.InDelta(t, 0.001, eq.StdDev, 1e-4)
}

func TestMSER_StationarySeries_KeepsEverything(t *testing.T) {
	eq, err := MSER([]float64{0.5, 0.5, 0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0, eq.Start)
	assert.Equal(t, 4, eq.Samples)
}

func TestMSER_TruncatesAtMostHalf(t *testing.T) {
	// A series that never settles keeps improving with truncation; the cut stops at n/2
	series := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	eq, err := MSER(series)
	require.NoError(t, err)
	assert.Equal(t, 5, eq.Start)
}

func TestMSER_TooShort_ReturnsError(t *testing.T) {
	_, err := MSER([]float64{0.5})
	assert.Error(t, err)
	_, err = MSER(nil)
	assert.Error(t, err)
}

func TestTail_ReportsFixedMethod(t *testing.T) {
	eq, err := Tail([]float64{1, 2, 3, 4}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, MethodFixed, eq.Method)
	assert.Equal(t, 2, eq.Start)
}
