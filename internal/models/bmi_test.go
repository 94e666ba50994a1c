package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBMI_ConcreteScenarios(t *testing.T) {
	imc, err := BMI(70, 175)
	require.NoError(t, err)
	require.InDelta(t, 22.857142, imc, 0.0001)
	require.Equal(t, BMINormalWeight, ClassifyBMI(imc))

	imc, err = BMI(100, 160)
	require.NoError(t, err)
	require.InDelta(t, 39.0625, imc, 0.0001)
	require.Equal(t, BMIObesityII, ClassifyBMI(imc))
}

func TestBMI_RejectsNonPositiveInputs(t *testing.T) {
	cases := []struct {
		name     string
		weight   float64
		heightCm float64
	}{
		{"zero weight", 0, 175},
		{"negative weight", -70, 175},
		{"zero height", 70, 0},
		{"negative height", 70, -175},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BMI(tc.weight, tc.heightCm)
			require.ErrorIs(t, err, ErrInvalidBMIInput)
		})
	}
}

func TestClassifyBMI_HalfOpenBoundaries(t *testing.T) {
	cases := []struct {
		imc  float64
		want string
	}{
		{10.0, BMIUnderweight},
		{18.499, BMIUnderweight},
		{18.5, BMINormalWeight},
		{24.999, BMINormalWeight},
		{25.0, BMIOverweight},
		{29.999, BMIOverweight},
		{30.0, BMIObesityI},
		{34.999, BMIObesityI},
		{35.0, BMIObesityII},
		{39.999, BMIObesityII},
		{40.0, BMIObesityIII},
		{55.0, BMIObesityIII},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyBMI(tc.imc), "imc=%v", tc.imc)
	}
}

// Every positive BMI must land in exactly one of the six bands.
func TestClassifyBMI_BandsAreExhaustive(t *testing.T) {
	known := map[string]bool{
		BMIUnderweight:  true,
		BMINormalWeight: true,
		BMIOverweight:   true,
		BMIObesityI:     true,
		BMIObesityII:    true,
		BMIObesityIII:   true,
	}
	for imc := 0.1; imc < 80; imc += 0.1 {
		require.True(t, known[ClassifyBMI(imc)], "imc=%v produced unknown band", imc)
	}
}
