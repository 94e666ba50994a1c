package models

import (
	"errors"
)

// ErrInvalidBMIInput is returned when weight or height is not positive.
var ErrInvalidBMIInput = errors.New("weight and height must be positive")

// BMI classification bands, half-open at 18.5 / 25.0 / 30.0 / 35.0 / 40.0.
const (
	BMIUnderweight  = "Underweight"
	BMINormalWeight = "Normal weight"
	BMIOverweight   = "Overweight"
	BMIObesityI     = "Obesity grade I"
	BMIObesityII    = "Obesity grade II"
	BMIObesityIII   = "Obesity grade III"
)

// BMI computes the body mass index from weight in kilograms and height in
// centimeters. Non-positive inputs are rejected rather than producing a
// nonsensical value.
func BMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, ErrInvalidBMIInput
	}
	heightM := heightCm / 100.0
	return weightKg / (heightM * heightM), nil
}

// ClassifyBMI maps a BMI value to its nutritional classification. The lower
// boundary of each band is inclusive: exactly 18.5 is "Normal weight",
// exactly 40.0 is "Obesity grade III".
func ClassifyBMI(imc float64) string {
	switch {
	case imc < 18.5:
		return BMIUnderweight
	case imc < 25.0:
		return BMINormalWeight
	case imc < 30.0:
		return BMIOverweight
	case imc < 35.0:
		return BMIObesityI
	case imc < 40.0:
		return BMIObesityII
	default:
		return BMIObesityIII
	}
}
