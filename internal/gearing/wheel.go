package gearing

import "math"

const mmPerInch = 25.4

// Wheel is a rim diameter plus the height the tyre adds on each side.
type Wheel struct {
	DiameterMm   float64 `json:"diameter_mm"`
	TyreOffsetMm float64 `json:"tyre_offset_mm"`
}

// EffectiveDiameterMm returns the rolling diameter including the tyre.
func (w Wheel) EffectiveDiameterMm() float64 {
	return w.DiameterMm + 2*w.TyreOffsetMm
}

// Circumference validates the wheel and returns its rolling circumference in millimeters.
func (w Wheel) Circumference() (float64, error) {
	return WheelCircumference(w.DiameterMm, w.TyreOffsetMm)
}

// WheelCircumference returns π × (diameterMm + 2 × tyreOffsetMm).
func WheelCircumference(diameterMm, tyreOffsetMm float64) (float64, error) {
	if !isFinite(diameterMm) || diameterMm <= 0 {
		return 0, invalid(ErrInvalidGeometry, "diameter_mm", diameterMm)
	}
	if !isFinite(tyreOffsetMm) || tyreOffsetMm < 0 {
		return 0, invalid(ErrInvalidGeometry, "tyre_offset_mm", tyreOffsetMm)
	}

	circumference := math.Pi * (diameterMm + 2*tyreOffsetMm)
	if !isFinite(circumference) {
		return 0, invalid(ErrInvalidGeometry, "diameter_mm", diameterMm)
	}
	return circumference, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
