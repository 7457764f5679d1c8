package gearing

import (
	"math"
	"slices"
)

// GearMetric is the derived result for one chainring/cog pair.
type GearMetric struct {
	Chainring     int     `json:"chainring"`
	Cog           int     `json:"cog"`
	Ratio         float64 `json:"ratio"`
	DevelopmentMm float64 `json:"development_mm"`
	GearInches    float64 `json:"gear_inches"`
}

// DevelopmentM returns the distance per crank revolution in meters.
func (m GearMetric) DevelopmentM() float64 {
	return m.DevelopmentMm / 1000.0
}

// ComputeGearMetrics returns one metric per chainring × cog pair, ordered by
// chainring and then cog, both ascending. Tooth counts are treated as sets:
// the inputs are copied, sorted and de-duplicated.
func ComputeGearMetrics(chainrings, cogs []int, circumferenceMm float64) ([]GearMetric, error) {
	rings, err := toothSet(chainrings, "chainrings")
	if err != nil {
		return nil, err
	}
	sprockets, err := toothSet(cogs, "cogs")
	if err != nil {
		return nil, err
	}
	if !isFinite(circumferenceMm) || circumferenceMm <= 0 {
		return nil, invalid(ErrInvalidGeometry, "circumference_mm", circumferenceMm)
	}

	diameterInches := circumferenceMm / math.Pi / mmPerInch

	metrics := make([]GearMetric, 0, len(rings)*len(sprockets))
	for _, ring := range rings {
		for _, cog := range sprockets {
			ratio := float64(ring) / float64(cog)
			m := GearMetric{
				Chainring:     ring,
				Cog:           cog,
				Ratio:         ratio,
				DevelopmentMm: ratio * circumferenceMm,
				GearInches:    ratio * diameterInches,
			}
			if !isFinite(m.DevelopmentMm) {
				return nil, invalid(ErrInvalidGeometry, "circumference_mm", circumferenceMm)
			}
			metrics = append(metrics, m)
		}
	}

	return metrics, nil
}

func toothSet(teeth []int, field string) ([]int, error) {
	if len(teeth) == 0 {
		return nil, invalid(ErrEmptyInputSet, field, nil)
	}
	for _, t := range teeth {
		if t <= 0 {
			return nil, invalid(ErrInvalidToothCount, field, t)
		}
	}

	set := slices.Clone(teeth)
	slices.Sort(set)
	return slices.Compact(set), nil
}
