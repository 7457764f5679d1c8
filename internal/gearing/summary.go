package gearing

import (
	"math"
	"slices"
)

// RatioTolerance is the relative difference under which two ratios count as
// the same logical gear, e.g. 34/15 and 68/30.
const RatioTolerance = 1e-6

// RangeSummary aggregates all metrics of one drivetrain.
type RangeSummary struct {
	Count              int     `json:"count"`
	DistinctRatioCount int     `json:"distinct_ratio_count"`
	MinDevelopmentMm   float64 `json:"min_development_mm"`
	MaxDevelopmentMm   float64 `json:"max_development_mm"`
	MinRatio           float64 `json:"min_ratio"`
	MaxRatio           float64 `json:"max_ratio"`
	MinGearInches      float64 `json:"min_gear_inches"`
	MaxGearInches      float64 `json:"max_gear_inches"`
	RatioSpread        float64 `json:"ratio_spread"`
}

// Summarize computes the range statistics of metrics.
func Summarize(metrics []GearMetric) (RangeSummary, error) {
	if len(metrics) == 0 {
		return RangeSummary{}, invalid(ErrEmptyMetricSet, "metrics", nil)
	}

	first := metrics[0]
	s := RangeSummary{
		Count:            len(metrics),
		MinDevelopmentMm: first.DevelopmentMm,
		MaxDevelopmentMm: first.DevelopmentMm,
		MinRatio:         first.Ratio,
		MaxRatio:         first.Ratio,
		MinGearInches:    first.GearInches,
		MaxGearInches:    first.GearInches,
	}

	ratios := make([]float64, 0, len(metrics))
	for _, m := range metrics {
		s.MinDevelopmentMm = math.Min(s.MinDevelopmentMm, m.DevelopmentMm)
		s.MaxDevelopmentMm = math.Max(s.MaxDevelopmentMm, m.DevelopmentMm)
		s.MinRatio = math.Min(s.MinRatio, m.Ratio)
		s.MaxRatio = math.Max(s.MaxRatio, m.Ratio)
		s.MinGearInches = math.Min(s.MinGearInches, m.GearInches)
		s.MaxGearInches = math.Max(s.MaxGearInches, m.GearInches)
		ratios = append(ratios, m.Ratio)
	}

	s.RatioSpread = s.MaxDevelopmentMm / s.MinDevelopmentMm
	s.DistinctRatioCount = countDistinct(ratios)

	return s, nil
}

func countDistinct(ratios []float64) int {
	slices.Sort(ratios)

	count := 1
	prev := ratios[0]
	for _, r := range ratios[1:] {
		if r-prev > RatioTolerance*prev {
			count++
			prev = r
		}
	}
	return count
}
