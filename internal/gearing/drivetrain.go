// Package gearing computes gear ratios, development and gear-inches for a
// bicycle drivetrain. Every function is pure: inputs are never mutated and
// each call returns freshly allocated results, so callers may share nothing
// and run concurrently without locking.
package gearing

import "slices"

// Drivetrain is a complete configuration: front chainrings, rear cassette and wheel.
type Drivetrain struct {
	Chainrings []int `json:"chainrings"`
	Cogs       []int `json:"cogs"`
	Wheel      Wheel `json:"wheel"`
}

// Result is the full computation for one Drivetrain.
type Result struct {
	Drivetrain      Drivetrain   `json:"drivetrain"`
	CircumferenceMm float64      `json:"circumference_mm"`
	Metrics         []GearMetric `json:"metrics"`
	Summary         RangeSummary `json:"summary"`
}

// Calculate runs the circumference, metrics and summary steps in order.
func Calculate(d Drivetrain) (Result, error) {
	circumference, err := d.Wheel.Circumference()
	if err != nil {
		return Result{}, err
	}

	metrics, err := ComputeGearMetrics(d.Chainrings, d.Cogs, circumference)
	if err != nil {
		return Result{}, err
	}

	summary, err := Summarize(metrics)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Drivetrain:      Drivetrain{Chainrings: slices.Clone(d.Chainrings), Cogs: slices.Clone(d.Cogs), Wheel: d.Wheel},
		CircumferenceMm: circumference,
		Metrics:         metrics,
		Summary:         summary,
	}, nil
}
