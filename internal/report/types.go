// Package report turns engine results into render-ready tables, chart data and CSV.
package report

import "github.com/gearrange/gearrange/internal/gearing"

// Configuration is one named drivetrain with its computed result and speed bands.
type Configuration struct {
	Name   string              `json:"name"`
	Result gearing.Result      `json:"result"`
	Speeds []gearing.SpeedBand `json:"speeds"`
}

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Align string `json:"align"`
}

// Summary holds the headline numbers shown under a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ChartConfig describes the gear range chart: speed on the x axis, one row per chainring.
type ChartConfig struct {
	ChartType string        `json:"chartType"`
	Title     string        `json:"title"`
	XAxis     string        `json:"xAxis"`
	YAxis     string        `json:"yAxis"`
	XMin      float64       `json:"xMin"`
	XMax      float64       `json:"xMax"`
	Series    []ChartSeries `json:"series"`
}

// ChartSeries is all gears on one chainring.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []RangePoint `json:"points"`
}

// RangePoint is one gear drawn as a bar from Low to High.
type RangePoint struct {
	Label  string  `json:"label"`
	Low    float64 `json:"low"`
	Middle float64 `json:"middle"`
	High   float64 `json:"high"`
	Color  string  `json:"color"`
	Hover  string  `json:"hover"`
}

// NewConfiguration computes d and its speeds over cadence.
func NewConfiguration(name string, d gearing.Drivetrain, cadence gearing.Cadence) (Configuration, error) {
	result, err := gearing.Calculate(d)
	if err != nil {
		return Configuration{}, err
	}

	speeds, err := gearing.Speeds(result.Metrics, cadence)
	if err != nil {
		return Configuration{}, err
	}

	return Configuration{Name: name, Result: result, Speeds: speeds}, nil
}
