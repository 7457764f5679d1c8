package report

import (
	"fmt"
	"math"
	"strconv"
)

// Bar colors alternate between neighbouring gears.
var gearColors = [2]string{"rgba(0,102,153,0.7)", "rgba(204,102,153,0.7)"}

const (
	chartMinKmh = 5
	chartMaxKmh = 60
)

// BuildChart produces the gear range chart: one series per chainring, one
// speed bar per cog. It returns nil when there are no speed bands.
func BuildChart(cfg Configuration) *ChartConfig {
	if len(cfg.Speeds) == 0 || len(cfg.Speeds) != len(cfg.Result.Metrics) {
		return nil
	}

	chart := &ChartConfig{
		ChartType: "range",
		Title:     fmt.Sprintf("Gear Range for %s", cfg.Name),
		XAxis:     "Speed in km/h",
		YAxis:     "Chain Cog",
		XMin:      chartMinKmh,
		XMax:      chartMaxKmh,
	}

	for i, band := range cfg.Speeds {
		m := cfg.Result.Metrics[i]
		name := strconv.Itoa(band.Chainring)
		if n := len(chart.Series); n == 0 || chart.Series[n-1].Name != name {
			chart.Series = append(chart.Series, ChartSeries{Name: name})
		}

		series := &chart.Series[len(chart.Series)-1]
		series.Points = append(series.Points, RangePoint{
			Label:  fmt.Sprintf("%dx%d", band.Chainring, band.Cog),
			Low:    band.LowKmh,
			Middle: band.MiddleKmh,
			High:   band.HighKmh,
			Color:  gearColors[i%2],
			Hover: fmt.Sprintf("Speed: %.1f-%.1f km/h<br>RPM: %.0f-%.0f<br>Chain Cog: %d<br>Cassette Cog: %d<br>Ratio: %.2f<br>Unfolding: %.2f m",
				band.LowKmh, band.HighKmh, band.LowRPM, band.HighRPM, band.Chainring, band.Cog, m.Ratio, m.DevelopmentM()),
		})

		chart.XMax = math.Max(chart.XMax, math.Ceil(band.HighKmh/5)*5)
	}

	return chart
}
