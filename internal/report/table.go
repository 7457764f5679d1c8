package report

import (
	"fmt"

	"github.com/gearrange/gearrange/internal/gearing"
)

// BuildTable produces one row per gear. Speed columns are added when speeds is not empty.
func BuildTable(cfg Configuration) *TableData {
	columns := []Column{
		{Key: "chainring", Label: "Chainring", Align: "right"},
		{Key: "cog", Label: "Cog", Align: "right"},
		{Key: "ratio", Label: "Ratio", Align: "right"},
		{Key: "development_m", Label: "Development (m)", Align: "right"},
		{Key: "gear_inches", Label: "Gear inches", Align: "right"},
	}
	withSpeed := len(cfg.Speeds) == len(cfg.Result.Metrics) && len(cfg.Speeds) > 0
	if withSpeed {
		columns = append(columns,
			Column{Key: "speed_low", Label: fmt.Sprintf("km/h @ %.0f rpm", cfg.Speeds[0].LowRPM), Align: "right"},
			Column{Key: "speed_middle", Label: fmt.Sprintf("km/h @ %.0f rpm", cfg.Speeds[0].MiddleRPM), Align: "right"},
			Column{Key: "speed_high", Label: fmt.Sprintf("km/h @ %.0f rpm", cfg.Speeds[0].HighRPM), Align: "right"},
		)
	}

	rows := make([][]string, 0, len(cfg.Result.Metrics))
	for i, m := range cfg.Result.Metrics {
		row := []string{
			fmt.Sprintf("%d", m.Chainring),
			fmt.Sprintf("%d", m.Cog),
			fmt.Sprintf("%.2f", m.Ratio),
			fmt.Sprintf("%.2f", m.DevelopmentM()),
			fmt.Sprintf("%.1f", m.GearInches),
		}
		if withSpeed {
			row = append(row,
				fmt.Sprintf("%.1f", cfg.Speeds[i].LowKmh),
				fmt.Sprintf("%.1f", cfg.Speeds[i].MiddleKmh),
				fmt.Sprintf("%.1f", cfg.Speeds[i].HighKmh),
			)
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   cfg.Name,
		Columns: columns,
		Rows:    rows,
		Summary: buildSummary(cfg.Result.Summary),
	}
}

// SummaryKeys lists the summary values in display order.
var SummaryKeys = []string{
	"min_development_m",
	"max_development_m",
	"min_gear_inches",
	"max_gear_inches",
	"ratio_spread",
}

func buildSummary(s gearing.RangeSummary) *Summary {
	return &Summary{
		Label: fmt.Sprintf("%d gears (%d distinct)", s.Count, s.DistinctRatioCount),
		Values: map[string]string{
			"min_development_m": fmt.Sprintf("%.2f", s.MinDevelopmentMm/1000),
			"max_development_m": fmt.Sprintf("%.2f", s.MaxDevelopmentMm/1000),
			"min_gear_inches":   fmt.Sprintf("%.1f", s.MinGearInches),
			"max_gear_inches":   fmt.Sprintf("%.1f", s.MaxGearInches),
			"ratio_spread":      fmt.Sprintf("%.0f%%", s.RatioSpread*100),
		},
	}
}
