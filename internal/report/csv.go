package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{
	"configuration",
	"chain_cog",
	"casette_cog",
	"ratio",
	"unfolding_m",
	"gear_inches",
	"speed_lower",
	"speed_middle",
	"speed_upper",
	"rpm_lower",
	"rpm_middle",
	"rpm_upper",
	"tyre_diameter",
}

// CSVFilename is the suggested download name.
const CSVFilename = "gear-range-calculator-data.csv"

// WriteCSV writes one row per gear of every configuration.
func WriteCSV(w io.Writer, configs []Configuration) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, cfg := range configs {
		if len(cfg.Speeds) != len(cfg.Result.Metrics) {
			return fmt.Errorf("configuration %q: %d speed bands for %d gears", cfg.Name, len(cfg.Speeds), len(cfg.Result.Metrics))
		}
		tyreDiameter := cfg.Result.Drivetrain.Wheel.EffectiveDiameterMm()
		for i, m := range cfg.Result.Metrics {
			s := cfg.Speeds[i]
			row := []string{
				cfg.Name,
				strconv.Itoa(m.Chainring),
				strconv.Itoa(m.Cog),
				fmtFloat(m.Ratio),
				fmtFloat(m.DevelopmentM()),
				fmtFloat(m.GearInches),
				fmtFloat(s.LowKmh),
				fmtFloat(s.MiddleKmh),
				fmtFloat(s.HighKmh),
				fmtFloat(s.LowRPM),
				fmtFloat(s.MiddleRPM),
				fmtFloat(s.HighRPM),
				fmtFloat(tyreDiameter),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
