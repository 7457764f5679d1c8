package gearing

// Cadence is a pedalling range in crank revolutions per minute.
// LowRPM == HighRPM describes a single cadence.
type Cadence struct {
	LowRPM  float64 `json:"low_rpm"`
	HighRPM float64 `json:"high_rpm"`
}

// MiddleRPM returns the midpoint of the range.
func (c Cadence) MiddleRPM() float64 {
	return c.LowRPM + (c.HighRPM-c.LowRPM)/2
}

func (c Cadence) validate() error {
	if !isFinite(c.LowRPM) || c.LowRPM <= 0 {
		return invalid(ErrInvalidCadence, "low_rpm", c.LowRPM)
	}
	if !isFinite(c.HighRPM) || c.HighRPM < c.LowRPM {
		return invalid(ErrInvalidCadence, "high_rpm", c.HighRPM)
	}
	return nil
}

// SpeedBand is the road speed of one gear across a cadence range, in km/h.
type SpeedBand struct {
	Chainring int     `json:"chainring"`
	Cog       int     `json:"cog"`
	LowRPM    float64 `json:"low_rpm"`
	MiddleRPM float64 `json:"middle_rpm"`
	HighRPM   float64 `json:"high_rpm"`
	LowKmh    float64 `json:"low_kmh"`
	MiddleKmh float64 `json:"middle_kmh"`
	HighKmh   float64 `json:"high_kmh"`
}

// SpeedKmh converts a development in meters at rpm into km/h.
func SpeedKmh(developmentM, rpm float64) float64 {
	return developmentM * rpm / 60 * 3.6
}

// Speeds returns one band per metric, in the order of metrics.
func Speeds(metrics []GearMetric, cadence Cadence) ([]SpeedBand, error) {
	if len(metrics) == 0 {
		return nil, invalid(ErrEmptyMetricSet, "metrics", nil)
	}
	if err := cadence.validate(); err != nil {
		return nil, err
	}

	middle := cadence.MiddleRPM()
	bands := make([]SpeedBand, 0, len(metrics))
	for _, m := range metrics {
		dev := m.DevelopmentM()
		if !isFinite(SpeedKmh(dev, cadence.HighRPM)) {
			return nil, invalid(ErrInvalidCadence, "high_rpm", cadence.HighRPM)
		}
		bands = append(bands, SpeedBand{
			Chainring: m.Chainring,
			Cog:       m.Cog,
			LowRPM:    cadence.LowRPM,
			MiddleRPM: middle,
			HighRPM:   cadence.HighRPM,
			LowKmh:    SpeedKmh(dev, cadence.LowRPM),
			MiddleKmh: SpeedKmh(dev, middle),
			HighKmh:   SpeedKmh(dev, cadence.HighRPM),
		})
	}
	return bands, nil
}
