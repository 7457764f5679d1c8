package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearrange/gearrange/internal/gearing"
)

func newTestConfiguration(t *testing.T) Configuration {
	t.Helper()

	cfg, err := NewConfiguration("Road", gearing.Drivetrain{
		Chainrings: []int{34, 50},
		Cogs:       []int{11, 28},
		Wheel:      gearing.Wheel{DiameterMm: 700, TyreOffsetMm: 20},
	}, gearing.Cadence{LowRPM: 85, HighRPM: 95})
	require.NoError(t, err)
	return cfg
}

func TestNewConfiguration_Errors(t *testing.T) {
	_, err := NewConfiguration("x", gearing.Drivetrain{Chainrings: []int{34}, Cogs: []int{11}, Wheel: gearing.Wheel{DiameterMm: 700}}, gearing.Cadence{LowRPM: 90, HighRPM: 80})
	assert.ErrorIs(t, err, gearing.ErrInvalidCadence)

	_, err = NewConfiguration("x", gearing.Drivetrain{Cogs: []int{11}, Wheel: gearing.Wheel{DiameterMm: 700}}, gearing.Cadence{LowRPM: 90, HighRPM: 90})
	assert.ErrorIs(t, err, gearing.ErrEmptyInputSet)
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(newTestConfiguration(t))

	assert.Equal(t, "Road", table.Title)
	require.Len(t, table.Columns, 8)
	assert.Equal(t, "km/h @ 85 rpm", table.Columns[5].Label)
	assert.Equal(t, "speed_middle", table.Columns[6].Key)
	assert.Equal(t, "km/h @ 90 rpm", table.Columns[6].Label)
	assert.Equal(t, "km/h @ 95 rpm", table.Columns[7].Label)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, []string{"34", "11"}, table.Rows[0][:2])
	assert.Equal(t, "4.55", table.Rows[2][2])
	assert.Equal(t, []string{"36.6", "38.8", "41.0"}, table.Rows[0][5:])
	assert.Equal(t, "4 gears (4 distinct)", table.Summary.Label)
	assert.Equal(t, "374%", table.Summary.Values["ratio_spread"])
}

func TestBuildTable_WithoutSpeeds(t *testing.T) {
	cfg := newTestConfiguration(t)
	cfg.Speeds = nil

	table := BuildTable(cfg)
	assert.Len(t, table.Columns, 5)
	assert.Len(t, table.Rows[0], 5)
}

func TestBuildChart(t *testing.T) {
	chart := BuildChart(newTestConfiguration(t))
	require.NotNil(t, chart)

	require.Len(t, chart.Series, 2)
	assert.Equal(t, "34", chart.Series[0].Name)
	assert.Equal(t, "50", chart.Series[1].Name)
	require.Len(t, chart.Series[1].Points, 2)

	p := chart.Series[1].Points[0]
	assert.Equal(t, "50x11", p.Label)
	assert.Less(t, p.Low, p.Middle)
	assert.Less(t, p.Middle, p.High)
	assert.NotEqual(t, chart.Series[0].Points[0].Color, chart.Series[0].Points[1].Color)
	assert.Contains(t, p.Hover, "Chain Cog: 50")
	assert.GreaterOrEqual(t, chart.XMax, p.High)
}

func TestBuildChart_NoSpeeds(t *testing.T) {
	cfg := newTestConfiguration(t)
	cfg.Speeds = nil
	assert.Nil(t, BuildChart(cfg))
}

func TestWriteCSV(t *testing.T) {
	cfg := newTestConfiguration(t)
	other := newTestConfiguration(t)
	other.Name = "Gravel"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Configuration{cfg, other}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 9)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"Road", "34", "11"}, records[1][:3])
	assert.Equal(t, "Gravel", records[8][0])
	assert.Equal(t, "740.0000", records[1][12])
}

func TestWriteCSV_MismatchedSpeeds(t *testing.T) {
	cfg := newTestConfiguration(t)
	cfg.Speeds = cfg.Speeds[:1]
	assert.Error(t, WriteCSV(&bytes.Buffer{}, []Configuration{cfg}))
}
