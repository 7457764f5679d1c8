package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCommand_Table(t *testing.T) {
	out, err := runCLI(t, "calc", "--name", "Road", "--chainrings", "50,34", "--cassette", "shimano-105-11-28", "--rpm", "80,100")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Road", lines[0])
	assert.Contains(t, lines[1], "Chainring")
	assert.Contains(t, lines[1], "km/h @ 100 rpm")
	assert.Contains(t, out, "22 gears (21 distinct)")
	assert.Contains(t, out, "ratio_spread")
}

func TestCalcCommand_CSV(t *testing.T) {
	out, err := runCLI(t, "calc", "--chainrings", "40", "--cogs", "20,10", "--rpm", "90", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Configuration 1,40,10,4.0000,"))
	assert.True(t, strings.HasPrefix(lines[2], "Configuration 1,40,20,2.0000,"))
}

func TestCalcCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "calc", "--chainrings", "40", "--cogs", "20", "--wheel", "700c-28", "--format", "json")
	require.NoError(t, err)

	var resp gearsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 622.0, resp.Result.Drivetrain.Wheel.DiameterMm)
	assert.Equal(t, 85.0, resp.Cadence.LowRPM)
}

func TestCalcCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown cassette", []string{"calc", "--cassette", "nope"}, "unknown cassette preset"},
		{"no cogs", []string{"calc", "--chainrings", "40"}, "cogs"},
		{"bad format", []string{"calc", "--cogs", "20", "--format", "xml"}, "unknown format"},
		{"too many rpm values", []string{"calc", "--cogs", "20", "--rpm", "80,90,100"}, "one or two values"},
		{"zero diameter", []string{"calc", "--cogs", "20", "--diameter", "0"}, "diameter_mm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPresetsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cassettes:
  - slug: track-15
    name: Track 15
    cogs: [15]
`), 0o644))

	out, err := runCLI(t, "presets", "--presets-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sram-eagle-10-50")
	assert.Contains(t, out, "10-50")
	assert.Contains(t, out, "track-15")
	assert.Contains(t, out, "650b-47")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gearrange version dev")
}
