package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearrange/gearrange/internal/gearing"
)

func TestBuiltinIsValid(t *testing.T) {
	c := Builtin()
	require.NoError(t, c.Validate())

	eagle, ok := c.Cassette("sram-eagle-10-50")
	require.True(t, ok)
	assert.Equal(t, 12, eagle.Speeds())
	assert.Equal(t, "10-50", eagle.Range())

	wheel, ok := c.Wheel("700-rim")
	require.True(t, ok)
	assert.Equal(t, gearing.Wheel{DiameterMm: 700, TyreOffsetMm: 20}, wheel.Wheel())

	_, ok = c.Cassette("missing")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	data := []byte(`
cassettes:
  - slug: campy-12-11-32
    name: Campagnolo 11-32 (12s)
    cogs: [11, 12, 13, 14, 15, 16, 17, 19, 21, 24, 27, 32]
wheels:
  - slug: 20-bmx
    name: 20" BMX
    diameter_mm: 406
    tyre_offset_mm: 45
`)

	c, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, c.Cassettes, 1)
	require.Len(t, c.Wheels, 1)
	assert.Equal(t, 12, c.Cassettes[0].Speeds())
	assert.Equal(t, 406.0, c.Wheels[0].DiameterMm)
}

func TestParse_RejectsInvalidPresets(t *testing.T) {
	tests := map[string]string{
		"empty cogs":      "cassettes:\n  - {slug: a, name: A, cogs: []}\n",
		"zero cog":        "cassettes:\n  - {slug: a, name: A, cogs: [0, 11]}\n",
		"missing name":    "cassettes:\n  - {slug: a, cogs: [11]}\n",
		"duplicate slug":  "cassettes:\n  - {slug: a, name: A, cogs: [11]}\n  - {slug: a, name: B, cogs: [12]}\n",
		"negative offset": "wheels:\n  - {slug: w, name: W, diameter_mm: 622, tyre_offset_mm: -1}\n",
		"bad yaml":        "cassettes: [",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParse_WheelErrorKeepsKind(t *testing.T) {
	_, err := Parse([]byte("wheels:\n  - {slug: w, name: W, diameter_mm: 0, tyre_offset_mm: 1}\n"))
	assert.ErrorIs(t, err, gearing.ErrInvalidGeometry)
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("")
	require.NoError(t, err)
	assert.Empty(t, c.Cassettes)

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cassettes:\n  - {slug: one, name: One, cogs: [16]}\n"), 0o600))

	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []int{16}, c.Cassettes[0].Cogs)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := Catalog{Cassettes: []Cassette{{Slug: "a", Name: "A", Cogs: []int{11}}}}
	other := Catalog{
		Cassettes: []Cassette{{Slug: "a", Name: "A2", Cogs: []int{12}}, {Slug: "b", Name: "B", Cogs: []int{13}}},
		Wheels:    []WheelSize{{Slug: "w", Name: "W", DiameterMm: 622}},
	}

	merged := base.Merge(other)
	require.Len(t, merged.Cassettes, 2)
	assert.Equal(t, "A2", merged.Cassettes[0].Name)
	assert.Len(t, merged.Wheels, 1)
	assert.Equal(t, "A", base.Cassettes[0].Name, "receiver must not change")
}

func TestEncodeDecodeCogs(t *testing.T) {
	assert.Equal(t, "11,13,15", EncodeCogs([]int{11, 13, 15}))

	cogs, err := decodeCogs(" 11, 13 ,15,")
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 15}, cogs)

	_, err = decodeCogs("11,x")
	assert.Error(t, err)
}
