package main

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearrange/gearrange/internal/gearing"
	"github.com/gearrange/gearrange/internal/presets"
)

// catalogSource serves presets from an in-memory catalog.
type catalogSource struct {
	catalog presets.Catalog
}

func (c catalogSource) Catalog(context.Context) (presets.Catalog, error) {
	return c.catalog, nil
}

func (c catalogSource) Cassette(_ context.Context, slug string) (presets.Cassette, error) {
	if cs, ok := c.catalog.Cassette(slug); ok {
		return cs, nil
	}
	return presets.Cassette{}, presets.ErrNotFound
}

func (c catalogSource) Wheel(_ context.Context, slug string) (presets.WheelSize, error) {
	if w, ok := c.catalog.Wheel(slug); ok {
		return w, nil
	}
	return presets.WheelSize{}, presets.ErrNotFound
}

func TestCalcFormsFromValues_Defaults(t *testing.T) {
	values := url.Values{}
	values.Set("chainrings", " 50, 34 ")
	values.Set("rpm_low", "90")

	forms, err := calcFormsFromValues(values)
	require.NoError(t, err)
	require.Len(t, forms, 1)

	form := forms[0]
	assert.Equal(t, "Configuration 1", form.Name)
	assert.Equal(t, "50, 34", form.Chainrings)
	assert.Equal(t, customOption, form.Cassette)
	assert.Equal(t, customOption, form.Wheel)
	assert.Equal(t, "90", form.RPMHigh, "a single cadence fills both bounds")
}

func TestCalcFormsFromValues_RepeatedGroups(t *testing.T) {
	values := url.Values{
		"name":       {"Road", ""},
		"chainrings": {"50,34", "40"},
		"cassette":   {"shimano-105-11-28", "custom"},
		"cogs":       {"", "10,12,14"},
		"rpm_low":    {"80", "70"},
		"rpm_high":   {"100"},
	}

	forms, err := calcFormsFromValues(values)
	require.NoError(t, err)
	require.Len(t, forms, 2)

	assert.Equal(t, "Road", forms[0].Name)
	assert.Equal(t, "shimano-105-11-28", forms[0].Cassette)
	assert.Equal(t, "100", forms[0].RPMHigh)

	assert.Equal(t, "Configuration 2", forms[1].Name)
	assert.Equal(t, "10,12,14", forms[1].Cogs)
	assert.Equal(t, customOption, forms[1].Wheel)
	assert.Equal(t, "70", forms[1].RPMHigh)
}

func TestCalcFormsFromValues_TooMany(t *testing.T) {
	values := url.Values{}
	for i := 0; i <= maxConfigurations; i++ {
		values.Add("chainrings", "40")
	}

	_, err := calcFormsFromValues(values)
	var ferr *formError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "configurations", ferr.Field)
}

func TestEncodeForms_RoundTrip(t *testing.T) {
	second := defaultCalcForm()
	second.Name = "Gravel"
	second.Cassette = "sram-eagle-10-50"
	forms := []calcForm{defaultCalcForm(), second}

	decoded, err := calcFormsFromValues(encodeForms(forms))
	require.NoError(t, err)
	assert.Equal(t, forms, decoded)
}

func TestApplyFormActions(t *testing.T) {
	first := defaultCalcForm()
	second := defaultCalcForm()
	second.Name = "Gravel"
	second.Chainrings = "38"
	forms := []calcForm{first, second}

	added := applyFormActions(forms, url.Values{"add": {"1"}})
	require.Len(t, added, 3)
	assert.Equal(t, "Configuration 3", added[2].Name)
	assert.Equal(t, "38", added[2].Chainrings, "add copies the last configuration")
	assert.Len(t, forms, 2, "input is not modified")

	removed := applyFormActions(forms, url.Values{"remove": {"0"}})
	require.Len(t, removed, 1)
	assert.Equal(t, "Gravel", removed[0].Name)
	assert.Equal(t, "Configuration 1", forms[0].Name)

	assert.Len(t, applyFormActions(forms[:1], url.Values{"remove": {"0"}}), 1, "the last configuration stays")
	assert.Len(t, applyFormActions(forms, url.Values{"remove": {"7"}}), 2)

	full := make([]calcForm, maxConfigurations)
	assert.Len(t, applyFormActions(full, url.Values{"add": {"1"}}), maxConfigurations)
}

func TestCalcForm_Drivetrain(t *testing.T) {
	form := defaultCalcForm()

	d, cadence, err := form.drivetrain(context.Background(), catalogSource{})
	require.NoError(t, err)
	assert.Equal(t, []int{40}, d.Chainrings)
	assert.Len(t, d.Cogs, 13)
	assert.Equal(t, gearing.Wheel{DiameterMm: 700, TyreOffsetMm: 20}, d.Wheel)
	assert.Equal(t, gearing.Cadence{LowRPM: 85, HighRPM: 95}, cadence)
}

func TestCalcForm_DrivetrainFromPresets(t *testing.T) {
	form := defaultCalcForm()
	form.Cassette = "sram-eagle-10-50"
	form.Cogs = "garbage"
	form.Wheel = "650b-47"
	form.Diameter = "garbage"

	d, _, err := form.drivetrain(context.Background(), catalogSource{catalog: presets.Builtin()})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 12, 14, 16, 18, 21, 24, 28, 32, 36, 42, 50}, d.Cogs)
	assert.Equal(t, gearing.Wheel{DiameterMm: 584, TyreOffsetMm: 47}, d.Wheel)
}

func TestCalcForm_DrivetrainErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*calcForm)
		field  string
	}{
		{"chainrings", func(f *calcForm) { f.Chainrings = "50/34" }, "chainrings"},
		{"cogs", func(f *calcForm) { f.Cogs = "11, x" }, "cogs"},
		{"diameter", func(f *calcForm) { f.Diameter = "" }, "diameter"},
		{"tyre offset", func(f *calcForm) { f.TyreOffset = "wide" }, "tyre_offset"},
		{"rpm", func(f *calcForm) { f.RPMHigh = "fast" }, "rpm_high"},
		{"cassette preset", func(f *calcForm) { f.Cassette = "missing" }, "cassette"},
		{"wheel preset", func(f *calcForm) { f.Wheel = "missing" }, "wheel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := defaultCalcForm()
			tt.mutate(&form)

			_, _, err := form.drivetrain(context.Background(), catalogSource{})
			var ferr *formError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.field, ferr.Field)
		})
	}
}

func TestParseToothList(t *testing.T) {
	teeth, err := parseToothList("11,13; 15\t17  19", "cogs")
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 15, 17, 19}, teeth)

	teeth, err = parseToothList("", "cogs")
	require.NoError(t, err)
	assert.Empty(t, teeth)
}

func TestUserMessage(t *testing.T) {
	_, err := gearing.Calculate(gearing.Drivetrain{Chainrings: []int{40}, Wheel: gearing.Wheel{DiameterMm: 700}})
	msg, ok := userMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "cogs: enter at least one tooth count", msg)

	msg, ok = userMessage(&configurationError{Name: "Gravel", Err: err})
	assert.True(t, ok)
	assert.Equal(t, "Gravel: cogs: enter at least one tooth count", msg)

	_, ok = userMessage(errors.New("disk on fire"))
	assert.False(t, ok)

	_, ok = userMessage(&configurationError{Name: "Gravel", Err: errors.New("disk on fire")})
	assert.False(t, ok)
}
