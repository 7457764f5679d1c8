package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gearrange/gearrange/internal/gearing"
	"github.com/gearrange/gearrange/internal/presets"
)

const (
	customOption      = "custom"
	maxConfigurations = 10
)

// calcForm holds the raw form values so the page can be re-rendered as typed.
type calcForm struct {
	Name       string
	Chainrings string
	Cassette   string
	Cogs       string
	Wheel      string
	Diameter   string
	TyreOffset string
	RPMLow     string
	RPMHigh    string
}

func defaultCalcForm() calcForm {
	return calcForm{
		Name:       configurationName(0),
		Chainrings: "40",
		Cassette:   customOption,
		Cogs:       "10, 11, 12, 13, 14, 15, 17, 19, 22, 26, 32, 38, 44",
		Wheel:      customOption,
		Diameter:   "700",
		TyreOffset: "20",
		RPMLow:     "85",
		RPMHigh:    "95",
	}
}

// calcFormFields lists the query keys of one configuration. A page with
// several configurations repeats every key once per configuration, in order.
var calcFormFields = []string{"name", "chainrings", "cassette", "cogs", "wheel", "diameter", "tyre_offset", "rpm_low", "rpm_high"}

// calcFormsFromValues splits repeated form keys into one calcForm per configuration.
func calcFormsFromValues(values url.Values) ([]calcForm, error) {
	n := 1
	for _, key := range calcFormFields {
		n = max(n, len(values[key]))
	}
	if n > maxConfigurations {
		return nil, &formError{Field: "configurations", Message: fmt.Sprintf("at most %d can be compared, got %d", maxConfigurations, n)}
	}

	forms := make([]calcForm, n)
	for i := range forms {
		at := func(key string) string {
			if vs := values[key]; i < len(vs) {
				return strings.TrimSpace(vs[i])
			}
			return ""
		}
		form := calcForm{
			Name:       at("name"),
			Chainrings: at("chainrings"),
			Cassette:   at("cassette"),
			Cogs:       at("cogs"),
			Wheel:      at("wheel"),
			Diameter:   at("diameter"),
			TyreOffset: at("tyre_offset"),
			RPMLow:     at("rpm_low"),
			RPMHigh:    at("rpm_high"),
		}
		if form.Name == "" {
			form.Name = configurationName(i)
		}
		if form.Cassette == "" {
			form.Cassette = customOption
		}
		if form.Wheel == "" {
			form.Wheel = customOption
		}
		if form.RPMHigh == "" {
			form.RPMHigh = form.RPMLow
		}
		forms[i] = form
	}
	return forms, nil
}

// applyFormActions handles the add and remove buttons of the page.
// add appends a copy of the last configuration; remove=i drops configuration i.
func applyFormActions(forms []calcForm, values url.Values) []calcForm {
	if raw := values.Get("remove"); raw != "" && len(forms) > 1 {
		if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(forms) {
			forms = slices.Delete(slices.Clone(forms), i, i+1)
		}
	}
	if values.Get("add") != "" && len(forms) < maxConfigurations {
		next := forms[len(forms)-1]
		next.Name = configurationName(len(forms))
		forms = append(slices.Clone(forms), next)
	}
	return forms
}

func configurationName(i int) string {
	return fmt.Sprintf("Configuration %d", i+1)
}

// encodeForms is the inverse of calcFormsFromValues.
func encodeForms(forms []calcForm) url.Values {
	v := url.Values{}
	for _, f := range forms {
		v.Add("name", f.Name)
		v.Add("chainrings", f.Chainrings)
		v.Add("cassette", f.Cassette)
		v.Add("cogs", f.Cogs)
		v.Add("wheel", f.Wheel)
		v.Add("diameter", f.Diameter)
		v.Add("tyre_offset", f.TyreOffset)
		v.Add("rpm_low", f.RPMLow)
		v.Add("rpm_high", f.RPMHigh)
	}
	return v
}

// drivetrain resolves presets and parses numbers. Range checks are left to the engine.
func (f calcForm) drivetrain(ctx context.Context, source presetSource) (gearing.Drivetrain, gearing.Cadence, error) {
	var (
		d       gearing.Drivetrain
		cadence gearing.Cadence
		err     error
	)

	if d.Chainrings, err = parseToothList(f.Chainrings, "chainrings"); err != nil {
		return d, cadence, err
	}

	if f.Cassette == customOption {
		if d.Cogs, err = parseToothList(f.Cogs, "cogs"); err != nil {
			return d, cadence, err
		}
	} else {
		cassette, err := source.Cassette(ctx, f.Cassette)
		if err != nil {
			return d, cadence, presetError("cassette", f.Cassette, err)
		}
		d.Cogs = cassette.Cogs
	}

	if f.Wheel == customOption {
		if d.Wheel.DiameterMm, err = parseFloat(f.Diameter, "diameter"); err != nil {
			return d, cadence, err
		}
		if d.Wheel.TyreOffsetMm, err = parseFloat(f.TyreOffset, "tyre_offset"); err != nil {
			return d, cadence, err
		}
	} else {
		wheel, err := source.Wheel(ctx, f.Wheel)
		if err != nil {
			return d, cadence, presetError("wheel", f.Wheel, err)
		}
		d.Wheel = wheel.Wheel()
	}

	if cadence.LowRPM, err = parseFloat(f.RPMLow, "rpm_low"); err != nil {
		return d, cadence, err
	}
	if cadence.HighRPM, err = parseFloat(f.RPMHigh, "rpm_high"); err != nil {
		return d, cadence, err
	}

	return d, cadence, nil
}

// formError is a malformed input value, reported next to the form.
type formError struct {
	Field   string
	Message string
}

func (e *formError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// configurationError ties an input error to the configuration that caused it.
type configurationError struct {
	Name string
	Err  error
}

func (e *configurationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *configurationError) Unwrap() error {
	return e.Err
}

func parseToothList(raw, field string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';' || r == '\t'
	})

	teeth := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &formError{Field: field, Message: fmt.Sprintf("must be a list of whole numbers, got %q", f)}
		}
		teeth = append(teeth, n)
	}
	return teeth, nil
}

func parseFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &formError{Field: field, Message: "must be numeric"}
	}
	return value, nil
}

func presetError(field, slug string, err error) error {
	if errors.Is(err, presets.ErrNotFound) {
		return &formError{Field: field, Message: fmt.Sprintf("preset %q does not exist", slug)}
	}
	return err
}

// userMessage turns an input error into the inline message shown to the user.
// ok is false for errors that are not caused by user input.
func userMessage(err error) (msg string, ok bool) {
	var cerr *configurationError
	if errors.As(err, &cerr) {
		if msg, ok = userMessage(cerr.Err); ok {
			return cerr.Name + ": " + msg, true
		}
		return "", false
	}

	var ferr *formError
	if errors.As(err, &ferr) {
		return ferr.Error(), true
	}

	var verr *gearing.ValidationError
	if !errors.As(err, &verr) {
		return "", false
	}

	switch {
	case errors.Is(err, gearing.ErrEmptyInputSet):
		return fmt.Sprintf("%s: enter at least one tooth count", verr.Field), true
	case errors.Is(err, gearing.ErrInvalidToothCount):
		return fmt.Sprintf("%s: tooth counts must be positive, got %v", verr.Field, verr.Value), true
	case errors.Is(err, gearing.ErrInvalidGeometry):
		return fmt.Sprintf("%s: diameter must be positive and tyre offset not negative, got %v", verr.Field, verr.Value), true
	case errors.Is(err, gearing.ErrInvalidCadence):
		return fmt.Sprintf("%s: cadence must be positive with the upper bound not below the lower, got %v", verr.Field, verr.Value), true
	default:
		return verr.Error(), true
	}
}
