package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gearrange/gearrange/internal/gearing"
	"github.com/gearrange/gearrange/internal/log"
	"github.com/gearrange/gearrange/internal/presets"
	"github.com/gearrange/gearrange/internal/report"
)

const maxRequestBytes = 1 << 20

var defaultCadence = gearing.Cadence{LowRPM: 85, HighRPM: 95}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// drivetrainRequest is one configuration in the JSON API. Explicit cogs take
// precedence over a cassette preset, an explicit wheel over a wheel preset.
type drivetrainRequest struct {
	Name        string          `json:"name" validate:"max=100"`
	Chainrings  []int           `json:"chainrings" validate:"max=32"`
	Cogs        []int           `json:"cogs" validate:"required_without=Cassette,max=32"`
	Cassette    string          `json:"cassette" validate:"required_without=Cogs,max=64"`
	Wheel       *wheelRequest   `json:"wheel" validate:"required_without=WheelPreset"`
	WheelPreset string          `json:"wheel_preset" validate:"required_without=Wheel,max=64"`
	Cadence     *cadenceRequest `json:"cadence"`
}

// wheelRequest and cadenceRequest cap magnitudes only; sign and ordering
// are checked by the engine.
type wheelRequest struct {
	DiameterMm   float64 `json:"diameter_mm" validate:"lte=10000"`
	TyreOffsetMm float64 `json:"tyre_offset_mm" validate:"lte=1000"`
}

type cadenceRequest struct {
	LowRPM  float64 `json:"low_rpm" validate:"lte=1000"`
	HighRPM float64 `json:"high_rpm" validate:"lte=1000"`
}

type compareRequest struct {
	Configurations []drivetrainRequest `json:"configurations" validate:"required,min=1,max=10,dive"`
}

type gearsResponse struct {
	Name    string              `json:"name"`
	Result  gearing.Result      `json:"result"`
	Speeds  []gearing.SpeedBand `json:"speeds"`
	Table   *report.TableData   `json:"table"`
	Chart   *report.ChartConfig `json:"chart,omitempty"`
	Cadence gearing.Cadence     `json:"cadence"`
}

type apiError struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	Field         string `json:"field,omitempty"`
	Value         any    `json:"value,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (s *server) handleAPIPresets(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.presets.Catalog(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, apiError{Error: "failed to load presets", Code: "internal"}, err)
		return
	}
	respondJSON(w, http.StatusOK, catalog)
}

func (s *server) handleAPIGears(w http.ResponseWriter, r *http.Request) {
	var req drivetrainRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	cfg, err := s.configuration(r, req, "Configuration 1")
	if err != nil {
		s.respondInputError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newGearsResponse(cfg))
}

func (s *server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	configs := make([]report.Configuration, 0, len(req.Configurations))
	for i, c := range req.Configurations {
		cfg, err := s.configuration(r, c, fmt.Sprintf("Configuration %d", i+1))
		if err != nil {
			s.respondInputError(w, r, fmt.Errorf("configurations[%d]: %w", i, err))
			return
		}
		configs = append(configs, cfg)
	}

	if wantsCSV(r) {
		writeCSV(w, configs)
		return
	}

	resp := make([]gearsResponse, 0, len(configs))
	for _, cfg := range configs {
		resp = append(resp, newGearsResponse(cfg))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *server) configuration(r *http.Request, req drivetrainRequest, fallbackName string) (report.Configuration, error) {
	ctx := r.Context()

	d := gearing.Drivetrain{Chainrings: req.Chainrings, Cogs: req.Cogs}
	if req.Cogs == nil {
		cassette, err := s.presets.Cassette(ctx, req.Cassette)
		if err != nil {
			return report.Configuration{}, err
		}
		d.Cogs = cassette.Cogs
	}

	if req.Wheel != nil {
		d.Wheel = gearing.Wheel{DiameterMm: req.Wheel.DiameterMm, TyreOffsetMm: req.Wheel.TyreOffsetMm}
	} else {
		wheel, err := s.presets.Wheel(ctx, req.WheelPreset)
		if err != nil {
			return report.Configuration{}, err
		}
		d.Wheel = wheel.Wheel()
	}

	cadence := defaultCadence
	if req.Cadence != nil {
		cadence = gearing.Cadence{LowRPM: req.Cadence.LowRPM, HighRPM: req.Cadence.HighRPM}
	}

	name := req.Name
	if name == "" {
		name = fallbackName
	}
	return report.NewConfiguration(name, d, cadence)
}

func newGearsResponse(cfg report.Configuration) gearsResponse {
	resp := gearsResponse{
		Name:   cfg.Name,
		Result: cfg.Result,
		Speeds: cfg.Speeds,
		Table:  report.BuildTable(cfg),
		Chart:  report.BuildChart(cfg),
	}
	if len(cfg.Speeds) > 0 {
		resp.Cadence = gearing.Cadence{LowRPM: cfg.Speeds[0].LowRPM, HighRPM: cfg.Speeds[0].HighRPM}
	}
	return resp
}

func (s *server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, apiError{Error: "invalid JSON body", Code: "invalid_request"}, err)
		return false
	}

	if err := validate.Struct(v); err != nil {
		body := apiError{Error: "invalid request", Code: "invalid_request"}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			body.Field = fieldPath(fe.Namespace())
			body.Error = fmt.Sprintf("%s failed %q validation", body.Field, fe.Tag())
		}
		s.respondError(w, r, http.StatusBadRequest, body, err)
		return false
	}
	return true
}

// respondInputError maps engine and preset errors to 422, anything else to 500.
func (s *server) respondInputError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, presets.ErrNotFound) {
		s.respondError(w, r, http.StatusUnprocessableEntity, apiError{Error: err.Error(), Code: "unknown_preset"}, err)
		return
	}

	var verr *gearing.ValidationError
	if errors.As(err, &verr) {
		s.respondError(w, r, http.StatusUnprocessableEntity, apiError{
			Error: err.Error(),
			Code:  errorCode(verr.Err),
			Field: verr.Field,
			Value: verr.Value,
		}, err)
		return
	}

	s.respondError(w, r, http.StatusInternalServerError, apiError{Error: "failed to calculate gears", Code: "internal"}, err)
}

func errorCode(kind error) string {
	switch {
	case errors.Is(kind, gearing.ErrInvalidGeometry):
		return "invalid_geometry"
	case errors.Is(kind, gearing.ErrEmptyInputSet):
		return "empty_input_set"
	case errors.Is(kind, gearing.ErrInvalidToothCount):
		return "invalid_tooth_count"
	case errors.Is(kind, gearing.ErrEmptyMetricSet):
		return "empty_metric_set"
	case errors.Is(kind, gearing.ErrInvalidCadence):
		return "invalid_cadence"
	default:
		return "invalid_input"
	}
}

func (s *server) respondError(w http.ResponseWriter, r *http.Request, status int, body apiError, err error) {
	body.CorrelationID = log.CorrelationID(r.Context())

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.FromContext(r.Context(), s.logger).Log(r.Context(), level, "API error response",
		"status_code", status,
		"code", body.Code,
		"path", r.URL.Path,
		"error", err,
	)

	respondJSON(w, status, body)
}

// respondJSON encodes into a buffer first; an encoding failure becomes a JSON 500.
func respondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response","code":"internal"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv" || strings.Contains(r.Header.Get("Accept"), "text/csv")
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
