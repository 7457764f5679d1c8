package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gearrange/gearrange/internal/gearing"
	"github.com/gearrange/gearrange/internal/log"
	"github.com/gearrange/gearrange/internal/presets"
	"github.com/gearrange/gearrange/internal/report"
)

type calcViewData struct {
	baseViewData
	Forms     []calcForm
	Catalog   presets.Catalog
	Results   []configurationView
	ExportURL string
}

// configurationView is the rendered result of one configuration.
type configurationView struct {
	Table     *report.TableData
	Summary   gearing.RangeSummary
	ChartJSON string
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.presets.Catalog(r.Context())
	if err != nil {
		s.logger.Error("load preset catalog", "error", err)
		http.Error(w, "failed to load presets", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "home.html", http.StatusOK, calcViewData{
		Forms:   []calcForm{defaultCalcForm()},
		Catalog: catalog,
	})
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.presets.Catalog(r.Context())
	if err != nil {
		s.logger.Error("load preset catalog", "error", err)
		http.Error(w, "failed to load presets", http.StatusInternalServerError)
		return
	}

	view := calcViewData{Catalog: catalog}
	values := r.URL.Query()

	forms, err := calcFormsFromValues(values)
	if err == nil {
		forms = applyFormActions(forms, values)
		view.Forms = forms
		var configs []report.Configuration
		if configs, err = s.computeForms(r, forms); err == nil {
			view.Results, err = buildResults(configs)
		}
	}

	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			log.FromContext(r.Context(), s.logger).Error("calculate gears", "error", err)
			http.Error(w, "failed to calculate gears", http.StatusInternalServerError)
			return
		}
		log.FromContext(r.Context(), s.logger).Debug("invalid drivetrain input", "error", err)
		if len(view.Forms) == 0 {
			view.Forms = []calcForm{defaultCalcForm()}
		}
		view.Results = nil
		view.ErrorMessage = msg
		s.renderTemplate(w, "home.html", http.StatusBadRequest, view)
		return
	}

	view.ExportURL = "/export.csv?" + encodeForms(forms).Encode()
	s.renderTemplate(w, "home.html", http.StatusOK, view)
}

func buildResults(configs []report.Configuration) ([]configurationView, error) {
	results := make([]configurationView, 0, len(configs))
	for _, cfg := range configs {
		chartJSON, err := json.Marshal(report.BuildChart(cfg))
		if err != nil {
			return nil, fmt.Errorf("encode chart for %q: %w", cfg.Name, err)
		}
		results = append(results, configurationView{
			Table:     report.BuildTable(cfg),
			Summary:   cfg.Result.Summary,
			ChartJSON: string(chartJSON),
		})
	}
	return results, nil
}

func (s *server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	forms, err := calcFormsFromValues(r.URL.Query())
	var configs []report.Configuration
	if err == nil {
		configs, err = s.computeForms(r, forms)
	}
	if err != nil {
		if msg, ok := userMessage(err); ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		log.FromContext(r.Context(), s.logger).Error("calculate gears", "error", err)
		http.Error(w, "failed to calculate gears", http.StatusInternalServerError)
		return
	}

	writeCSV(w, configs)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *server) computeForms(r *http.Request, forms []calcForm) ([]report.Configuration, error) {
	configs := make([]report.Configuration, 0, len(forms))
	for _, form := range forms {
		cfg, err := s.computeForm(r, form)
		if err != nil {
			if len(forms) > 1 {
				return nil, &configurationError{Name: form.Name, Err: err}
			}
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (s *server) computeForm(r *http.Request, form calcForm) (report.Configuration, error) {
	d, cadence, err := form.drivetrain(r.Context(), s.presets)
	if err != nil {
		return report.Configuration{}, err
	}
	return report.NewConfiguration(form.Name, d, cadence)
}

func writeCSV(w http.ResponseWriter, configs []report.Configuration) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, configs); err != nil {
		http.Error(w, "failed to write csv", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.CSVFilename+`"`)
	_, _ = buf.WriteTo(w)
}
