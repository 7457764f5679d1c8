package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gearrange/gearrange/internal/config"
	"github.com/gearrange/gearrange/internal/presets"
	"github.com/gearrange/gearrange/web"
)

// presetSource is the read side of the preset catalog.
type presetSource interface {
	Catalog(ctx context.Context) (presets.Catalog, error)
	Cassette(ctx context.Context, slug string) (presets.Cassette, error)
	Wheel(ctx context.Context, slug string) (presets.WheelSize, error)
}

type server struct {
	presets   presetSource
	logger    *slog.Logger
	templates map[string]*template.Template
}

type baseViewData struct {
	ErrorMessage string
}

var templateFuncs = template.FuncMap{
	"metres":  func(mm float64) float64 { return mm / 1000 },
	"percent": func(v float64) float64 { return v * 100 },
}

func newServer(source presetSource, logger *slog.Logger) (*server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := fs.Glob(web.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		name := strings.TrimPrefix(page, "templates/")
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(web.FS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &server{presets: source, logger: logger, templates: templates}, nil
}

func (s *server) routes(cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(correlationID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(web.FS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleHome)
	r.Get("/calc", s.handleCalc)
	r.Get("/export.csv", s.handleExportCSV)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", correlationHeader},
			ExposedHeaders: []string{correlationHeader},
			MaxAge:         300,
		}))
		r.Get("/presets", s.handleAPIPresets)
		r.Post("/gears", s.handleAPIGears)
		r.Post("/compare", s.handleAPICompare)
	})

	if cfg.IsDev() {
		r.Mount("/debug", middleware.Profiler())
	}

	return r
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, status int, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render template", "page", page, "error", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
