package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"homedash/internal/charts"
	"homedash/internal/config"
	"homedash/internal/dashboard"
	"homedash/internal/logger"
)

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"checks": map[string]string{
			"presets": fmt.Sprintf("%d loaded", len(s.Presets.Names())),
			"config":  "ok",
		},
	})
}

// HandleListPresets lists the registered presets
func (s *Server) HandleListPresets(w http.ResponseWriter, r *http.Request) {
	specs := s.Presets.Specs()
	presets := make([]PresetInfo, 0, len(specs))
	for _, spec := range specs {
		presets = append(presets, presetInfo(spec))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"presets": presets,
		"count":   len(presets),
	})
}

// HandleChart builds one preset chart and renders it in the requested format
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["preset"]

	format := s.Config.Format()
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := charts.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	var req ChartRequest
	if !s.decode(w, r, &req) {
		return
	}

	spec, err := s.Presets.Get(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if spec, err = req.apply(spec); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := charts.NewDocument()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Surface != "" {
		if err := doc.Declare(req.Surface, req.Width, req.Height); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	renderer, err := charts.RendererFor(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == charts.FormatJSON {
		renderer = charts.JSONRenderer{Indent: !s.Config.IsProduction()}
	}

	builder := charts.NewBuilder(doc, s.Theme, charts.WithRenderer(renderer), charts.WithObserver(s.Metrics))
	widget, err := builder.BuildAndRender(r.Context(), req.Surface, spec, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", widget.ContentType())
	if format == charts.FormatXLSX || format == charts.FormatPNG {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", req.Surface+format.Extension()))
	}
	w.WriteHeader(http.StatusOK)
	s.writeBody(w, r, widget.Content)
}

// HandleDashboard composes several preset charts into one HTML page
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if !s.decode(w, r, &req) {
		return
	}

	theme := s.Theme
	if req.Theme != "" {
		t, err := charts.ThemeByName(req.Theme)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		theme = t
	}

	title := req.Title
	if title == "" {
		title = "Home Dashboard"
	}
	page := dashboard.NewPage(title, theme.IsDark())
	page.SetIntro(req.Intro)
	for _, panel := range req.Panels {
		if err := page.Declare(panel.Surface, panel.Width, panel.Height); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	builder := charts.NewBuilder(page, theme,
		charts.WithRenderer(charts.ChartJSRenderer{OmitLibrary: true}),
		charts.WithObserver(s.Metrics))

	for _, panel := range req.Panels {
		spec, err := s.Presets.Get(panel.Preset)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if spec, err = panel.apply(spec); err != nil {
			s.writeError(w, r, err)
			return
		}
		widget, err := builder.BuildAndRender(r.Context(), panel.Surface, spec, panel.input())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := page.AddWidget(spec.Title, widget); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	html, err := page.HTML()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	s.writeBody(w, r, []byte(html))
}

// writeBody writes content once the headers are out. The status is already
// sent, so a failed write is only logged.
func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, content []byte) {
	if _, err := w.Write(content); err != nil {
		s.log.Debug("response write failed", logger.Fields{
			"path":  r.URL.Path,
			"bytes": len(content),
			"error": err.Error(),
		})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.log.Warn("invalid request body", logger.Fields{"path": r.URL.Path, "error": err.Error()})
		writeJSON(w, http.StatusBadRequest, errorBody(http.StatusBadRequest, "invalid request body: "+err.Error()))
		return false
	}
	return true
}

// statusFor maps chart errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, charts.ErrUnknownPreset), errors.Is(err, charts.ErrInvalidSurface):
		return http.StatusNotFound
	case errors.Is(err, charts.ErrMalformedRecord), errors.Is(err, charts.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fields := logger.Fields{"path": r.URL.Path, "status": status}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		s.log.Warn("request rejected", fields)
	}
	writeJSON(w, status, errorBody(status, err.Error()))
}

func errorBody(status int, message string) map[string]interface{} {
	return map[string]interface{}{
		"error":  message,
		"status": http.StatusText(status),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
