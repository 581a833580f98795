package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"homedash/internal/charts"
	"homedash/internal/config"
	"homedash/internal/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Server represents the chart API server
type Server struct {
	Config  *config.Config
	Presets *charts.Registry
	Theme   charts.Theme
	Metrics *Metrics
	Router  *mux.Router
	log     *logger.Logger
	started time.Time
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, presets *charts.Registry) *Server {
	s := &Server{
		Config:  cfg,
		Presets: presets,
		Theme:   cfg.ChartTheme(),
		Metrics: NewMetrics(),
		Router:  mux.NewRouter(),
		log:     logger.Component("server"),
		started: time.Now(),
	}
	s.SetupRoutes()
	return s
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() {
	s.Router.Use(s.instrument)

	s.Router.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)
	s.Router.Handle("/metrics", s.Metrics.Handler()).Methods(http.MethodGet)

	api := s.Router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presets", s.HandleListPresets).Methods(http.MethodGet)
	api.HandleFunc("/charts/{preset}", s.HandleChart).Methods(http.MethodPost)
	api.HandleFunc("/dashboard", s.HandleDashboard).Methods(http.MethodPost)
}

// Handler returns the router wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.Config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		MaxAge:         300,
	})
	return c.Handler(s.Router)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", logger.Fields{
			"port":        s.Config.Port,
			"environment": s.Config.Environment,
			"theme":       s.Theme.Name,
			"presets":     len(s.Presets.Names()),
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs and counts every routed request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.Metrics.observeRequest(route, r.Method, rec.status)
		s.log.Debug("request handled", logger.Fields{
			"method":      r.Method,
			"route":       route,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
