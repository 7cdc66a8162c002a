// Package api exposes significance analysis and chart planning over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sigplot/app"
	"sigplot/internal/config"
)

// Server wires the analysis service to a chi router.
type Server struct {
	router   *chi.Mux
	service  *app.AnalysisService
	settings config.ChartSettings
	logger   *log.Logger
}

// NewServer creates the HTTP server. settings supplies the chart defaults
// request bodies are merged onto.
func NewServer(service *app.AnalysisService, settings config.ChartSettings, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		router:   chi.NewRouter(),
		service:  service,
		settings: settings,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/significance", s.handleSignificance)
		r.Post("/charts/bar", s.handleBarChart)
		r.Post("/charts/line", s.handleLineChart)
		r.Post("/batch", s.handleBatch)
		r.Post("/report", s.handleReport)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
