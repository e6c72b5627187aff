// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the pipeline over HTTP: submit a query, download
// the last report, and scrape metrics. Runs are serialized because they share
// one report path.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/internal/feed"
	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/internal/pipeline"
	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Runner executes one query.
type Runner interface {
	Run(ctx context.Context, query string, maxResults int) (*pipeline.Result, error)
}

// SummaryRequest is the body of POST /api/v1/summaries.
type SummaryRequest struct {
	Query string `json:"query" validate:"required,max=500"`
	Count int    `json:"count" validate:"required,min=1,max=10"`
}

// SummaryResponse is returned for a completed run.
type SummaryResponse struct {
	Query      string         `json:"query"`
	Digest     string         `json:"digest"`
	ReportPath string         `json:"report_path"`
	ReportURL  string         `json:"report_url"`
	Papers     []*types.Paper `json:"papers"`
	Stats      pipeline.Stats `json:"stats"`
}

// Server is the HTTP API.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	runner     Runner
	validate   *validator.Validate
	metrics    *observability.Metrics
	gatherer   prometheus.Gatherer
	logger     zerolog.Logger

	mu         sync.Mutex
	lastReport string
}

// New builds the server. gatherer backs /metrics; metrics may be nil.
func New(cfg types.ServerConfig, runner Runner, metrics *observability.Metrics, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		runner:   runner,
		validate: newValidator(),
		metrics:  metrics,
		gatherer: gatherer,
		logger:   logger.With().Str("component", "http-server").Logger(),
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/summaries", s.createSummaries)
		r.Get("/report", s.downloadReport)
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server starting")
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createSummaries(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.runner.Run(r.Context(), req.Query, req.Count)
	if err != nil {
		status := http.StatusInternalServerError
		var me *feed.MetadataError
		switch {
		case errors.As(err, &me):
			status = http.StatusBadGateway
		case errors.Is(err, feed.ErrEmptyQuery), errors.Is(err, feed.ErrInvalidMaxResults):
			status = http.StatusBadRequest
		}
		s.logger.Error().Err(err).Str("query", req.Query).Msg("run failed")
		writeError(w, status, err.Error())
		return
	}
	s.lastReport = res.ReportPath

	writeJSON(w, http.StatusOK, SummaryResponse{
		Query:      res.Query,
		Digest:     res.Digest,
		ReportPath: res.ReportPath,
		ReportURL:  "/api/v1/report",
		Papers:     res.Papers,
		Stats:      res.Stats,
	})
}

var reportContentTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".md":   "text/markdown; charset=utf-8",
}

func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	path := s.lastReport
	s.mu.Unlock()

	if path == "" {
		writeError(w, http.StatusNotFound, "no report has been generated yet")
		return
	}
	if ct, ok := reportContentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// instrument logs each request and records it in the metrics, labeled by
// route pattern so path parameters do not explode cardinality.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, route, status, elapsed)
		s.logger.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
