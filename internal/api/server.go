// Package api exposes the NEOGuard service over HTTP: TLE lookup, debris
// catalog search, SGP4 propagation/prediction, and close-approach risk
// assessment.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/fetch"
	"github.com/qu4rkn3t/NEOGuard/internal/health"
	"github.com/qu4rkn3t/NEOGuard/internal/httputil"
	"github.com/qu4rkn3t/NEOGuard/internal/metrics"
	"github.com/qu4rkn3t/NEOGuard/internal/propagation"
	"github.com/qu4rkn3t/NEOGuard/internal/respcache"
)

// Config holds API server configuration.
type Config struct {
	Addr       string
	TrustProxy bool
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	fetcher   *fetch.Fetcher
	diskCache *fetch.Cache
	sampler   *propagation.Sampler
	pool      *propagation.WorkerPool
	predCache *respcache.Cache
}

// NewServer creates a configured HTTP server.
func NewServer(cfg Config, logger *slog.Logger, fetcher *fetch.Fetcher, diskCache *fetch.Cache, sampler *propagation.Sampler, pool *propagation.WorkerPool, predCache *respcache.Cache) *Server {
	s := &Server{
		logger:    logger,
		fetcher:   fetcher,
		diskCache: diskCache,
		sampler:   sampler,
		pool:      pool,
		predCache: predCache,
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/tle/{id}", s.handleTLE)
	mux.HandleFunc("GET /api/v1/debris/catalog", s.handleDebrisCatalog)
	mux.HandleFunc("POST /api/v1/propagate", s.handlePropagate)
	mux.HandleFunc("POST /api/v1/propagate/batch", s.handleBatchPropagate)
	mux.HandleFunc("POST /api/v1/predict", s.handlePredict)
	mux.HandleFunc("POST /api/v1/risk", s.handleRisk)

	// Build middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control
// (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Handler returns the full middleware-wrapped handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not
// log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
