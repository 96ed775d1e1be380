package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neoguard_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neoguard_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	propagationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neoguard_propagation_duration_seconds",
			Help:    "SGP4 sampling duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	propagationSamplesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoguard_propagation_samples_total",
			Help: "Total number of trajectory samples generated.",
		},
	)

	propagationErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoguard_propagation_errors_total",
			Help: "Total number of failed propagation requests.",
		},
	)

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neoguard_catalog_fetch_total",
			Help: "Total number of upstream catalog fetches.",
		},
		[]string{"outcome"},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoguard_cache_hits_total",
			Help: "Total number of prediction cache hits.",
		},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neoguard_cache_misses_total",
			Help: "Total number of prediction cache misses.",
		},
	)

	catalogAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neoguard_catalog_age_seconds",
			Help: "Age of the on-disk catalog cache in seconds.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(propagationDurationSeconds)
	prometheus.MustRegister(propagationSamplesTotal)
	prometheus.MustRegister(propagationErrorsTotal)
	prometheus.MustRegister(fetchTotal)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
	prometheus.MustRegister(catalogAgeSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPropagation records a completed sampling run.
func RecordPropagation(duration time.Duration, samples int) {
	propagationDurationSeconds.Observe(duration.Seconds())
	propagationSamplesTotal.Add(float64(samples))
}

// IncPropagationErrors counts a failed propagation request.
func IncPropagationErrors() {
	propagationErrorsTotal.Inc()
}

// IncFetch counts an upstream catalog fetch with the given outcome
// ("ok" or "error").
func IncFetch(outcome string) {
	fetchTotal.WithLabelValues(outcome).Inc()
}

// IncCacheHits counts a prediction cache hit.
func IncCacheHits() {
	cacheHitsTotal.Inc()
}

// IncCacheMisses counts a prediction cache miss.
func IncCacheMisses() {
	cacheMissesTotal.Inc()
}

// SetCatalogAge updates the catalog cache age gauge.
func SetCatalogAge(seconds float64) {
	catalogAgeSeconds.Set(seconds)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
