// Package metrics provides Prometheus metrics for the parsing API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailsift",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mailsift",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks current in-flight requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mailsift",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)

	// HTTPResponseSize measures HTTP response size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mailsift",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		},
		[]string{"method", "path"},
	)
)

var (
	// ParsesTotal counts parse attempts by outcome (ok, parse_error,
	// invalid_request)
	ParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailsift",
			Subsystem: "parse",
			Name:      "total",
			Help:      "Total number of message parse attempts by outcome",
		},
		[]string{"status"},
	)

	// ParseDuration measures end-to-end parse pipeline duration
	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mailsift",
			Subsystem: "parse",
			Name:      "duration_seconds",
			Help:      "Message parse pipeline duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// MessageSize measures raw message size in bytes
	MessageSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mailsift",
			Subsystem: "parse",
			Name:      "message_size_bytes",
			Help:      "Raw message size in bytes",
			Buckets:   []float64{1000, 10000, 100000, 1000000, 10000000, 25000000},
		},
	)

	// EntitiesExtracted counts extracted entities by type
	EntitiesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailsift",
			Subsystem: "parse",
			Name:      "entities_extracted_total",
			Help:      "Total number of entities extracted by type",
		},
		[]string{"type"},
	)
)

// ObserveParse records one parse attempt: its outcome, duration, input
// size, and per-type entity counts on success.
func ObserveParse(status string, duration time.Duration, sizeBytes int, entityCounts map[string]int) {
	ParsesTotal.WithLabelValues(status).Inc()
	ParseDuration.Observe(duration.Seconds())
	MessageSize.Observe(float64(sizeBytes))
	for typ, n := range entityCounts {
		if n > 0 {
			EntitiesExtracted.WithLabelValues(typ).Add(float64(n))
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Middleware returns a chi middleware that records HTTP metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		path := getRoutePattern(r)

		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.size))
	})
}

// getRoutePattern returns the route pattern from chi context
// Falls back to URL path if pattern not available
func getRoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
