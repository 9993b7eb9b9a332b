// Package metrics provides Prometheus HTTP metrics middleware and the board's
// domain counters.
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
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "msgboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "msgboard_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	deletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgboard_deletions_total",
			Help: "Password-authorized deletions by record kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	reportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgboard_reports_total",
			Help: "Report requests by record kind",
		},
		[]string{"kind"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records Prometheus metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		// route pattern keeps board names out of the label set
		path := "unmatched"
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics exposition.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Recorder counts board events.
type Recorder interface {
	// Deletion counts one delete attempt; kind is "thread" or "reply".
	Deletion(kind, outcome string)
	// Report counts one report request; kind is "thread" or "reply".
	Report(kind string)
}

var (
	// Default records into the process-wide registry served by Handler.
	Default Recorder = promRecorder{}
	// Nop drops every event.
	Nop Recorder = nopRecorder{}
)

type promRecorder struct{}

func (promRecorder) Deletion(kind, outcome string) {
	deletionsTotal.WithLabelValues(kind, outcome).Inc()
}

func (promRecorder) Report(kind string) {
	reportsTotal.WithLabelValues(kind).Inc()
}

type nopRecorder struct{}

func (nopRecorder) Deletion(string, string) {}
func (nopRecorder) Report(string)           {}
