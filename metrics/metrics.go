// Package metrics holds the Prometheus collectors for sun time queries,
// scheduled sun events and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunup_queries_total",
			Help: "Total number of sun time and position queries by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	convergenceWarningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunup_convergence_warnings_total",
			Help: "Iterative refinements that ran out of iterations, by event.",
		},
		[]string{"event"},
	)

	eventsFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunup_events_fired_total",
			Help: "Scheduled sun event jobs that have run, by job and event.",
		},
		[]string{"job", "event"},
	)

	nextEventSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sunup_next_event_timestamp_seconds",
			Help: "Unix time of the next scheduled firing of each job.",
		},
		[]string{"job"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunup_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sunup_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(convergenceWarningsTotal)
	prometheus.MustRegister(eventsFiredTotal)
	prometheus.MustRegister(nextEventSeconds)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Query counts one query. kind is "times" or "position"; outcome is
// "ok", "polar day", "polar night" or "invalid".
func Query(kind, outcome string) {
	queriesTotal.WithLabelValues(kind, outcome).Inc()
}

// ConvergenceWarning counts one unsettled iterative refinement.
func ConvergenceWarning(event string) {
	convergenceWarningsTotal.WithLabelValues(event).Inc()
}

// EventFired counts one run of a scheduled job.
func EventFired(job, event string) {
	eventsFiredTotal.WithLabelValues(job, event).Inc()
}

// NextEvent records when a job fires next. A zero time clears it.
func NextEvent(job string, at time.Time) {
	if at.IsZero() {
		nextEventSeconds.DeleteLabelValues(job)
		return
	}
	nextEventSeconds.WithLabelValues(job).Set(float64(at.Unix()))
}

// knownRoutes are the paths reported as their own label. Anything
// else collapses to "other" to bound label cardinality.
var knownRoutes = map[string]bool{
	"/healthz":     true,
	"/metrics":     true,
	"/v1/times":    true,
	"/v1/position": true,
	"/v1/seasons":  true,
	"/v1/events":   true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
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
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
