package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Route groups used as the "group" label.
const (
	GroupQuery    = "query"
	GroupSessions = "sessions"
	GroupFilters  = "filters"
	GroupOps      = "ops"
	GroupUnknown  = "unknown"
)

var httpLabels = []string{"method", "group", "route", "status"}

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "querybar",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by route group and route pattern",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		httpLabels,
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querybar",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route group, route pattern and status",
		},
		httpLabels,
	)

	httpRequestsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "querybar",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests being served, by route group",
		},
		[]string{"group"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpRequestsInFlight)
}

// Middleware records request duration, count and in-flight requests.
// The route label is the chi route pattern, so session IDs never become
// label values.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inFlight := httpRequestsInFlight.WithLabelValues(RouteGroup(r.URL.Path))
			inFlight.Inc()
			defer inFlight.Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			labels := prometheus.Labels{
				"method": r.Method,
				"group":  RouteGroup(route),
				"route":  route,
				"status": strconv.Itoa(rec.status),
			}
			httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
			httpRequestsTotal.With(labels).Inc()
		})
	}
}

// RouteGroup maps a request path or route pattern to its group.
func RouteGroup(path string) string {
	switch {
	case path == "/health" || path == "/metrics":
		return GroupOps
	case path == "/v1/filters":
		return GroupFilters
	case strings.HasPrefix(path, "/v1/query/"):
		return GroupQuery
	case strings.HasPrefix(path, "/v1/sessions/"):
		return GroupSessions
	default:
		return GroupUnknown
	}
}

// routePattern returns the matched chi pattern, or "unknown" outside a chi
// router or for unmatched paths.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return GroupUnknown
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return GroupUnknown
}

// statusRecorder remembers the first status written.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusRecorder) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
