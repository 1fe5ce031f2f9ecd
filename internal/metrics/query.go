package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query service Prometheus metrics.
var (
	QueryOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querybar",
			Name:      "query_operations_total",
			Help:      "Total number of query operations",
		},
		[]string{"operation", "status"},
	)

	QueryClauses = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "querybar",
			Name:      "query_clauses",
			Help:      "Number of clauses in a resulting query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"operation"},
	)

	HistoryOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querybar",
			Name:      "history_operations_total",
			Help:      "Session history store operations",
		},
		[]string{"operation", "status"}, // status: "ok" / "error" / "empty"
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryOperationsTotal)
	prometheus.MustRegister(QueryClauses)
	prometheus.MustRegister(HistoryOperationsTotal)
	queryMetricsRegistered = true
}
