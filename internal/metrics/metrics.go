// Package metrics defines Prometheus metrics for graphway.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphway_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphway_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphway_http_errors_total",
			Help: "HTTP error responses by error code",
		},
		[]string{"code"},
	)

	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphway_store_requests_total",
			Help: "Calls to the graph store by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	StoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphway_store_request_duration_seconds",
			Help:    "Graph store call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	ReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphway_reloads_total",
			Help: "View reloads by reason",
		},
		[]string{"reason"},
	)

	GesturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphway_gestures_total",
			Help: "Gestures handled by kind and result",
		},
		[]string{"kind", "result"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphway_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	NodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphway_view_nodes",
			Help: "Nodes in the current view",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphway_view_edges",
			Help: "Derived edges in the current view",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		StoreRequestsTotal, StoreRequestDuration, ReloadsTotal,
		GesturesTotal, WSConnections,
		NodeCount, EdgeCount,
	)
}
