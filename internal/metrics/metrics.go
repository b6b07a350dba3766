package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatnest_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Delivery metrics
	MessagesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnest_messages_persisted_total",
			Help: "Messages appended to the durable log",
		},
	)

	LivePushes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnest_live_pushes_total",
			Help: "Best-effort pushes to live connections",
		},
	)

	DroppedPushes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnest_dropped_pushes_total",
			Help: "Pushes dropped because the connection was gone or its buffer full",
		},
	)

	// Transport metrics
	ConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatnest_ws_connections_open",
			Help: "Currently open WebSocket connections",
		},
	)

	OTPsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatnest_otps_issued_total",
			Help: "One-time codes issued",
		},
	)
)
