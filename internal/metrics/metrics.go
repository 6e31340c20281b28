// Package metrics defines Prometheus metrics for dealdesk.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	AuctionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_auctions_created_total",
			Help: "Auctions created by type",
		},
		[]string{"auction_type"},
	)

	AuctionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_auctions_closed_total",
			Help: "Auctions closed by outcome",
		},
		[]string{"outcome"},
	)

	BidsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dealdesk_bids_accepted_total",
			Help: "Bids accepted across all auctions",
		},
	)

	BidsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_bids_rejected_total",
			Help: "Bids rejected by reason",
		},
		[]string{"reason"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dealdesk_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AuctionsCreated, AuctionsClosed,
		BidsAccepted, BidsRejected,
		WSConnections,
	)
}
