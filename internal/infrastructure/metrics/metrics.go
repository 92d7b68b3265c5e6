package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agrirent"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RentalsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "rentals_generated_total", Help: "Rental agreements generated",
	})
	InstallmentsPaid = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "installments_paid_total", Help: "Installments marked paid"},
		[]string{"method"},
	)
	ChatbotResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "chatbot_responses_total", Help: "Chatbot replies by source"},
		[]string{"source"},
	)
	OverdueMarked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "overdue_installments_marked_total", Help: "Rentals touched by the overdue sweep",
	})
	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "websocket_connections", Help: "Open websocket connections",
	})
)
