// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	OrdersCreated   prometheus.Counter
	PaymentsSettled *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bazaar",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "orders_created_total",
			Help:      "Orders successfully created.",
		}),
		PaymentsSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bazaar",
			Name:      "payments_settled_total",
			Help:      "Settlement outcomes by final payment status.",
		}, []string{"status"}),
	}
}
