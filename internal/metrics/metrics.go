package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the booking service.
type Metrics struct {
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration observes request latency by method and route.
	HTTPDuration *prometheus.HistogramVec

	// AvailabilityChecks counts availability queries by outcome (available, unavailable, error).
	AvailabilityChecks *prometheus.CounterVec

	// BookingsCreated counts reservation attempts by outcome.
	BookingsCreated *prometheus.CounterVec

	// BookingTransitions counts lifecycle transitions by target status.
	BookingTransitions *prometheus.CounterVec

	// ReserveDuration observes the locked reserve transaction.
	ReserveDuration prometheus.Histogram

	// EventsPublished counts published events by type and result.
	EventsPublished *prometheus.CounterVec

	// RateLimited counts requests rejected by the auth limiter.
	RateLimited prometheus.Counter
}

// NewMetrics creates and registers the service metrics on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		AvailabilityChecks: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "availability_checks_total",
				Help:      "Total number of room availability checks",
			},
			[]string{"result"},
		),

		BookingsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_create_total",
				Help:      "Total number of booking creation attempts",
			},
			[]string{"result"},
		),

		BookingTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_transitions_total",
				Help:      "Total number of booking status transitions",
			},
			[]string{"status"},
		),

		ReserveDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "booking_reserve_duration_seconds",
				Help:      "Time spent in the locked reserve transaction",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),

		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of published domain events",
			},
			[]string{"type", "result"},
		),

		RateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
	}
}

// NewNop returns metrics registered on a private registry, for tests and tools.
func NewNop() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}
