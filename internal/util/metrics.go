package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of registered user accounts",
	})

	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of successful logins",
	})

	LoginsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logins_failed_total",
		Help: "Total number of rejected login attempts",
	})

	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_started_total",
		Help: "Total number of parking sessions started",
	})

	SessionsStoppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_stopped_total",
		Help: "Total number of parking sessions stopped",
	})

	SessionStartsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "session_starts_failed_total",
		Help: "Total number of rejected session starts",
	}, []string{"reason"})

	SessionDurationMinutes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_duration_minutes",
		Help:    "Duration of completed parking sessions in minutes",
		Buckets: prometheus.ExponentialBuckets(15, 2, 9),
	})

	PaymentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Total number of payments created",
	})

	PaymentsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_completed_total",
		Help: "Total number of payments completed by the provider",
	})

	PaymentsRefundedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_refunded_total",
		Help: "Total number of refunds processed",
	})

	PaymentsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_failed_total",
		Help: "Total number of failed payment operations",
	}, []string{"reason"})

	BillingRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "billing_request_latency_seconds",
		Help:    "Latency of billing overview computation",
		Buckets: prometheus.DefBuckets,
	})

	LotOccupancy = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lot_occupancy",
		Help: "Current number of active sessions per parking lot",
	}, []string{"lot_id"})

	EventsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Total number of events published to the broker",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
