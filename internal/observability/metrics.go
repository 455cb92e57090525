package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "code", "method"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	TicketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_ticket_operations_total",
			Help: "Ticket operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	TicketsHeld = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booking_tickets_held",
			Help: "Number of tickets currently booked",
		},
	)

	EventSinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_event_sink_failures_total",
			Help: "Ticket events a sink failed to accept",
		},
		[]string{"sink"},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)

	IdempotentReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_idempotent_replays_total",
			Help: "Responses served from the idempotency store",
		},
	)
)
