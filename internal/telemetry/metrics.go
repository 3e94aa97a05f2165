// Package telemetry provides logging, Prometheus metrics and OpenTelemetry
// tracing for the conference service.
//
// Metrics are registered against the default Prometheus registry and served
// by the router at the configured metrics path (default /metrics).
//
// HTTP metrics are labelled by chi route pattern (e.g. /conferences/{key})
// rather than the raw URL so conference keys do not inflate cardinality.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route pattern.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Registration and transaction metrics.
//
// RegistrationsTotal has labels {operation, outcome}: operation is "register"
// or "unregister"; outcome is one of "ok", "not_registered", "duplicate",
// "full", "not_found", "transient", "error".
//
// TxAttempts observes how many attempts a retried transaction needed;
// anything above 1 means optimistic retries happened.
var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conference_registrations_total",
			Help: "Total register/unregister calls, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	TxAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conference_tx_attempts",
			Help:    "Attempts needed per retried store transaction.",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		},
	)

	TxConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conference_tx_conflicts_total",
			Help: "Transaction attempts rejected by optimistic concurrency control.",
		},
	)
)

// Query metrics.
var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conference_queries_total",
			Help: "Conference queries, by outcome (ok, invalid, error).",
		},
		[]string{"outcome"},
	)

	DisplayNameCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conference_display_name_cache_total",
			Help: "Organizer display-name lookups, by result (hit, miss).",
		},
		[]string{"result"},
	)
)
