// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superheroes_store_operations_total",
		Help: "Store operations by kind and outcome (ok, rejected, failed, superseded).",
	}, []string{"op", "outcome"})

	SourceCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "superheroes_source_call_duration_seconds",
		Help:    "Latency of data source calls.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"op"})

	SourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superheroes_source_errors_total",
		Help: "Data source calls that returned an error, by error code.",
	}, []string{"op", "code"})

	HeroesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "superheroes_heroes_total",
		Help: "Number of heroes currently held by the store.",
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superheroes_notifications_total",
		Help: "Error notifications emitted by the store, by error code.",
	}, []string{"code"})

	InFlightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "superheroes_inflight_requests",
		Help: "Outbound data source HTTP requests currently in flight.",
	})

	ConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superheroes_confirmations_total",
		Help: "Confirmation tickets by outcome (confirmed, declined, expired).",
	}, []string{"outcome"})
)
