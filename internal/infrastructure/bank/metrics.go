package bank

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeApproved    = "approved"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
	outcomeFormat      = "format_error"
	outcomeBreakerOpen = "breaker_open"
	outcomeCanceled    = "canceled"
)

var (
	creditDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_service_credit_decisions_total",
			Help: "Credit decision calls to the bank API by outcome",
		},
		[]string{"outcome"},
	)

	creditDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lease_service_credit_decision_duration_seconds",
			Help:    "Latency of bank API credit decision calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)
)
