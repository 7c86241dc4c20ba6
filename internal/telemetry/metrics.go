/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "freeslots"

var (
	// APIRequestDuration observes request latency by method, route and status.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIRequestsTotal counts requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections tracks requests currently in flight.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "active_connections",
		Help:      "HTTP requests currently being served.",
	})

	// FindCallsTotal counts slot searches by outcome.
	FindCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "finder",
		Name:      "calls_total",
		Help:      "Slot searches by outcome.",
	}, []string{"outcome"})

	// BusyEventsPerCall observes how many busy events each search received.
	BusyEventsPerCall = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "finder",
		Name:      "busy_events",
		Help:      "Busy events per slot search.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
	})

	// SlotsPerCall observes how many free slots each search returned.
	SlotsPerCall = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "finder",
		Name:      "slots",
		Help:      "Free slots returned per slot search.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// Outcome labels for FindCallsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
