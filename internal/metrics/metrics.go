// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gtd_jewel"

var (
	// RateSourceRequests counts fetch attempts per rate source and outcome.
	RateSourceRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_source_requests_total",
		Help:      "Metal rate source fetch attempts by source and result.",
	}, []string{"source", "result"})

	// RateSourceLatency observes fetch latency per rate source.
	RateSourceLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rate_source_duration_seconds",
		Help:      "Metal rate source fetch latency.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"source"})

	// RateFallbacks counts refreshes that ended on the static table.
	RateFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_fallback_total",
		Help:      "Refreshes where every source failed and the fallback table was served.",
	})

	// RateCacheLookups counts cache lookups by result (hit, miss).
	RateCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_cache_lookups_total",
		Help:      "Rate cache lookups by result.",
	}, []string{"result"})

	// FxFallbacks counts FX lookups that fell back to the constant rate.
	FxFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fx_fallback_total",
		Help:      "FX lookups answered with the configured fallback rate.",
	})

	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes HTTP request latency.
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(
		RateSourceRequests,
		RateSourceLatency,
		RateFallbacks,
		RateCacheLookups,
		FxFallbacks,
		HTTPRequests,
		HTTPDuration,
	)
}
