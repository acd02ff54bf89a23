// Package metrics expone los collectors Prometheus de authd.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests cuenta requests por método, path y status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authd",
		Name:      "http_requests_total",
		Help:      "Total de requests HTTP procesados.",
	}, []string{"method", "path", "status"})

	// HTTPDuration mide la latencia por path.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "authd",
		Name:      "http_request_duration_seconds",
		Help:      "Duración de requests HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// GrantsIssued cuenta grants exitosos por grant_type y tenant.
	GrantsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authd",
		Name:      "grants_issued_total",
		Help:      "Authorizations emitidas.",
	}, []string{"grant_type", "tenant"})

	// GrantsRejected cuenta grants rechazados por código de error.
	GrantsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authd",
		Name:      "grants_rejected_total",
		Help:      "Token requests rechazados.",
	}, []string{"error"})

	// Revocations cuenta revocaciones por resultado (hit/miss).
	Revocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authd",
		Name:      "revocations_total",
		Help:      "Revocaciones procesadas.",
	}, []string{"result"})

	// Introspections cuenta introspecciones por resultado (active/inactive).
	Introspections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authd",
		Name:      "introspections_total",
		Help:      "Introspecciones procesadas.",
	}, []string{"result"})
)
