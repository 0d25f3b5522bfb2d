package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync runs
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total number of sync runs by type and final status",
		},
		[]string{"type", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"type"},
	)

	SyncRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sync_rejected_total",
			Help: "Full sync triggers rejected because another run held the lease",
		},
	)

	// Entities written by sync
	SyncedEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_entities_total",
			Help: "Entities written by sync, by entity and outcome (added, updated)",
		},
		[]string{"entity", "outcome"},
	)

	// Remote catalog API
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_api_requests_total",
			Help: "Requests made to the remote catalog API",
		},
		[]string{"operation", "outcome"},
	)

	CatalogRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_api_retries_total",
			Help: "Retried remote catalog API calls",
		},
	)

	// Webhooks
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_webhook_events_total",
			Help: "Webhook events received, by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	// Storefront read cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_lookups_total",
			Help: "Storefront cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)
)
