// Package metrics exposes prometheus instruments for uploads, ingests, HTTP traffic and the database.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter metrics
var (
	// ChunksTotal counts upload chunks by outcome (accepted, locked, invalid, out_of_order, storage_error)
	ChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staff_registry_upload_chunks_total",
			Help: "Total number of upload chunks received",
		},
		[]string{"outcome"},
	)

	// UploadsCompletedTotal counts uploads whose last chunk was promoted
	UploadsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "staff_registry_uploads_completed_total",
			Help: "Total number of reassembled uploads",
		},
	)

	// IngestsTotal counts ingests by outcome (committed, rejected, stalled, failed)
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staff_registry_ingests_total",
			Help: "Total number of CSV ingests",
		},
		[]string{"outcome"},
	)

	// IngestedRowsTotal counts committed rows by action (created, updated)
	IngestedRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staff_registry_ingested_rows_total",
			Help: "Total number of rows applied by committed ingests",
		},
		[]string{"action"},
	)

	// HTTPRequestsTotal counts HTTP requests by method, route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staff_registry_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// DBQueryErrorsTotal counts failed statements by operation and table
	DBQueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staff_registry_db_query_errors_total",
			Help: "Total number of failed database statements",
		},
		[]string{"operation", "table"},
	)
)

// Histogram metrics
var (
	// ChunkSizeBytes tracks decoded chunk sizes
	ChunkSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "staff_registry_upload_chunk_size_bytes",
			Help:    "Distribution of decoded chunk sizes in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)

	// IngestDuration tracks how long ingests take by outcome
	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staff_registry_ingest_duration_seconds",
			Help:    "CSV ingest latency in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	// HTTPRequestDuration tracks HTTP latency by method and route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staff_registry_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// DBQueryDuration tracks statement latency by operation and table
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staff_registry_db_query_duration_seconds",
			Help:    "Database statement latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// Gauge metrics
var (
	// DBConnections reports the pool by state (open, in_use, idle)
	DBConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "staff_registry_db_connections",
			Help: "Database connections by state",
		},
		[]string{"state"},
	)

	// DBWaitCount reports how many connections callers have waited for in total
	DBWaitCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "staff_registry_db_wait_count",
			Help: "Total number of connections waited for",
		},
	)

	// UploadLockHeld is 1 while a session holds the upload slot
	UploadLockHeld = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "staff_registry_upload_lock_held",
			Help: "Whether the upload slot is currently held (0 or 1)",
		},
	)
)
