package metrics

import (
	"database/sql"
	"strconv"
	"time"
)

// Chunk outcomes
const (
	ChunkAccepted     = "accepted"
	ChunkLocked       = "locked"
	ChunkInvalid      = "invalid"
	ChunkOutOfOrder   = "out_of_order"
	ChunkStorageError = "storage_error"
)

// Ingest outcomes
const (
	IngestCommitted = "committed"
	IngestRejected  = "rejected"
	IngestStalled   = "stalled"
	IngestFailed    = "failed"
)

// Recorder writes application events to the package instruments. It satisfies the
// database query and pool observers as well as the HTTP handler hooks.
type Recorder struct{}

// NewRecorder creates a recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ObserveChunk records one chunk request
func (r *Recorder) ObserveChunk(outcome string, size int) {
	ChunksTotal.WithLabelValues(outcome).Inc()
	if outcome == ChunkAccepted {
		ChunkSizeBytes.Observe(float64(size))
	}
}

// ObserveUploadCompleted records a promoted upload
func (r *Recorder) ObserveUploadCompleted() {
	UploadsCompletedTotal.Inc()
}

// ObserveLock records whether the upload slot is held
func (r *Recorder) ObserveLock(held bool) {
	if held {
		UploadLockHeld.Set(1)
		return
	}
	UploadLockHeld.Set(0)
}

// ObserveIngest records a finished ingest
func (r *Recorder) ObserveIngest(outcome string, created, updated int, duration time.Duration) {
	IngestsTotal.WithLabelValues(outcome).Inc()
	IngestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == IngestCommitted {
		IngestedRowsTotal.WithLabelValues("created").Add(float64(created))
		IngestedRowsTotal.WithLabelValues("updated").Add(float64(updated))
	}
}

// ObserveHTTP records one served request
func (r *Recorder) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery records one database statement
func (r *Recorder) ObserveQuery(operation, table string, duration time.Duration, err error) {
	if table == "" {
		table = "unknown"
	}
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrorsTotal.WithLabelValues(operation, table).Inc()
	}
}

// ObservePool records a connection pool snapshot
func (r *Recorder) ObservePool(stats sql.DBStats) {
	DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	DBWaitCount.Set(float64(stats.WaitCount))
}
