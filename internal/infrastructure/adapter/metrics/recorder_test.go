package metrics

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/database"
)

var (
	_ database.QueryObserver = (*Recorder)(nil)
	_ database.PoolObserver  = (*Recorder)(nil)
)

// Counters are process-global, so every test compares against the value it started with.

func TestObserveChunk(t *testing.T) {
	r := NewRecorder()
	accepted := testutil.ToFloat64(ChunksTotal.WithLabelValues(ChunkAccepted))
	locked := testutil.ToFloat64(ChunksTotal.WithLabelValues(ChunkLocked))

	r.ObserveChunk(ChunkAccepted, 1024)
	r.ObserveChunk(ChunkAccepted, 2048)
	r.ObserveChunk(ChunkLocked, 0)

	assert.Equal(t, accepted+2, testutil.ToFloat64(ChunksTotal.WithLabelValues(ChunkAccepted)))
	assert.Equal(t, locked+1, testutil.ToFloat64(ChunksTotal.WithLabelValues(ChunkLocked)))
}

func TestObserveUploadAndLock(t *testing.T) {
	r := NewRecorder()
	completed := testutil.ToFloat64(UploadsCompletedTotal)

	r.ObserveUploadCompleted()
	assert.Equal(t, completed+1, testutil.ToFloat64(UploadsCompletedTotal))

	r.ObserveLock(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(UploadLockHeld))
	r.ObserveLock(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(UploadLockHeld))
}

func TestObserveIngest(t *testing.T) {
	r := NewRecorder()
	committed := testutil.ToFloat64(IngestsTotal.WithLabelValues(IngestCommitted))
	created := testutil.ToFloat64(IngestedRowsTotal.WithLabelValues("created"))
	updated := testutil.ToFloat64(IngestedRowsTotal.WithLabelValues("updated"))

	r.ObserveIngest(IngestCommitted, 3, 2, 40*time.Millisecond)
	r.ObserveIngest(IngestRejected, 7, 7, time.Millisecond)

	assert.Equal(t, committed+1, testutil.ToFloat64(IngestsTotal.WithLabelValues(IngestCommitted)))
	assert.Equal(t, created+3, testutil.ToFloat64(IngestedRowsTotal.WithLabelValues("created")))
	assert.Equal(t, updated+2, testutil.ToFloat64(IngestedRowsTotal.WithLabelValues("updated")))
}

func TestObserveHTTP(t *testing.T) {
	r := NewRecorder()
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/users", "200"))
	unmatched := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	r.ObserveHTTP("GET", "/users", 200, 3*time.Millisecond)
	r.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/users", "200")))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveQuery(t *testing.T) {
	r := NewRecorder()
	failures := testutil.ToFloat64(DBQueryErrorsTotal.WithLabelValues("update", "users"))

	r.ObserveQuery("update", "users", time.Millisecond, nil)
	r.ObserveQuery("update", "users", time.Millisecond, errors.New("deadlock"))

	assert.Equal(t, failures+1, testutil.ToFloat64(DBQueryErrorsTotal.WithLabelValues("update", "users")))
}

func TestObservePool(t *testing.T) {
	r := NewRecorder()

	r.ObservePool(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3, WaitCount: 11})

	assert.Equal(t, 5.0, testutil.ToFloat64(DBConnections.WithLabelValues("open")))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBConnections.WithLabelValues("in_use")))
	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnections.WithLabelValues("idle")))
	assert.Equal(t, 11.0, testutil.ToFloat64(DBWaitCount))
}

func TestMetricNames(t *testing.T) {
	expected := `
# HELP staff_registry_upload_lock_held Whether the upload slot is currently held (0 or 1)
# TYPE staff_registry_upload_lock_held gauge
staff_registry_upload_lock_held 1
`
	NewRecorder().ObserveLock(true)
	require.NoError(t, testutil.CollectAndCompare(UploadLockHeld, strings.NewReader(expected)))
	NewRecorder().ObserveLock(false)
}
