package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/metrics"
	"github.com/gin-gonic/gin"
)

// DefaultMaxChunkBytes bounds the decoded size of one chunk
const DefaultMaxChunkBytes = 1 << 20

// dataURLOverhead leaves room for the data URL header in front of the payload
const dataURLOverhead = 1024

// UploadObserver receives upload pipeline events
type UploadObserver interface {
	ObserveChunk(outcome string, size int)
	ObserveUploadCompleted()
	ObserveLock(held bool)
	ObserveIngest(outcome string, created, updated int, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveChunk(string, int)                      {}
func (noopObserver) ObserveUploadCompleted()                       {}
func (noopObserver) ObserveLock(bool)                              {}
func (noopObserver) ObserveIngest(string, int, int, time.Duration) {}

// UploadHandler handles the chunked upload and ingest endpoints
type UploadHandler struct {
	uploader      usecase.ChunkUploader
	ingester      usecase.Ingester
	lock          usecase.UploadLock
	timeProvider  coreport.TimeProvider
	logger        coreport.Logger
	observer      UploadObserver
	maxChunkBytes int
	lockTimeout   time.Duration
}

// UploadOption configures an UploadHandler
type UploadOption func(*UploadHandler)

// WithObserver reports upload events to o
func WithObserver(o UploadObserver) UploadOption {
	return func(h *UploadHandler) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithMaxChunkBytes sets the largest accepted decoded chunk
func WithMaxChunkBytes(n int) UploadOption {
	return func(h *UploadHandler) {
		if n > 0 {
			h.maxChunkBytes = n
		}
	}
}

// WithLockTimeout sets the timeout used to report a stale holder
func WithLockTimeout(d time.Duration) UploadOption {
	return func(h *UploadHandler) {
		if d > 0 {
			h.lockTimeout = d
		}
	}
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(
	uploader usecase.ChunkUploader,
	ingester usecase.Ingester,
	lock usecase.UploadLock,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	opts ...UploadOption,
) *UploadHandler {
	h := &UploadHandler{
		uploader:      uploader,
		ingester:      ingester,
		lock:          lock,
		timeProvider:  timeProvider,
		logger:        logger,
		observer:      noopObserver{},
		maxChunkBytes: DefaultMaxChunkBytes,
		lockTimeout:   entity.DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// UploadChunk handles POST /users/uploadUserFile
func (h *UploadHandler) UploadChunk(c *gin.Context) {
	var query dto.ChunkQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.observer.ObserveChunk(metrics.ChunkInvalid, 0)
		respondError(c, h.logger, http.StatusBadRequest, "Invalid chunk parameters",
			fmt.Errorf("%w: %v", domainerr.ErrInvalidChunk, err))
		return
	}

	data, err := h.readChunk(c)
	if err != nil {
		h.observer.ObserveChunk(metrics.ChunkInvalid, 0)
		respondError(c, h.logger, http.StatusBadRequest, "Invalid chunk body", err)
		return
	}

	chunk := query.Chunk(c.ClientIP(), data)
	result, err := h.uploader.UploadChunk(c.Request.Context(), chunk)
	if err != nil {
		h.observeChunkFailure(err)
		respondError(c, h.logger, StatusCode(err), "Chunk rejected", err)
		return
	}

	h.observer.ObserveChunk(metrics.ChunkAccepted, len(data))
	if !result.Completed {
		h.observer.ObserveLock(true)
		c.JSON(http.StatusOK, dto.ChunkAcceptedResponse)
		return
	}

	h.observer.ObserveLock(false)
	h.observer.ObserveUploadCompleted()
	c.JSON(http.StatusOK, dto.UploadCompleteResponse{Name: result.FileName})
}

// readChunk reads and decodes the body, enforcing the chunk size limit
func (h *UploadHandler) readChunk(c *gin.Context) ([]byte, error) {
	limit := int64(h.maxChunkBytes)*4/3 + dataURLOverhead
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: chunk exceeds %d bytes", domainerr.ErrInvalidChunk, h.maxChunkBytes)
		}
		return nil, fmt.Errorf("%w: reading body: %v", domainerr.ErrInvalidChunk, err)
	}

	data, err := dto.DecodeDataURL(body)
	if err != nil {
		return nil, err
	}
	if len(data) > h.maxChunkBytes {
		return nil, fmt.Errorf("%w: chunk exceeds %d bytes", domainerr.ErrInvalidChunk, h.maxChunkBytes)
	}
	return data, nil
}

func (h *UploadHandler) observeChunkFailure(err error) {
	switch {
	case errors.Is(err, domainerr.ErrUploadLocked):
		h.observer.ObserveChunk(metrics.ChunkLocked, 0)
		h.observer.ObserveLock(true)
	case errors.Is(err, domainerr.ErrChunkOutOfOrder):
		h.observer.ObserveChunk(metrics.ChunkOutOfOrder, 0)
	case domainerr.IsValidationError(err):
		h.observer.ObserveChunk(metrics.ChunkInvalid, 0)
	default:
		// the reassembler releases the slot on storage failures
		h.observer.ObserveChunk(metrics.ChunkStorageError, 0)
		h.observer.ObserveLock(false)
	}
}

// Ingest handles POST /users/upload
func (h *UploadHandler) Ingest(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.observer.ObserveIngest(metrics.IngestRejected, 0, 0, 0)
		respondError(c, h.logger, http.StatusBadRequest, "Invalid ingest request",
			fmt.Errorf("%w: %v", domainerr.ErrInvalidRequest, err))
		return
	}

	at, err := req.ParsedTime()
	if err != nil {
		h.observer.ObserveIngest(metrics.IngestRejected, 0, 0, 0)
		respondError(c, h.logger, http.StatusBadRequest, "Invalid ingest request", err)
		return
	}

	start := h.timeProvider.Now()
	result, err := h.ingester.Ingest(c.Request.Context(), req.FileName, at)
	elapsed := h.timeProvider.Since(start).Std()
	if err != nil {
		h.observer.ObserveIngest(ingestOutcome(err), 0, 0, elapsed)
		respondError(c, h.logger, ingestStatusCode(err), "Ingest failed", err)
		return
	}

	h.observer.ObserveIngest(metrics.IngestCommitted, result.Created, result.Updated, elapsed)
	c.JSON(http.StatusOK, dto.NewIngestResponse(result))
}

func ingestOutcome(err error) string {
	switch {
	case errors.Is(err, domainerr.ErrIngestStalled):
		return metrics.IngestStalled
	case domainerr.IsValidationError(err), domainerr.IsNotFoundError(err):
		return metrics.IngestRejected
	default:
		return metrics.IngestFailed
	}
}

// Status handles GET /users/upload/status
func (h *UploadHandler) Status(c *gin.Context) {
	state, err := h.lock.State(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, http.StatusInternalServerError, "Failed to read upload lock", err)
		return
	}

	c.JSON(http.StatusOK, dto.LockStatusResponse{
		Uploading: state.Uploading,
		Owner:     state.Owner,
		UpdatedAt: state.UpdatedAt,
		Stale:     state.Owner != "" && state.IsStale(h.timeProvider.Now(), h.lockTimeout),
	})
}
