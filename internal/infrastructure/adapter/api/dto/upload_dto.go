package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
)

// ChunkQuery holds the query parameters of a chunk upload
type ChunkQuery struct {
	Name              string `form:"name" binding:"required"`
	CurrentChunkIndex *int   `form:"currentChunkIndex" binding:"required"`
	TotalChunks       *int   `form:"totalChunks" binding:"required"`
	ID                string `form:"id" binding:"required"`
}

// Chunk builds the domain chunk for this query
func (q ChunkQuery) Chunk(clientID string, data []byte) entity.Chunk {
	return entity.Chunk{
		FileName:  q.Name,
		Index:     *q.CurrentChunkIndex,
		Total:     *q.TotalChunks,
		SessionID: q.ID,
		ClientID:  clientID,
		Data:      data,
	}
}

// UploadCompleteResponse is returned for the last chunk of an upload
type UploadCompleteResponse struct {
	Name string `json:"name"`
}

// ChunkAcceptedResponse is the body returned for every other chunk
const ChunkAcceptedResponse = "ok"

// IngestRequest asks the server to apply a reassembled file
type IngestRequest struct {
	FileName string `json:"fileName" binding:"required"`
	// Time stamps new records; RFC 3339 or a plain date. Empty means now.
	Time string `json:"time"`
}

var ingestTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParsedTime returns the requested creation time in UTC, or zero when none was given
func (r IngestRequest) ParsedTime() (time.Time, error) {
	raw := strings.TrimSpace(r.Time)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range ingestTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", errs.ErrInvalidRequest, raw)
}

// IngestResponse summarizes a committed ingest
type IngestResponse struct {
	FileName string `json:"fileName"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
}

// NewIngestResponse converts an ingest result
func NewIngestResponse(r *usecase.IngestResult) IngestResponse {
	return IngestResponse{
		FileName: r.FileName,
		Created:  r.Created,
		Updated:  r.Updated,
		Skipped:  r.Skipped,
	}
}

// LockStatusResponse describes the upload slot
type LockStatusResponse struct {
	Uploading bool      `json:"uploading"`
	Owner     string    `json:"owner"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Stale is true when the holder has been idle past the lock timeout
	Stale bool `json:"stale"`
}
