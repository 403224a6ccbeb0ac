package usecase

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
)

// ChunkResult is the outcome of an accepted chunk
type ChunkResult struct {
	// Completed is true once the final chunk has been stored and promoted
	Completed bool
	// FileName is the final artifact name, set only when Completed
	FileName string
}

// UploadLock serializes chunked uploads behind one shared slot
type UploadLock interface {
	// Acquire takes or reconfirms the slot for owner; it never returns an error
	Acquire(ctx context.Context, owner string) bool
	// Release frees the slot; failures are logged and swallowed
	Release(ctx context.Context)
	// State reports the current holder of the slot
	State(ctx context.Context) (*entity.LockState, error)
}

// ChunkUploader reassembles chunked uploads on disk
type ChunkUploader interface {
	// UploadChunk stores one chunk and, on the last one, returns the final file name
	UploadChunk(ctx context.Context, chunk entity.Chunk) (*ChunkResult, error)
}
