package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/storage"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
)

// Reassembler appends the chunks of an upload to a temp artifact and promotes it on the last chunk
type Reassembler struct {
	lock      usecase.UploadLock
	store     storage.ChunkStore
	sequencer storage.SequenceTracker
	logger    coreport.Logger
}

// NewReassembler creates a reassembler without ordering enforcement
func NewReassembler(
	lock usecase.UploadLock,
	store storage.ChunkStore,
	logger coreport.Logger,
) *Reassembler {
	return &Reassembler{
		lock:   lock,
		store:  store,
		logger: logger,
	}
}

// WithSequencer enables strict chunk ordering through tracker
func (r *Reassembler) WithSequencer(tracker storage.SequenceTracker) *Reassembler {
	r.sequencer = tracker
	return r
}

// UploadChunk stores one chunk. Every call, the last included, must hold the upload lock.
func (r *Reassembler) UploadChunk(ctx context.Context, chunk entity.Chunk) (*usecase.ChunkResult, error) {
	if err := chunk.Validate(); err != nil {
		return nil, err
	}

	if !r.lock.Acquire(ctx, chunk.SessionID) {
		return nil, r.chunkError(chunk, errs.ErrUploadLocked)
	}

	if r.sequencer != nil {
		if err := r.sequencer.Claim(ctx, chunk.SessionID, chunk.Index); err != nil {
			if errors.Is(err, errs.ErrChunkOutOfOrder) {
				r.logger.Warn("Rejected out of order chunk", r.fields(ctx, chunk))
				return nil, r.chunkError(chunk, err)
			}
			r.release(ctx, chunk)
			return nil, r.chunkError(chunk, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error()))
		}
	}

	key := r.store.TempKey(chunk.FileName, chunk.ClientID)

	if chunk.IsFirst() {
		if err := r.store.Reset(ctx, key); err != nil {
			r.release(ctx, chunk)
			return nil, r.chunkError(chunk, err)
		}
	}

	if err := r.store.Append(ctx, key, chunk.Data); err != nil {
		fields := r.fields(ctx, chunk)
		fields["error"] = err.Error()
		r.logger.Error("Failed to append chunk", fields)
		r.release(ctx, chunk)
		return nil, r.chunkError(chunk, err)
	}

	if !chunk.IsLast() {
		r.logger.Debug("Chunk stored", r.fields(ctx, chunk))
		return &usecase.ChunkResult{}, nil
	}

	name, err := r.store.Promote(ctx, key)
	if err != nil {
		fields := r.fields(ctx, chunk)
		fields["error"] = err.Error()
		r.logger.Error("Failed to promote upload", fields)
		r.release(ctx, chunk)
		return nil, r.chunkError(chunk, err)
	}

	r.release(ctx, chunk)

	fields := r.fields(ctx, chunk)
	fields["artifact"] = name
	r.logger.Info("Upload reassembled", fields)

	return &usecase.ChunkResult{Completed: true, FileName: name}, nil
}

// release frees the upload slot and drops the session's sequence
func (r *Reassembler) release(ctx context.Context, chunk entity.Chunk) {
	r.lock.Release(ctx)
	if r.sequencer == nil {
		return
	}
	if err := r.sequencer.Forget(ctx, chunk.SessionID); err != nil {
		r.logger.Warn("Failed to drop chunk sequence", map[string]any{
			"session_id": chunk.SessionID,
			"error":      err.Error(),
		})
	}
}

func (r *Reassembler) chunkError(chunk entity.Chunk, err error) error {
	return errs.NewChunkError(chunk.FileName, chunk.Index, chunk.Total, chunk.SessionID, err)
}

func (r *Reassembler) fields(ctx context.Context, chunk entity.Chunk) map[string]any {
	return map[string]any{
		"file_name":    chunk.FileName,
		"chunk_index":  chunk.Index,
		"total_chunks": chunk.Total,
		"session_id":   chunk.SessionID,
		"bytes":        len(chunk.Data),
		"request_id":   coreport.RequestID(ctx),
	}
}
