package storage

import (
	"context"
)

// SequenceTracker records the next expected chunk index of each upload session
type SequenceTracker interface {
	// Claim accepts index for the session and advances the expectation.
	// Index 0 always starts a new sequence.
	//
	// Possible errors:
	// - ErrChunkOutOfOrder: If index is not the expected next index
	Claim(ctx context.Context, sessionID string, index int) error

	// Forget drops the session's sequence
	Forget(ctx context.Context, sessionID string) error
}
