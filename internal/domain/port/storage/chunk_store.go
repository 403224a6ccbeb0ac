package storage

import (
	"context"
	"io"
)

// ChunkStore keeps in-flight uploads and the reassembled files they produce
type ChunkStore interface {
	// TempKey derives the in-flight artifact key for a file uploaded by a client
	TempKey(fileName, clientID string) string

	// Reset deletes the in-flight artifact if it exists
	Reset(ctx context.Context, key string) error

	// Append adds data to the end of the in-flight artifact, creating it when needed
	Append(ctx context.Context, key string, data []byte) error

	// Promote renames the in-flight artifact to a new unique final name and returns it
	//
	// Possible errors:
	// - ErrArtifactNotFound: If nothing was appended under key
	// - ErrStorage: If the rename fails
	Promote(ctx context.Context, key string) (string, error)

	// Open opens a final artifact for reading
	//
	// Possible errors:
	// - ErrInvalidArtifact: If the name is not a final artifact name or the content is not text
	// - ErrArtifactNotFound: If the artifact does not exist
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
