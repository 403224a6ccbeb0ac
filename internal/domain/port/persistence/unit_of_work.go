package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new read-write transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// BeginSnapshot starts a transaction whose reads all observe the same snapshot
	BeginSnapshot(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetRecordRepository returns a record repository bound to the current transaction
	GetRecordRepository(ctx context.Context) RecordRepository
}
