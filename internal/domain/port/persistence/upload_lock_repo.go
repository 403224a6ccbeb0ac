package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
)

// UploadLockRepository stores the single upload lock row
type UploadLockRepository interface {
	// TryAcquire marks the lock as held by owner in one conditional write.
	// It succeeds when the lock is free, already held by owner, or was last touched
	// at or before staleBefore. The row is created when it does not exist yet.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	TryAcquire(ctx context.Context, owner string, now, staleBefore time.Time) (bool, error)

	// Release clears the owner and the uploading flag
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Release(ctx context.Context, now time.Time) error

	// Get returns the current lock row, or an unlocked state when the row has not been seeded
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Get(ctx context.Context) (*entity.LockState, error)

	// Seed creates the unlocked row if it is absent and leaves an existing row untouched
	Seed(ctx context.Context, now time.Time) error
}
