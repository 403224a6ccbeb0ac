package uploadlock

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/persistence"
)

// Lock is the process-wide upload slot. One instance is created at boot and
// shared by every upload request.
type Lock struct {
	repo         persistence.UploadLockRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	timeout      time.Duration
}

// NewLock creates the upload lock. A non-positive timeout falls back to DefaultLockTimeout.
func NewLock(
	repo persistence.UploadLockRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	timeout time.Duration,
) *Lock {
	if timeout <= 0 {
		timeout = entity.DefaultLockTimeout
	}
	return &Lock{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
		timeout:      timeout,
	}
}

// Timeout returns how long an idle holder keeps the slot
func (l *Lock) Timeout() time.Duration {
	return l.timeout
}

// Acquire takes the slot for owner, or refreshes it when owner already holds it.
// Any storage failure denies the request.
func (l *Lock) Acquire(ctx context.Context, owner string) bool {
	now := l.timeProvider.Now()

	acquired, err := l.repo.TryAcquire(ctx, owner, now, now.Add(-l.timeout))
	if err != nil {
		l.logger.Error("Failed to acquire upload lock", map[string]any{
			"owner":      owner,
			"request_id": coreport.RequestID(ctx),
			"error":      err.Error(),
		})
		return false
	}

	if !acquired {
		l.logger.Debug("Upload lock held by another session", map[string]any{
			"owner":      owner,
			"request_id": coreport.RequestID(ctx),
		})
	}
	return acquired
}

// Release frees the slot. Failures are only logged; a stuck holder expires after the timeout.
func (l *Lock) Release(ctx context.Context) {
	if err := l.repo.Release(ctx, l.timeProvider.Now()); err != nil {
		l.logger.Warn("Failed to release upload lock", map[string]any{
			"request_id": coreport.RequestID(ctx),
			"error":      err.Error(),
		})
	}
}

// State returns the current lock row
func (l *Lock) State(ctx context.Context) (*entity.LockState, error) {
	return l.repo.Get(ctx)
}

// Seed creates the unlocked row when it does not exist yet
func (l *Lock) Seed(ctx context.Context) error {
	if err := l.repo.Seed(ctx, l.timeProvider.Now()); err != nil {
		return err
	}

	l.logger.Info("Upload lock row seeded or verified", map[string]any{
		"lock_id": entity.MainLockID,
	})
	return nil
}
