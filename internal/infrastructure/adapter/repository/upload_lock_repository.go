package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UploadLockRepository implements the single-row upload lock using GORM
type UploadLockRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewUploadLockRepository creates a new UploadLockRepository instance
func NewUploadLockRepository(db *gorm.DB, logger coreport.Logger) *UploadLockRepository {
	return &UploadLockRepository{
		db:     db,
		logger: logger,
	}
}

// insertIfAbsent inserts row unless the id already exists and reports the rows written
func (r *UploadLockRepository) insertIfAbsent(ctx context.Context, row *model.UploadStatus) (int64, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() == "mysql" {
		db = db.Clauses(clause.Insert{Modifier: "IGNORE"})
	} else {
		db = db.Clauses(clause.OnConflict{DoNothing: true})
	}
	result := db.Create(row)
	return result.RowsAffected, result.Error
}

// TryAcquire takes the lock for owner when it is free, already held by owner,
// or last touched at or before staleBefore. The conditional update is a single
// statement so two concurrent callers can never both win.
func (r *UploadLockRepository) TryAcquire(ctx context.Context, owner string, now, staleBefore time.Time) (bool, error) {
	now, staleBefore = now.UTC(), staleBefore.UTC()

	result := r.db.WithContext(ctx).
		Model(&model.UploadStatus{}).
		Where("id = ?", entity.MainLockID).
		Where("owner = ? OR owner = ? OR updated_at <= ?", "", owner, staleBefore).
		Updates(map[string]any{
			"uploading":  true,
			"owner":      owner,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// no row matched: either the lock is held or the row was never seeded
	inserted, err := r.insertIfAbsent(ctx, &model.UploadStatus{
		ID:        entity.MainLockID,
		Uploading: true,
		Owner:     owner,
		UpdatedAt: now,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	if inserted == 1 {
		r.logger.Info("Upload lock row created on acquire", map[string]any{
			"owner": owner,
		})
		return true, nil
	}
	return false, nil
}

// Release frees the lock regardless of who holds it
func (r *UploadLockRepository) Release(ctx context.Context, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.UploadStatus{}).
		Where("id = ?", entity.MainLockID).
		Updates(map[string]any{
			"uploading":  false,
			"owner":      "",
			"updated_at": now.UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return nil
}

// Get reads the lock row
func (r *UploadLockRepository) Get(ctx context.Context) (*entity.LockState, error) {
	var row model.UploadStatus
	err := r.db.WithContext(ctx).Where("id = ?", entity.MainLockID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state := entity.UnlockedState(time.Time{})
		return &state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return &entity.LockState{
		ID:        row.ID,
		Uploading: row.Uploading,
		Owner:     row.Owner,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Seed creates the unlocked lock row if it does not exist yet
func (r *UploadLockRepository) Seed(ctx context.Context, now time.Time) error {
	inserted, err := r.insertIfAbsent(ctx, &model.UploadStatus{
		ID:        entity.MainLockID,
		UpdatedAt: now.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	if inserted > 0 {
		r.logger.Info("Upload lock row seeded", map[string]any{
			"id": entity.MainLockID,
		})
	}
	return nil
}
