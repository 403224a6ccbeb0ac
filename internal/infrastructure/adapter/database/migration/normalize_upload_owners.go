package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// NormalizeUploadOwners upgrades 1.0.0 lock rows, which could carry an owner
// while not uploading, so that an empty owner always means unlocked
type NormalizeUploadOwners struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewNormalizeUploadOwners creates a new migration instance
func NewNormalizeUploadOwners(db *gorm.DB, logger coreport.Logger) *NormalizeUploadOwners {
	return &NormalizeUploadOwners{
		db:     db,
		logger: logger,
	}
}

// Run executes the migration
func (m *NormalizeUploadOwners) Run(ctx context.Context) error {
	m.logger.Info("Normalizing upload_status owners", nil)

	db := m.db.WithContext(ctx)
	if !db.Migrator().HasColumn(&model.UploadStatus{}, "owner") {
		if err := db.Migrator().AddColumn(&model.UploadStatus{}, "Owner"); err != nil {
			m.logger.Error("Failed to add owner column", map[string]any{"error": err.Error()})
			return err
		}
	}

	result := db.Model(&model.UploadStatus{}).
		Where("uploading = ? AND owner <> ?", false, "").
		Update("owner", "")
	if result.Error != nil {
		m.logger.Error("Failed to clear owners of idle upload locks", map[string]any{"error": result.Error.Error()})
		return result.Error
	}

	m.logger.Info("Normalized upload_status owners", map[string]any{
		"rows": result.RowsAffected,
	})
	return nil
}
