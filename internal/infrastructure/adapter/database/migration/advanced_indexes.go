package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific advanced indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

func (m *AdvancedIndexManager) isPostgres() bool {
	return m.db.Dialector.Name() == "postgres"
}

// CreateAdvancedIndexes creates PostgreSQL indexes for the listing queries.
// Other drivers only get the portable indexes.
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	if !m.isPostgres() {
		return nil
	}

	m.logger.Info("Creating advanced PostgreSQL indexes", nil)
	db := m.db.WithContext(ctx)

	statements := []struct {
		name string
		ddl  string
	}{
		{
			// salary range scans can be answered from the index alone
			name: "idx_users_salary_covering",
			ddl: `CREATE INDEX IF NOT EXISTS idx_users_salary_covering
				ON users (salary) INCLUDE (id, login, name, created_at)`,
		},
		{
			name: "idx_users_login_lower",
			ddl: `CREATE INDEX IF NOT EXISTS idx_users_login_lower
				ON users (lower(login))`,
		},
		{
			name: "idx_users_created_at_brin",
			ddl: `CREATE INDEX IF NOT EXISTS idx_users_created_at_brin
				ON users USING BRIN (created_at)
				WITH (pages_per_range = 32)`,
		},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.ddl).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL storage settings. Failures are only logged.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	if !m.isPostgres() {
		return
	}

	m.logger.Info("Applying PostgreSQL performance tweaks", nil)
	db := m.db.WithContext(ctx)

	// the lock row is rewritten on every chunk; leave room for HOT updates
	if err := db.Exec(`ALTER TABLE upload_status SET (fillfactor = 50)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for upload_status table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := db.Exec(`ALTER TABLE users ALTER COLUMN salary SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for salary", map[string]any{
			"error": err.Error(),
		})
	}
}
