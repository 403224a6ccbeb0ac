package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/model"
	timeprovider "github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/time"
	"gorm.io/gorm"
)

// TestDBManager provides utilities for testing with a migrated SQLite database
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager creates a connected, migrated database in a temp directory.
// The connection is closed when the test ends.
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()

	config := &Config{
		Driver:          DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "staff_registry_test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
		RetryDelay:      0,
	}

	manager := NewManager(config, logger, timeProvider)
	if _, err := manager.Connect(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.MigrationManager().MigrateAll(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// DB returns the test database handle
func (m *TestDBManager) DB() *gorm.DB {
	return m.Manager.DB()
}

// TruncateAllTables deletes every row from the application tables
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	db := m.Manager.DB()
	for _, table := range []any{&model.Record{}, &model.UploadStatus{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			t.Fatalf("Failed to truncate table: %v", err)
		}
	}
}

// CreateTestRecord inserts a record row directly
func (m *TestDBManager) CreateTestRecord(t *testing.T, id, login, name string, salary float64) {
	t.Helper()

	record := model.Record{
		ID:        id,
		Login:     login,
		Name:      name,
		Salary:    salary,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := m.Manager.DB().Create(&record).Error; err != nil {
		t.Fatalf("Failed to create test record: %v", err)
	}
}

// ConnectedManager returns a connected Manager for cfg, for tests that need their own settings
func ConnectedManager(t *testing.T, cfg *Config, logger coreport.Logger, opts ...Option) *Manager {
	t.Helper()

	manager := NewManager(cfg, logger, timeprovider.NewRealTimeProvider(), opts...)
	if _, err := manager.Connect(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}
