package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"gorm.io/gorm"
)

// PoolObserver receives periodic connection pool statistics
type PoolObserver interface {
	ObservePool(stats sql.DBStats)
}

// ConnectionPoolMonitor monitors the database connection pool
type ConnectionPoolMonitor struct {
	db       *gorm.DB
	logger   coreport.Logger
	observer PoolObserver
	cache    sql.DBStats
	mutex    sync.RWMutex
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewConnectionPoolMonitor creates a new connection pool monitor. observer may be nil.
func NewConnectionPoolMonitor(db *gorm.DB, logger coreport.Logger, observer PoolObserver) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		db:       db,
		logger:   logger,
		observer: observer,
		stopChan: make(chan struct{}),
	}
}

// Start begins monitoring the connection pool
func (m *ConnectionPoolMonitor) Start(interval time.Duration) error {
	if err := m.collectMetrics(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.collectMetrics(); err != nil {
					m.logger.Error("Failed to collect connection pool metrics", map[string]any{
						"error": err.Error(),
					})
				}
			case <-m.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop stops the monitoring
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// GetMetrics returns the last collected connection pool statistics
func (m *ConnectionPoolMonitor) GetMetrics() sql.DBStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.cache
}

// collectMetrics collects current connection pool metrics
func (m *ConnectionPoolMonitor) collectMetrics() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	stats := sqlDB.Stats()

	m.mutex.Lock()
	m.cache = stats
	m.mutex.Unlock()

	if m.observer != nil {
		m.observer.ObservePool(stats)
	}

	threshold := float64(stats.MaxOpenConnections) * 0.8
	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > threshold {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
	}

	return nil
}

// HealthStatus is the result of a database health check
type HealthStatus struct {
	Healthy         bool   `json:"healthy"`
	Driver          string `json:"driver"`
	OpenConnections int    `json:"openConnections"`
	InUse           int    `json:"inUse"`
	Error           string `json:"error,omitempty"`
}

// HealthChecker checks database connectivity on demand
type HealthChecker struct {
	db      *gorm.DB
	logger  coreport.Logger
	timeout time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *gorm.DB, logger coreport.Logger) *HealthChecker {
	return &HealthChecker{
		db:      db,
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// Check pings the database and reports pool usage
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Driver: h.db.Dialector.Name()}

	sqlDB, err := h.db.DB()
	if err != nil {
		status.Error = err.Error()
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		h.logger.Error("Database ping failed", map[string]any{
			"error": err.Error(),
		})
		status.Error = err.Error()
		return status
	}

	stats := sqlDB.Stats()
	status.Healthy = true
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	return status
}
