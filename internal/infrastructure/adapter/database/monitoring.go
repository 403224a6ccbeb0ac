package database

import (
	"errors"
	"time"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"gorm.io/gorm"
)

// QueryObserver receives the outcome of every statement gorm executes
type QueryObserver interface {
	ObserveQuery(operation, table string, duration time.Duration, err error)
}

const queryStartKey = "staff_registry:query_start"

// MetricsCollector times gorm statements and reports them to a QueryObserver
type MetricsCollector struct {
	observer      QueryObserver
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(observer QueryObserver, logger coreport.Logger, timeProvider coreport.TimeProvider) *MetricsCollector {
	return &MetricsCollector{
		observer:      observer,
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: 100 * time.Millisecond,
	}
}

// Register installs before/after callbacks around each gorm operation
func (c *MetricsCollector) Register(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", c.before),
		cb.Create().After("gorm:create").Register("metrics:after_create", c.after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", c.before),
		cb.Query().After("gorm:query").Register("metrics:after_query", c.after("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", c.before),
		cb.Update().After("gorm:update").Register("metrics:after_update", c.after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", c.before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", c.after("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", c.before),
		cb.Row().After("gorm:row").Register("metrics:after_row", c.after("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", c.before),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", c.after("raw")),
	)
}

func (c *MetricsCollector) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, c.timeProvider.Now())
}

func (c *MetricsCollector) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		value, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := value.(time.Time)
		if !ok {
			return
		}

		duration := c.timeProvider.Now().Sub(start)
		err := db.Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}
		table := db.Statement.Table

		c.observer.ObserveQuery(operation, table, duration, err)

		if duration > c.slowThreshold {
			c.logger.Warn("Slow database query detected", map[string]any{
				"operation":     operation,
				"table":         table,
				"duration_ms":   duration.Milliseconds(),
				"rows_affected": db.RowsAffected,
				"failed":        err != nil,
			})
		}
	}
}
