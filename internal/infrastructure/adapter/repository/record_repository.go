package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository implements persistence.RecordRepository using GORM
type RecordRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewRecordRepository creates a new RecordRepository instance
func NewRecordRepository(db *gorm.DB, logger coreport.Logger) *RecordRepository {
	return &RecordRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func modelToEntity(m *model.Record) *entity.Record {
	return &entity.Record{
		ID:        m.ID,
		Login:     m.Login,
		Name:      m.Name,
		Salary:    m.Salary,
		CreatedAt: m.CreatedAt,
	}
}

func entityToModel(r *entity.Record) *model.Record {
	return &model.Record{
		ID:        r.ID,
		Login:     r.Login,
		Name:      r.Name,
		Salary:    r.Salary,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// handleDatabaseError standardizes database error handling
func (r *RecordRepository) handleDatabaseError(ctx context.Context, operation string, err error, id string) error {
	fields := map[string]any{
		"record_id":  id,
		"error":      err.Error(),
		"request_id": coreport.RequestID(ctx),
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrRecordNotFound
	case r.errorClassifier.IsDuplicateKeyError(err):
		domainErr := r.errorClassifier.DuplicateError(err)
		r.logger.Warn(fmt.Sprintf("Duplicate key when %s", operation), fields)
		return fmt.Errorf("%w: %s", domainErr, id)
	case r.errorClassifier.IsCheckError(err):
		r.logger.Warn(fmt.Sprintf("Check constraint failed when %s", operation), fields)
		return fmt.Errorf("%w: %s", errs.ErrNegativeSalary, id)
	case isContextError(err):
		r.logger.Warn(fmt.Sprintf("Context ended when %s", operation), fields)
		return err
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), fields)
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// FindByID retrieves a record by id, returning nil when it does not exist
func (r *RecordRepository) FindByID(ctx context.Context, id string) (*entity.Record, error) {
	var m model.Record
	result := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&m)
	if result.Error != nil {
		return nil, r.handleDatabaseError(ctx, "finding record", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return modelToEntity(&m), nil
}

// Create inserts a new record
func (r *RecordRepository) Create(ctx context.Context, record *entity.Record) error {
	result := r.db.WithContext(ctx).Create(entityToModel(record))
	if result.Error != nil {
		return r.handleDatabaseError(ctx, "creating record", result.Error, record.ID)
	}

	r.logger.Debug("Record created", map[string]any{
		"record_id": record.ID,
		"login":     record.Login,
	})
	return nil
}

// Update overwrites login, name and salary of an existing record
func (r *RecordRepository) Update(ctx context.Context, record *entity.Record) error {
	result := r.db.WithContext(ctx).
		Model(&model.Record{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"login":  record.Login,
			"name":   record.Name,
			"salary": record.Salary,
		})
	if result.Error != nil {
		return r.handleDatabaseError(ctx, "updating record", result.Error, record.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRecordNotFound
	}

	r.logger.Debug("Record updated", map[string]any{
		"record_id": record.ID,
		"login":     record.Login,
	})
	return nil
}

// Delete removes a record by id
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Record{})
	if result.Error != nil {
		return r.handleDatabaseError(ctx, "deleting record", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRecordNotFound
	}

	r.logger.Info("Record deleted", map[string]any{
		"record_id": id,
	})
	return nil
}

// filtered applies the salary bounds of the query
func (r *RecordRepository) filtered(ctx context.Context, query entity.RecordQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Record{})
	min, max := query.SalaryBounds()
	if min != nil {
		db = db.Where("salary >= ?", *min)
	}
	if max != nil {
		db = db.Where("salary <= ?", *max)
	}
	return db
}

// Count returns the number of records matching the salary filter
func (r *RecordRepository) Count(ctx context.Context, query entity.RecordQuery) (int64, error) {
	var count int64
	if err := r.filtered(ctx, query).Count(&count).Error; err != nil {
		return 0, r.handleDatabaseError(ctx, "counting records", err, "")
	}
	return count, nil
}

// List returns one page of records matching the query
func (r *RecordRepository) List(ctx context.Context, query entity.RecordQuery) ([]entity.Record, error) {
	db := r.filtered(ctx, query)
	if !query.Sort.IsNatural() {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(query.Sort.Column)},
			Desc:   query.Sort.Descending,
		})
	}

	var models []model.Record
	if err := db.Offset(query.Offset).Limit(query.Limit).Find(&models).Error; err != nil {
		return nil, r.handleDatabaseError(ctx, "listing records", err, "")
	}

	records := make([]entity.Record, 0, len(models))
	for i := range models {
		records = append(records, *modelToEntity(&models[i]))
	}
	return records, nil
}
