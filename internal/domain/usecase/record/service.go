package record

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
)

// Service handles record listing and single-record operations
type Service struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	maxLimit     int
}

// NewService creates a record service
func NewService(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// WithMaxLimit caps the page size; zero leaves it unbounded
func (s *Service) WithMaxLimit(limit int) *Service {
	s.maxLimit = limit
	return s
}

// List returns the match count and one page, both read inside one snapshot transaction
func (s *Service) List(ctx context.Context, query entity.RecordQuery) (page *usecase.RecordPage, err error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if s.maxLimit > 0 && query.Limit > s.maxLimit {
		query.Limit = s.maxLimit
	}

	txCtx, err := s.uow.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Warn("Failed to roll back listing", map[string]any{
					"error": rbErr.Error(),
				})
			}
		}
	}()

	repo := s.uow.GetRecordRepository(txCtx)

	count, err := repo.Count(txCtx, query)
	if err != nil {
		return nil, err
	}

	records, err := repo.List(txCtx, query)
	if err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	if records == nil {
		records = []entity.Record{}
	}
	return &usecase.RecordPage{Count: count, Records: records}, nil
}

// Get returns the record with id, or nil when there is none
func (s *Service) Get(ctx context.Context, id string) (*entity.Record, error) {
	return s.uow.GetRecordRepository(ctx).FindByID(ctx, id)
}

// Create stores a new record stamped with the current time
func (s *Service) Create(ctx context.Context, input usecase.RecordInput) (*entity.Record, error) {
	record, err := entity.NewRecord(input.ID, input.Login, input.Name, input.Salary, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	repo := s.uow.GetRecordRepository(ctx)

	existing, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateRecord, record.ID)
	}

	if err := repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create record", map[string]any{
			"record_id":  record.ID,
			"request_id": coreport.RequestID(ctx),
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Record created", map[string]any{
		"record_id":  record.ID,
		"request_id": coreport.RequestID(ctx),
	})
	return record, nil
}

// Update applies patch to an existing record
func (s *Service) Update(ctx context.Context, id string, patch entity.RecordPatch) (record *entity.Record, err error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", errs.ErrInvalidRequest)
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Warn("Failed to roll back update", map[string]any{
					"record_id": id,
					"error":     rbErr.Error(),
				})
			}
		}
	}()

	repo := s.uow.GetRecordRepository(txCtx)

	record, err = repo.FindByID(txCtx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrRecordNotFound, id)
	}

	if err := patch.Apply(record); err != nil {
		return nil, err
	}

	if err := repo.Update(txCtx, record); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Record updated", map[string]any{
		"record_id":  id,
		"request_id": coreport.RequestID(ctx),
	})
	return record, nil
}

// Delete removes the record with id
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.uow.GetRecordRepository(ctx).Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Record deleted", map[string]any{
		"record_id":  id,
		"request_id": coreport.RequestID(ctx),
	})
	return nil
}
