package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/storage"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
)

// DefaultStallTimeout is how long a single row may take before the ingest is abandoned
const DefaultStallTimeout = 5 * time.Second

// Service applies reassembled CSV files to the record store
type Service struct {
	uow          persistence.UnitOfWork
	store        storage.ChunkStore
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	stallTimeout time.Duration
}

// NewService creates an ingest service
func NewService(
	uow persistence.UnitOfWork,
	store storage.ChunkStore,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		store:        store,
		timeProvider: timeProvider,
		logger:       logger,
		stallTimeout: DefaultStallTimeout,
	}
}

// WithStallTimeout sets the per-row progress deadline
func (s *Service) WithStallTimeout(timeout time.Duration) *Service {
	if timeout > 0 {
		s.stallTimeout = timeout
	}
	return s
}

// Ingest validates the whole file, then upserts every row in one transaction.
// A zero at stamps new records with the current time.
func (s *Service) Ingest(ctx context.Context, fileName string, at time.Time) (*usecase.IngestResult, error) {
	if at.IsZero() {
		at = s.timeProvider.Now()
	}

	rows, skipped, err := s.readRows(ctx, fileName)
	if err != nil {
		fields := errs.LogFieldsOf(err)
		fields["file_name"] = fileName
		fields["request_id"] = coreport.RequestID(ctx)
		s.logger.Warn("Rejected upload file", fields)
		return nil, err
	}

	result := &usecase.IngestResult{FileName: fileName, Skipped: skipped}
	if err := s.apply(ctx, rows, at.UTC(), result); err != nil {
		fields := errs.LogFieldsOf(err)
		fields["file_name"] = fileName
		fields["request_id"] = coreport.RequestID(ctx)
		s.logger.Error("Ingest rolled back", fields)
		return nil, err
	}

	s.logger.Info("Ingest committed", map[string]any{
		"file_name":  fileName,
		"created":    result.Created,
		"updated":    result.Updated,
		"skipped":    result.Skipped,
		"request_id": coreport.RequestID(ctx),
	})
	return result, nil
}

// readRows validates every row of the artifact before the store is touched
func (s *Service) readRows(ctx context.Context, fileName string) ([]Row, int, error) {
	file, err := s.store.Open(ctx, fileName)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	parser := NewParser()
	var rows []Row
	for row, err := range parser.Rows(file) {
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, row)
	}
	return rows, parser.Skipped(), nil
}

func (s *Service) apply(ctx context.Context, rows []Row, at time.Time, result *usecase.IngestResult) (err error) {
	watchCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	watchdog := s.timeProvider.AfterFunc(coreport.Duration(s.stallTimeout), func() {
		cancel(errs.ErrIngestStalled)
	})
	defer watchdog.Stop()

	txCtx, err := s.uow.Begin(watchCtx)
	if err != nil {
		return s.stalledOr(watchCtx, err)
	}

	defer func() {
		if err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Warn("Failed to roll back ingest", map[string]any{
					"error": rbErr.Error(),
				})
			}
		}
	}()

	repo := s.uow.GetRecordRepository(txCtx)

	for _, row := range rows {
		if watchCtx.Err() != nil {
			return s.stalledOr(watchCtx, watchCtx.Err())
		}

		existing, err := repo.FindByID(txCtx, row.Record.ID)
		if err != nil {
			return s.stalledOr(watchCtx, errs.NewRowError(row.Line, row.Record.ID, err))
		}

		if existing != nil {
			existing.Login = row.Record.Login
			existing.Name = row.Record.Name
			existing.Salary = row.Record.Salary
			if err := repo.Update(txCtx, existing); err != nil {
				return s.stalledOr(watchCtx, errs.NewRowError(row.Line, row.Record.ID, err))
			}
			result.Updated++
		} else {
			record := row.Record
			record.CreatedAt = at
			if err := repo.Create(txCtx, &record); err != nil {
				return s.stalledOr(watchCtx, errs.NewRowError(row.Line, row.Record.ID, err))
			}
			result.Created++
		}

		watchdog.Reset(coreport.Duration(s.stallTimeout))
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return s.stalledOr(watchCtx, err)
	}
	return nil
}

// stalledOr reports a stall when the watchdog cancelled ctx, and err otherwise
func (s *Service) stalledOr(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), errs.ErrIngestStalled) {
		return fmt.Errorf("%w: no row completed within %s", errs.ErrIngestStalled, s.stallTimeout)
	}
	return err
}
