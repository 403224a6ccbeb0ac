package usecase

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
)

// RecordPage is one page of a listing together with the total match count
type RecordPage struct {
	Count   int64
	Records []entity.Record
}

// RecordInput holds the fields of a record created through the API
type RecordInput struct {
	ID     string
	Login  string
	Name   string
	Salary float64
}

// RecordService exposes listing and single-record operations
type RecordService interface {
	// List returns the total match count and one page, read from one snapshot
	List(ctx context.Context, query entity.RecordQuery) (*RecordPage, error)
	// Get returns a record by id
	Get(ctx context.Context, id string) (*entity.Record, error)
	// Create stores a new record stamped with the current time
	Create(ctx context.Context, input RecordInput) (*entity.Record, error)
	// Update changes the fields set in patch
	Update(ctx context.Context, id string, patch entity.RecordPatch) (*entity.Record, error)
	// Delete removes a record
	Delete(ctx context.Context, id string) error
}
