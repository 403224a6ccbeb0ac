package dto

import (
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
)

// RecordResponse represents a staff record in API responses
type RecordResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Salary    float64   `json:"salary"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse represents one page of a listing
type ListResponse struct {
	Count int64            `json:"count"`
	Data  []RecordResponse `json:"data"`
}

// RecordBody carries the record fields of a create or update request
type RecordBody struct {
	ID     string   `json:"id"`
	Login  *string  `json:"login"`
	Name   *string  `json:"name"`
	Salary *float64 `json:"salary"`
}

// RecordRequest wraps a record body the way clients send it: {"user": {...}}
type RecordRequest struct {
	User *RecordBody `json:"user" binding:"required"`
}

// NewRecordResponse converts a domain record
func NewRecordResponse(r *entity.Record) *RecordResponse {
	if r == nil {
		return nil
	}
	return &RecordResponse{
		ID:        r.ID,
		Login:     r.Login,
		Name:      r.Name,
		Salary:    r.Salary,
		CreatedAt: r.CreatedAt,
	}
}

// NewListResponse converts a page of domain records
func NewListResponse(count int64, records []entity.Record) ListResponse {
	data := make([]RecordResponse, 0, len(records))
	for i := range records {
		data = append(data, *NewRecordResponse(&records[i]))
	}
	return ListResponse{Count: count, Data: data}
}

// Patch returns the fields of the body that were sent
func (b *RecordBody) Patch() entity.RecordPatch {
	return entity.RecordPatch{
		Login:  b.Login,
		Name:   b.Name,
		Salary: b.Salary,
	}
}
