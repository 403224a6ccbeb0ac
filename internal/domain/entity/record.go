package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

// Record is a staff member entry
type Record struct {
	ID        string
	Login     string
	Name      string
	Salary    float64
	CreatedAt time.Time
}

// NewRecord creates a validated record stamped with createdAt
func NewRecord(id, login, name string, salary float64, createdAt time.Time) (*Record, error) {
	r := &Record{
		ID:        strings.TrimSpace(id),
		Login:     strings.TrimSpace(login),
		Name:      strings.TrimSpace(name),
		Salary:    salary,
		CreatedAt: createdAt,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the record invariants
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", errs.ErrInvalidRecord)
	}
	if r.Login == "" {
		return fmt.Errorf("%w: login is required", errs.ErrInvalidRecord)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidRecord)
	}
	return ValidateSalary(r.Salary)
}

// IsComment reports whether an id marks a commented-out row
func IsComment(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), "#")
}

// RecordPatch holds the mutable fields of a record; nil fields are left unchanged
type RecordPatch struct {
	Login  *string
	Name   *string
	Salary *float64
}

// Apply updates r with the non-nil fields of the patch and revalidates it
func (p RecordPatch) Apply(r *Record) error {
	updated := *r
	if p.Login != nil {
		updated.Login = strings.TrimSpace(*p.Login)
	}
	if p.Name != nil {
		updated.Name = strings.TrimSpace(*p.Name)
	}
	if p.Salary != nil {
		updated.Salary = *p.Salary
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*r = updated
	return nil
}

// IsEmpty reports whether the patch changes nothing
func (p RecordPatch) IsEmpty() bool {
	return p.Login == nil && p.Name == nil && p.Salary == nil
}
