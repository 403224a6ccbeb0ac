package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

// DefaultPageLimit is the page size used when the caller gives none
const DefaultPageLimit = 30

// SortColumn is a record column that listings can be ordered by
type SortColumn string

// Sortable columns
const (
	SortByID     SortColumn = "id"
	SortByLogin  SortColumn = "login"
	SortByName   SortColumn = "name"
	SortBySalary SortColumn = "salary"
)

var sortColumns = map[SortColumn]bool{
	SortByID:     true,
	SortByLogin:  true,
	SortByName:   true,
	SortBySalary: true,
}

// SortOrder orders a listing by one column. The zero value means store order.
type SortOrder struct {
	Column     SortColumn
	Descending bool
}

// ParseSort parses a signed column token such as "+salary" or "-name"
func ParseSort(token string) (SortOrder, error) {
	if token == "" {
		return SortOrder{}, nil
	}
	// a literal + in a query string decodes to a space
	if token[0] == ' ' {
		token = "+" + token[1:]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return SortOrder{}, nil
	}

	var order SortOrder
	switch token[0] {
	case '+':
	case '-':
		order.Descending = true
	default:
		return SortOrder{}, fmt.Errorf("%w: %q must start with + or -", errs.ErrInvalidSort, token)
	}

	column := SortColumn(token[1:])
	if !sortColumns[column] {
		return SortOrder{}, fmt.Errorf("%w: unknown column %q", errs.ErrInvalidSort, token[1:])
	}
	order.Column = column
	return order, nil
}

// IsNatural reports whether no explicit ordering was requested
func (s SortOrder) IsNatural() bool {
	return s.Column == ""
}

// String renders the order back to its token form
func (s SortOrder) String() string {
	if s.IsNatural() {
		return ""
	}
	if s.Descending {
		return "-" + string(s.Column)
	}
	return "+" + string(s.Column)
}

// RecordQuery selects a page of records
type RecordQuery struct {
	MinSalary *float64
	MaxSalary *float64
	Offset    int
	Limit     int
	Sort      SortOrder
}

// NewRecordQuery returns a query with the default paging
func NewRecordQuery() RecordQuery {
	return RecordQuery{Limit: DefaultPageLimit}
}

// SalaryBounds returns the bounds that apply to the listing.
// An inverted range (min > max) disables salary filtering entirely.
func (q RecordQuery) SalaryBounds() (min, max *float64) {
	if q.MinSalary != nil && q.MaxSalary != nil && *q.MinSalary > *q.MaxSalary {
		return nil, nil
	}
	return q.MinSalary, q.MaxSalary
}

// Validate checks the paging parameters
func (q RecordQuery) Validate() error {
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset cannot be negative", errs.ErrInvalidRequest)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", errs.ErrInvalidRequest)
	}
	return nil
}
