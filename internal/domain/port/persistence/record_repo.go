package persistence

import (
	"context"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
)

// RecordRepository defines the methods to interact with staff records
type RecordRepository interface {
	// FindByID retrieves a record by its id
	//
	// Possible errors:
	// - ErrRecordNotFound: If no record has the given id
	// - ErrDatabaseConnection: If database connection fails
	FindByID(ctx context.Context, id string) (*entity.Record, error)

	// Create stores a new record
	//
	// Possible errors:
	// - ErrDuplicateRecord: If a record with the same id already exists
	// - ErrDuplicateLogin: If another record already uses the login
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, record *entity.Record) error

	// Update overwrites login, name and salary of an existing record
	//
	// Possible errors:
	// - ErrRecordNotFound: If no record has the given id
	// - ErrDuplicateLogin: If another record already uses the login
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, record *entity.Record) error

	// Delete removes a record
	//
	// Possible errors:
	// - ErrRecordNotFound: If no record has the given id
	// - ErrDatabaseConnection: If database connection fails
	Delete(ctx context.Context, id string) error

	// Count returns how many records match the salary filter of the query
	Count(ctx context.Context, query entity.RecordQuery) (int64, error)

	// List returns one filtered, sorted page of records
	List(ctx context.Context, query entity.RecordQuery) ([]entity.Record, error)
}
