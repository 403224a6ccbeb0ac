package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidSalary    = 4001
	CodeColumnCount      = 4002
	CodeDuplicateLogin   = 4003
	CodeBadExtension     = 4004
	CodeInvalidChunk     = 4005
	CodeInvalidSort      = 4006
	CodeInvalidHeader    = 4007
	CodeIngestStalled    = 4008
	CodeInvalidArtifact  = 4009
	CodeInvalidRequest   = 4010
	CodeInvalidRecord    = 4011
	CodeUploadLocked     = 4030
	CodeRecordNotFound   = 4040
	CodeArtifactNotFound = 4041
	CodeDuplicateRecord  = 4090
	CodeChunkOutOfOrder  = 4091

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeStorage            = 5001
	CodeDatabaseConnection = 5002
)

// Base error types
var (
	// ErrInvalidSalary is returned when a salary is not a well-formed number
	ErrInvalidSalary = errors.New("invalid salary format")

	// ErrNegativeSalary is returned when a salary is below zero
	ErrNegativeSalary = errors.New("salary cannot be negative")

	// ErrColumnCount is returned when a CSV row does not have exactly the expected columns
	ErrColumnCount = errors.New("unexpected number of columns")

	// ErrInvalidHeader is returned when the CSV header is missing or names the wrong columns
	ErrInvalidHeader = errors.New("invalid CSV header")

	// ErrInvalidRecord is returned when a record is missing its id, login or name
	ErrInvalidRecord = errors.New("invalid record")

	// ErrDuplicateLogin is returned when a login is already taken by another record
	ErrDuplicateLogin = errors.New("login already exists")

	// ErrDuplicateRecord is returned when creating a record whose id already exists
	ErrDuplicateRecord = errors.New("record already exists")

	// ErrRecordNotFound is returned when the requested record doesn't exist
	ErrRecordNotFound = errors.New("record not found")

	// ErrBadExtension is returned when an uploaded file is not a .csv file
	ErrBadExtension = errors.New("only .csv files are accepted")

	// ErrInvalidChunk is returned when chunk coordinates are out of range
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrChunkOutOfOrder is returned when a chunk arrives before its predecessors
	ErrChunkOutOfOrder = errors.New("chunk out of order")

	// ErrUploadLocked is returned when another session holds the upload slot
	ErrUploadLocked = errors.New("upload in progress")

	// ErrArtifactNotFound is returned when an uploaded file cannot be found
	ErrArtifactNotFound = errors.New("uploaded file not found")

	// ErrInvalidArtifact is returned when an uploaded file name or content is not acceptable
	ErrInvalidArtifact = errors.New("invalid uploaded file")

	// ErrIngestStalled is returned when no row made progress within the stall timeout
	ErrIngestStalled = errors.New("ingest stalled")

	// ErrInvalidSort is returned when the sort token is not a known signed column
	ErrInvalidSort = errors.New("invalid sort")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrStorage is returned for upload directory failures
	ErrStorage = errors.New("storage error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSalary), errors.Is(err, ErrNegativeSalary):
		return CodeInvalidSalary
	case errors.Is(err, ErrColumnCount):
		return CodeColumnCount
	case errors.Is(err, ErrDuplicateLogin):
		return CodeDuplicateLogin
	case errors.Is(err, ErrBadExtension):
		return CodeBadExtension
	case errors.Is(err, ErrInvalidChunk):
		return CodeInvalidChunk
	case errors.Is(err, ErrInvalidSort):
		return CodeInvalidSort
	case errors.Is(err, ErrInvalidHeader):
		return CodeInvalidHeader
	case errors.Is(err, ErrIngestStalled):
		return CodeIngestStalled
	case errors.Is(err, ErrInvalidArtifact):
		return CodeInvalidArtifact
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrInvalidRecord):
		return CodeInvalidRecord
	case errors.Is(err, ErrUploadLocked):
		return CodeUploadLocked
	case errors.Is(err, ErrRecordNotFound):
		return CodeRecordNotFound
	case errors.Is(err, ErrArtifactNotFound):
		return CodeArtifactNotFound
	case errors.Is(err, ErrDuplicateRecord):
		return CodeDuplicateRecord
	case errors.Is(err, ErrChunkOutOfOrder):
		return CodeChunkOutOfOrder
	case errors.Is(err, ErrStorage):
		return CodeStorage
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// RowError describes a CSV row that failed validation or could not be applied
type RowError struct {
	Line     int
	RecordID string
	Err      error
}

// Error implements the error interface for RowError
func (e *RowError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("row at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row at line %d (id %s): %v", e.Line, e.RecordID, e.Err)
}

// Unwrap returns the underlying error
func (e *RowError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *RowError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "row_error",
		"line":       e.Line,
		"record_id":  e.RecordID,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewRowError creates a row error for the given CSV line
func NewRowError(line int, recordID string, err error) error {
	return &RowError{
		Line:     line,
		RecordID: recordID,
		Err:      err,
	}
}

// ChunkError describes a rejected chunk of a chunked upload
type ChunkError struct {
	FileName  string
	Index     int
	Total     int
	SessionID string
	Err       error
}

// Error implements the error interface for ChunkError
func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d/%d of %s (session %s): %v",
		e.Index, e.Total, e.FileName, e.SessionID, e.Err)
}

// Unwrap returns the underlying error
func (e *ChunkError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *ChunkError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "chunk_error",
		"file_name":    e.FileName,
		"chunk_index":  e.Index,
		"total_chunks": e.Total,
		"session_id":   e.SessionID,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewChunkError creates a detailed chunk error
func NewChunkError(fileName string, index, total int, sessionID string, err error) error {
	return &ChunkError{
		FileName:  fileName,
		Index:     index,
		Total:     total,
		SessionID: sessionID,
		Err:       err,
	}
}

// LogFielder is implemented by errors that carry structured logging fields
type LogFielder interface {
	LogFields() map[string]any
}

// LogFieldsOf returns the structured fields of err, or a plain error field
func LogFieldsOf(err error) map[string]any {
	var lf LogFielder
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{"error": err.Error()}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrArtifactNotFound)
}

// IsValidationError checks if the error is a rejected-input error
func IsValidationError(err error) bool {
	code := ErrorCode(err)
	return code >= 4000 && code < 5000
}
