package entity

import (
	"fmt"
	"path/filepath"
	"strings"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
)

// CSVExtension is the only accepted upload extension
const CSVExtension = ".csv"

// Chunk is one piece of a chunked upload
type Chunk struct {
	FileName  string
	Index     int
	Total     int
	SessionID string
	// ClientID identifies the caller (its address); together with FileName it keys the temp artifact
	ClientID string
	Data     []byte
}

// HasCSVExtension reports whether name ends in .csv, ignoring case
func HasCSVExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), CSVExtension)
}

// IsPlainFileName reports whether name is a bare file name without any directory part
func IsPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// Validate checks the chunk coordinates. The extension is checked first so that
// a wrong file type is reported even when other fields are also wrong.
func (c Chunk) Validate() error {
	if !HasCSVExtension(c.FileName) {
		return errs.NewChunkError(c.FileName, c.Index, c.Total, c.SessionID, errs.ErrBadExtension)
	}
	if !IsPlainFileName(c.FileName) {
		return errs.NewChunkError(c.FileName, c.Index, c.Total, c.SessionID,
			fmt.Errorf("%w: file name must not contain a path", errs.ErrInvalidChunk))
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return errs.NewChunkError(c.FileName, c.Index, c.Total, c.SessionID,
			fmt.Errorf("%w: session id is required", errs.ErrInvalidChunk))
	}
	if c.Total < 1 {
		return errs.NewChunkError(c.FileName, c.Index, c.Total, c.SessionID,
			fmt.Errorf("%w: total chunks must be at least 1", errs.ErrInvalidChunk))
	}
	if c.Index < 0 || c.Index >= c.Total {
		return errs.NewChunkError(c.FileName, c.Index, c.Total, c.SessionID,
			fmt.Errorf("%w: index %d outside [0, %d)", errs.ErrInvalidChunk, c.Index, c.Total))
	}
	return nil
}

// IsFirst reports whether this chunk starts the upload
func (c Chunk) IsFirst() bool {
	return c.Index == 0
}

// IsLast reports whether this chunk completes the upload
func (c Chunk) IsLast() bool {
	return c.Index == c.Total-1
}
