// Package filesystem keeps in-flight uploads and reassembled CSV files in a local directory.
package filesystem

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
)

// TempPrefix marks in-flight artifacts; they can never be ingested
const TempPrefix = "tmp_"

const textPlain = "text/plain"

// Store is a ChunkStore rooted at one upload directory
type Store struct {
	dir    string
	logger coreport.Logger
}

// NewStore creates the upload directory if needed
func NewStore(dir string, logger coreport.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %s", errs.ErrStorage, err.Error())
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the upload directory
func (s *Store) Dir() string {
	return s.dir
}

// TempKey derives the in-flight name from the file name and the uploading client
func (s *Store) TempKey(fileName, clientID string) string {
	sum := md5.Sum([]byte(fileName + clientID))
	return TempPrefix + hex.EncodeToString(sum[:]) + entity.CSVExtension
}

// Reset removes the in-flight artifact if present
func (s *Store) Reset(ctx context.Context, key string) error {
	path, err := s.path(ctx, key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: reset %s: %s", errs.ErrStorage, key, err.Error())
	}
	return nil
}

// Append writes data at the end of the in-flight artifact
func (s *Store) Append(ctx context.Context, key string, data []byte) error {
	path, err := s.path(ctx, key)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %s", errs.ErrStorage, key, err.Error())
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("%w: append %s: %s", errs.ErrStorage, key, err.Error())
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %s", errs.ErrStorage, key, err.Error())
	}
	return nil
}

// Promote renames the in-flight artifact to a fresh time-ordered name
func (s *Store) Promote(ctx context.Context, key string) (string, error) {
	path, err := s.path(ctx, key)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", errs.ErrArtifactNotFound, key)
		}
		return "", fmt.Errorf("%w: stat %s: %s", errs.ErrStorage, key, err.Error())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: generate name: %s", errs.ErrStorage, err.Error())
	}
	name := id.String() + entity.CSVExtension

	if err := os.Rename(path, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("%w: promote %s: %s", errs.ErrStorage, key, err.Error())
	}

	s.logger.Debug("Upload promoted", map[string]any{
		"temp_key": key,
		"artifact": name,
	})
	return name, nil
}

// Open returns a reader over a final artifact after checking that it looks like text
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !IsArtifactName(name) {
		return nil, fmt.Errorf("%w: %q is not an uploaded file name", errs.ErrInvalidArtifact, name)
	}

	path, err := s.path(ctx, name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrArtifactNotFound, name)
		}
		return nil, fmt.Errorf("%w: open %s: %s", errs.ErrStorage, name, err.Error())
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: stat %s: %s", errs.ErrStorage, name, err.Error())
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", errs.ErrInvalidArtifact, name)
	}

	// an empty file is left to the CSV header check
	if info.Size() == 0 {
		return file, nil
	}

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: sniff %s: %s", errs.ErrStorage, name, err.Error())
	}
	if !isText(detected) {
		file.Close()
		return nil, fmt.Errorf("%w: %s has content type %s", errs.ErrInvalidArtifact, name, detected.String())
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: rewind %s: %s", errs.ErrStorage, name, err.Error())
	}
	return file, nil
}

// IsArtifactName reports whether name can refer to a final artifact
func IsArtifactName(name string) bool {
	return entity.IsPlainFileName(name) &&
		entity.HasCSVExtension(name) &&
		!strings.HasPrefix(name, TempPrefix)
}

// isText walks the detected type up to its root looking for text/plain
func isText(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(textPlain) {
			return true
		}
	}
	return false
}

func (s *Store) path(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !entity.IsPlainFileName(name) {
		return "", fmt.Errorf("%w: %q is not a plain file name", errs.ErrInvalidArtifact, name)
	}
	return filepath.Join(s.dir, name), nil
}
