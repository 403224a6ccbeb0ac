package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
)

// ProgressFunc is called after every accepted chunk
type ProgressFunc func(sent, total int)

// UploadOptions tunes a chunked upload
type UploadOptions struct {
	// ChunkSize is the decoded size of each chunk; zero means DefaultChunkSize
	ChunkSize int
	// SessionID identifies the upload; empty means a fresh uuid
	SessionID string
	// MimeType goes into every chunk's data URL; empty means text/csv
	MimeType string
	// BusyRetries is how often the first chunk is retried while another
	// upload holds the slot
	BusyRetries int
	// BusyDelay is the wait between those retries; zero means one second
	BusyDelay  time.Duration
	OnProgress ProgressFunc
}

func (o *UploadOptions) withDefaults() UploadOptions {
	opts := UploadOptions{}
	if o != nil {
		opts = *o
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.MimeType == "" {
		opts.MimeType = "text/csv"
	}
	if opts.BusyDelay <= 0 {
		opts.BusyDelay = time.Second
	}
	return opts
}

// ChunkCount returns how many chunks a payload of size bytes is split into
func ChunkCount(size int64, chunkSize int) int {
	if size <= 0 {
		return 1
	}
	return int((size + int64(chunkSize) - 1) / int64(chunkSize))
}

// UploadFile uploads the file at path under its base name
func (c *Client) UploadFile(ctx context.Context, path string, opts *UploadOptions) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("reading file info: %w", err)
	}
	if info.IsDir() {
		return "", &ValidationError{Field: "path", Message: "is a directory"}
	}

	return c.Upload(ctx, filepath.Base(path), f, info.Size(), opts)
}

// Upload sends size bytes of r as a chunked upload named name and returns
// the name the server stored the reassembled file under
func (c *Client) Upload(ctx context.Context, name string, r io.Reader, size int64, opts *UploadOptions) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &ValidationError{Field: "name", Message: "is required"}
	}
	if size < 0 {
		return "", &ValidationError{Field: "size", Message: "cannot be negative"}
	}
	o := opts.withDefaults()

	total := ChunkCount(size, o.ChunkSize)
	buf := make([]byte, o.ChunkSize)
	remaining := size

	for index := 0; index < total; index++ {
		n := int(min(int64(o.ChunkSize), remaining))
		if _, err := io.ReadFull(r, buf[:n]); err != nil {
			return "", fmt.Errorf("reading chunk %d: %w", index, err)
		}
		remaining -= int64(n)

		chunk := chunkRequest{
			name:      name,
			index:     index,
			total:     total,
			sessionID: o.SessionID,
			body:      dto.EncodeDataURL(o.MimeType, buf[:n]),
		}

		var (
			stored string
			err    error
		)
		if index == 0 {
			stored, err = c.sendFirstChunk(ctx, chunk, o)
		} else {
			stored, err = c.sendChunk(ctx, chunk)
		}
		if err != nil {
			return "", fmt.Errorf("uploading chunk %d of %d: %w", index+1, total, err)
		}

		if o.OnProgress != nil {
			o.OnProgress(index+1, total)
		}
		if index == total-1 {
			return stored, nil
		}
	}

	return "", errors.New("upload finished without a final chunk")
}

// sendFirstChunk retries while another upload holds the slot
func (c *Client) sendFirstChunk(ctx context.Context, chunk chunkRequest, o UploadOptions) (string, error) {
	for attempt := 0; ; attempt++ {
		stored, err := c.sendChunk(ctx, chunk)
		if err == nil || !errors.Is(err, ErrUploadBusy) || attempt >= o.BusyRetries {
			return stored, err
		}

		timer := time.NewTimer(o.BusyDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

type chunkRequest struct {
	name      string
	index     int
	total     int
	sessionID string
	body      string
}

func (c *Client) sendChunk(ctx context.Context, chunk chunkRequest) (string, error) {
	query := url.Values{}
	query.Set("name", chunk.name)
	query.Set("currentChunkIndex", strconv.Itoa(chunk.index))
	query.Set("totalChunks", strconv.Itoa(chunk.total))
	query.Set("id", chunk.sessionID)

	if chunk.index < chunk.total-1 {
		var ack string
		if err := c.do(ctx, http.MethodPost, "/users/uploadUserFile", query, strings.NewReader(chunk.body), "text/plain", &ack); err != nil {
			return "", err
		}
		return "", nil
	}

	var done dto.UploadCompleteResponse
	if err := c.do(ctx, http.MethodPost, "/users/uploadUserFile", query, strings.NewReader(chunk.body), "text/plain", &done); err != nil {
		return "", err
	}
	return done.Name, nil
}
