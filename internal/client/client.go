// Package client talks to the staff registry HTTP API: chunked CSV uploads,
// ingest and record listings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
)

// DefaultChunkSize is the decoded size of every chunk but the last
const DefaultChunkSize = 256 << 10

// Config configures a Client
type Config struct {
	BaseURL string
	// Timeout bounds each request; zero means one minute
	Timeout time.Duration
	// HTTPClient replaces the default client, mainly for tests
	HTTPClient *http.Client
}

// Client is a staff registry API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at cfg.BaseURL
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &ValidationError{Field: "BaseURL", Message: "is required"}
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &ValidationError{Field: "BaseURL", Message: "must be a valid URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &ValidationError{Field: "BaseURL", Message: "must use http or https"}
	}
	if parsed.Host == "" {
		return nil, &ValidationError{Field: "BaseURL", Message: "must include a host"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, target any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
			apiErr.Line = errResp.Line
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body), "application/json", target)
}

// Ingest applies an uploaded file. A zero at lets the server use its clock.
func (c *Client) Ingest(ctx context.Context, fileName string, at time.Time) (*dto.IngestResponse, error) {
	req := dto.IngestRequest{FileName: fileName}
	if !at.IsZero() {
		req.Time = at.UTC().Format(time.RFC3339Nano)
	}

	var result dto.IngestResponse
	if err := c.postJSON(ctx, "/users/upload", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOptions selects a page of records
type ListOptions struct {
	MinSalary *float64
	MaxSalary *float64
	Offset    int
	// Limit of zero uses the server default
	Limit int
	// Sort is a signed column such as "+salary" or "-name"
	Sort string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.MinSalary != nil {
		q.Set("minSalary", strconv.FormatFloat(*o.MinSalary, 'f', -1, 64))
	}
	if o.MaxSalary != nil {
		q.Set("maxSalary", strconv.FormatFloat(*o.MaxSalary, 'f', -1, 64))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	return q
}

// List returns one page of records and the total match count
func (c *Client) List(ctx context.Context, opts ListOptions) (*dto.ListResponse, error) {
	var page dto.ListResponse
	if err := c.do(ctx, http.MethodGet, "/users", opts.values(), nil, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns one record, or nil when it does not exist
func (c *Client) Get(ctx context.Context, id string) (*dto.RecordResponse, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Message: "is required"}
	}
	var record *dto.RecordResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, "", &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Status reports the holder of the upload slot
func (c *Client) Status(ctx context.Context) (*dto.LockStatusResponse, error) {
	var status dto.LockStatusResponse
	if err := c.do(ctx, http.MethodGet, "/users/upload/status", nil, nil, "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
