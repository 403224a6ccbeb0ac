package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
)

// fakeServer reassembles chunks the way the API does and records what it saw
type fakeServer struct {
	mu        sync.Mutex
	chunks    map[int][]byte
	sessions  []string
	busyFirst int
	query     string
	ingested  dto.IngestRequest
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/uploadUserFile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		q := r.URL.Query()
		index, _ := strconv.Atoi(q.Get("currentChunkIndex"))
		total, _ := strconv.Atoi(q.Get("totalChunks"))

		if index == 0 && f.busyFirst > 0 {
			f.busyFirst--
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Code: 4030, Message: "upload in progress"})
			return
		}

		body, _ := io.ReadAll(r.Body)
		data, err := dto.DecodeDataURL(body)
		if !assert.NoError(t, err) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Code: 4005, Message: err.Error()})
			return
		}

		f.chunks[index] = data
		f.sessions = append(f.sessions, q.Get("id"))
		if index < total-1 {
			writeJSON(w, http.StatusOK, dto.ChunkAcceptedResponse)
			return
		}
		writeJSON(w, http.StatusOK, dto.UploadCompleteResponse{Name: q.Get("name")})
	})

	mux.HandleFunc("POST /users/upload", func(w http.ResponseWriter, r *http.Request) {
		f.ingested = dto.IngestRequest{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.ingested))
		if f.ingested.FileName == "broken.csv" {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Code: 4001, Message: "invalid salary", Line: 3})
			return
		}
		writeJSON(w, http.StatusOK, dto.IngestResponse{FileName: f.ingested.FileName, Created: 2, Updated: 1})
	})

	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		f.query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, dto.ListResponse{Count: 7, Data: []dto.RecordResponse{{ID: "e1", Login: "l1", Salary: 10}}})
	})

	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "e1" {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, dto.RecordResponse{ID: "e1", Login: "l1"})
	})

	mux.HandleFunc("GET /users/upload/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.LockStatusResponse{Uploading: true, Owner: "10.0.0.7"})
	})

	return mux
}

func (f *fakeServer) assembled() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out bytes.Buffer
	for i := 0; i < len(f.chunks); i++ {
		out.Write(f.chunks[i])
	}
	return out.Bytes()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	fake := &fakeServer{chunks: map[int][]byte{}}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, fake
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL string
	}{
		{"Empty", ""},
		{"Bad scheme", "ftp://example.com"},
		{"No host", "http://"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tc.baseURL})
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	c, err := New(Config{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestChunkCount(t *testing.T) {
	assert.Equal(t, 1, ChunkCount(0, 4))
	assert.Equal(t, 1, ChunkCount(4, 4))
	assert.Equal(t, 2, ChunkCount(5, 4))
	assert.Equal(t, 3, ChunkCount(12, 4))
}

func TestUpload(t *testing.T) {
	c, fake := newTestClient(t)
	content := []byte("id,login,name,salary\ne1,l1,n1,10\ne2,l2,n2,20\n")

	var progress []int
	name, err := c.Upload(context.Background(), "staff.csv", bytes.NewReader(content), int64(len(content)), &UploadOptions{
		ChunkSize:  16,
		SessionID:  "session-1",
		OnProgress: func(sent, total int) { progress = append(progress, sent*10+total) },
	})
	require.NoError(t, err)

	assert.Equal(t, "staff.csv", name)
	assert.Equal(t, content, fake.assembled())
	assert.Equal(t, []int{13, 23, 33}, progress)
	assert.Equal(t, []string{"session-1", "session-1", "session-1"}, fake.sessions)
}

func TestUploadEmptyFile(t *testing.T) {
	c, fake := newTestClient(t)

	name, err := c.Upload(context.Background(), "empty.csv", strings.NewReader(""), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "empty.csv", name)
	assert.Len(t, fake.sessions, 1)
	assert.NotEmpty(t, fake.sessions[0])
}

func TestUploadShortReader(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Upload(context.Background(), "staff.csv", strings.NewReader("abc"), 10, nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestUploadBusySlot(t *testing.T) {
	t.Run("Retries until the slot frees", func(t *testing.T) {
		c, fake := newTestClient(t)
		fake.busyFirst = 2

		name, err := c.Upload(context.Background(), "staff.csv", strings.NewReader("id\n"), 3, &UploadOptions{
			BusyRetries: 3,
			BusyDelay:   time.Millisecond,
		})
		require.NoError(t, err)
		assert.Equal(t, "staff.csv", name)
	})

	t.Run("Gives up", func(t *testing.T) {
		c, fake := newTestClient(t)
		fake.busyFirst = 5

		_, err := c.Upload(context.Background(), "staff.csv", strings.NewReader("id\n"), 3, &UploadOptions{
			BusyRetries: 1,
			BusyDelay:   time.Millisecond,
		})
		assert.ErrorIs(t, err, ErrUploadBusy)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 4030, apiErr.Code)
	})
}

func TestUploadValidation(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Upload(context.Background(), " ", strings.NewReader(""), 0, nil)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = c.UploadFile(context.Background(), t.TempDir(), nil)
	assert.ErrorAs(t, err, &validationErr)
}

func TestIngest(t *testing.T) {
	c, fake := newTestClient(t)

	result, err := c.Ingest(context.Background(), "staff.csv", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "2024-03-01T10:00:00Z", fake.ingested.Time)

	_, err = c.Ingest(context.Background(), "broken.csv", time.Time{})
	assert.ErrorIs(t, err, ErrBadRequest)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 3, apiErr.Line)
	assert.Contains(t, apiErr.Error(), "line 3")
	assert.Empty(t, fake.ingested.Time)
}

func TestList(t *testing.T) {
	c, fake := newTestClient(t)
	minSalary := 0.0
	maxSalary := 4000.5

	page, err := c.List(context.Background(), ListOptions{
		MinSalary: &minSalary,
		MaxSalary: &maxSalary,
		Offset:    5,
		Limit:     10,
		Sort:      "+name",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), page.Count)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "limit=10&maxSalary=4000.5&minSalary=0&offset=5&sort=%2Bname", fake.query)
}

func TestGet(t *testing.T) {
	c, _ := newTestClient(t)

	record, err := c.Get(context.Background(), "e1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "l1", record.Login)

	missing, err := c.Get(context.Background(), "e9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStatus(t *testing.T) {
	c, _ := newTestClient(t)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Uploading)
	assert.Equal(t, "10.0.0.7", status.Owner)
}

func TestAPIErrorIs(t *testing.T) {
	assert.ErrorIs(t, &APIError{StatusCode: 404}, ErrNotFound)
	assert.ErrorIs(t, &APIError{StatusCode: 409}, ErrConflict)
	assert.ErrorIs(t, &APIError{StatusCode: 503}, ErrServerError)
	assert.NotErrorIs(t, &APIError{StatusCode: 400}, ErrServerError)
	assert.Equal(t, "Not Found (status 404, code 0)", (&APIError{StatusCode: 404}).Error())
}
