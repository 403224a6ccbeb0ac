package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	coremocks "github.com/amirhossein-jamali/staff-registry/mocks/port/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type httpCall struct {
	method string
	route  string
	status int
}

type recordingHTTPObserver struct {
	mu    sync.Mutex
	calls []httpCall
}

func (o *recordingHTTPObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, httpCall{method, route, status})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = coreport.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", seen)
	})
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	logger := coremocks.NewMockLogger(t)
	logger.On("Error", "Panic recovered in API request", mock.MatchedBy(func(f map[string]any) bool {
		return f["path"] == "/boom" && f["error"] == "kaboom"
	})).Once()

	router := gin.New()
	router.Use(ErrorHandler(logger))
	router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":5000,"message":"Internal server error"}`, w.Body.String())
}

func TestLogger(t *testing.T) {
	clock := coremocks.NewFakeTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	logger := coremocks.NewMockLogger(t)
	logger.On("Info", "Request processed", mock.MatchedBy(func(f map[string]any) bool {
		return f["route"] == "/users/:id" && f["path"] == "/users/e1" &&
			f["status"] == http.StatusNotFound && f["status_text"] == "Client Error"
	})).Once()
	logger.On("Debug", "Request processed", mock.MatchedBy(func(f map[string]any) bool {
		return f["route"] == "/users/uploadUserFile"
	})).Once()

	router := gin.New()
	router.Use(Logger(logger, clock))
	router.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.POST("/users/uploadUserFile", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/e1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/users/uploadUserFile", nil))
}

func TestMetrics(t *testing.T) {
	observer := &recordingHTTPObserver{}
	router := gin.New()
	router.Use(Metrics(observer, coremocks.NewFakeTimeProvider(time.Now())))
	router.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/e1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, []httpCall{
		{http.MethodGet, "/users/:id", http.StatusOK},
		{http.MethodGet, "", http.StatusNotFound},
	}, observer.calls)
}

func TestCORS(t *testing.T) {
	newRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(origins...))
		router.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}
	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/users", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		return req
	}

	t.Run("Allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		newRouter("http://localhost:3000").ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Values("Vary"), "Origin")
	})

	t.Run("Foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		newRouter("http://localhost:3000").ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("No origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("http://localhost:3000").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight from allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("http://localhost:3000").ServeHTTP(w, preflight("http://localhost:3000"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})

	t.Run("Preflight from foreign origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("http://localhost:3000").ServeHTTP(w, preflight("http://evil.example"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("OPTIONS without origin reaches routing", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("http://localhost:3000").ServeHTTP(w, preflight(""))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Any origin", func(t *testing.T) {
		for _, origins := range [][]string{nil, {"*"}} {
			w := httptest.NewRecorder()
			newRouter(origins...).ServeHTTP(w, preflight("http://anywhere.example"))

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}
