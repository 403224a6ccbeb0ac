package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerr "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	status database.HealthStatus
}

func (s stubChecker) Check(context.Context) database.HealthStatus {
	return s.status
}

func TestHealth(t *testing.T) {
	testCases := []struct {
		name   string
		status database.HealthStatus
		code   int
	}{
		{"Healthy", database.HealthStatus{Healthy: true, Driver: "sqlite"}, http.StatusOK},
		{"Unreachable", database.HealthStatus{Driver: "postgres", Error: "connection refused"}, http.StatusServiceUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler(stubChecker{tc.status}).Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), tc.status.Driver)
		})
	}
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		err    error
		status int
	}{
		{domainerr.ErrUploadLocked, http.StatusForbidden},
		{domainerr.NewChunkError("a.csv", 1, 2, "s", domainerr.ErrChunkOutOfOrder), http.StatusConflict},
		{domainerr.ErrDuplicateLogin, http.StatusConflict},
		{domainerr.ErrRecordNotFound, http.StatusNotFound},
		{domainerr.ErrArtifactNotFound, http.StatusNotFound},
		{domainerr.NewRowError(2, "e1", domainerr.ErrColumnCount), http.StatusBadRequest},
		{domainerr.ErrStorage, http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.status, StatusCode(tc.err), tc.err.Error())
	}
}
