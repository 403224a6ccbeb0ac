package handler

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports database health
type HealthChecker interface {
	Check(ctx context.Context) database.HealthStatus
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string                `json:"status"`
	Database database.HealthStatus `json:"database"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	db := h.checker.Check(c.Request.Context())
	if !db.Healthy {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: db})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: db})
}
