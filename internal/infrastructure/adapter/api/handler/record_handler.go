package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/staff-registry/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// RecordHandler handles the staff record endpoints
type RecordHandler struct {
	records      usecase.RecordService
	logger       coreport.Logger
	defaultLimit int
}

// NewRecordHandler creates a new record handler instance
func NewRecordHandler(records usecase.RecordService, logger coreport.Logger) *RecordHandler {
	return &RecordHandler{
		records:      records,
		logger:       logger,
		defaultLimit: entity.DefaultPageLimit,
	}
}

// WithDefaultLimit sets the page size used when the request has no limit
func (h *RecordHandler) WithDefaultLimit(limit int) *RecordHandler {
	if limit > 0 {
		h.defaultLimit = limit
	}
	return h
}

// List handles GET /users
func (h *RecordHandler) List(c *gin.Context) {
	query, err := h.parseQuery(c)
	if err != nil {
		respondError(c, h.logger, http.StatusBadRequest, "Invalid listing parameters", err)
		return
	}

	page, err := h.records.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, StatusCode(err), "Failed to list records", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(page.Count, page.Records))
}

func (h *RecordHandler) parseQuery(c *gin.Context) (entity.RecordQuery, error) {
	query := entity.NewRecordQuery()
	query.Limit = h.defaultLimit

	var err error
	if query.MinSalary, err = optionalSalary(c, "minSalary"); err != nil {
		return query, err
	}
	if query.MaxSalary, err = optionalSalary(c, "maxSalary"); err != nil {
		return query, err
	}
	if raw := c.Query("offset"); raw != "" {
		if query.Offset, err = strconv.Atoi(raw); err != nil {
			return query, fmt.Errorf("%w: offset %q is not an integer", domainerr.ErrInvalidRequest, raw)
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if query.Limit, err = strconv.Atoi(raw); err != nil {
			return query, fmt.Errorf("%w: limit %q is not an integer", domainerr.ErrInvalidRequest, raw)
		}
	}
	if query.Sort, err = entity.ParseSort(c.Query("sort")); err != nil {
		return query, err
	}
	return query, query.Validate()
}

func optionalSalary(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := entity.ParseSalary(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &value, nil
}

// Get handles GET /users/:id. A missing record is a null body.
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, StatusCode(err), "Failed to get record", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecordResponse(record))
}

// Create handles POST /users/:id
func (h *RecordHandler) Create(c *gin.Context) {
	id := c.Param("id")
	body, ok := h.bindBody(c, id)
	if !ok {
		return
	}

	input := usecase.RecordInput{ID: id}
	if body.Login != nil {
		input.Login = *body.Login
	}
	if body.Name != nil {
		input.Name = *body.Name
	}
	if body.Salary != nil {
		input.Salary = *body.Salary
	}

	record, err := h.records.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, StatusCode(err), "Failed to create record", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecordResponse(record))
}

// Update handles PATCH /users/:id
func (h *RecordHandler) Update(c *gin.Context) {
	id := c.Param("id")
	body, ok := h.bindBody(c, id)
	if !ok {
		return
	}

	record, err := h.records.Update(c.Request.Context(), id, body.Patch())
	if err != nil {
		respondError(c, h.logger, StatusCode(err), "Failed to update record", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecordResponse(record))
}

// Delete handles DELETE /users/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, StatusCode(err), "Failed to delete record", err)
		return
	}

	c.Status(http.StatusOK)
}

// bindBody decodes {"user": {...}}. The path id is authoritative; a different body id is rejected.
func (h *RecordHandler) bindBody(c *gin.Context, id string) (*dto.RecordBody, bool) {
	var req dto.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, http.StatusBadRequest, "Invalid record request",
			fmt.Errorf("%w: %v", domainerr.ErrInvalidRequest, err))
		return nil, false
	}
	if req.User.ID != "" && req.User.ID != id {
		respondError(c, h.logger, http.StatusBadRequest, "Invalid record request",
			fmt.Errorf("%w: body id %q does not match path id %q", domainerr.ErrInvalidRequest, req.User.ID, id))
		return nil, false
	}
	return req.User, true
}
