package handler

import (
	"errors"
	"maps"
	"net/http"

	domainerr "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrUploadLocked):
		return http.StatusForbidden
	case errors.Is(err, domainerr.ErrChunkOutOfOrder),
		errors.Is(err, domainerr.ErrDuplicateRecord),
		errors.Is(err, domainerr.ErrDuplicateLogin):
		return http.StatusConflict
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ingestStatusCode maps ingest failures: anything the caller sent is a bad request
func ingestStatusCode(err error) int {
	if domainerr.IsValidationError(err) || domainerr.IsNotFoundError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage returns the client-facing message for err. Server errors are not echoed.
func errorMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// respondError logs err and writes the JSON error body
func respondError(c *gin.Context, logger coreport.Logger, status int, message string, err error) {
	fields := maps.Clone(domainerr.LogFieldsOf(err))
	fields["path"] = c.Request.URL.Path
	fields["status"] = status
	if id := coreport.RequestID(c.Request.Context()); id != "" {
		fields["request_id"] = id
	}

	if status >= http.StatusInternalServerError {
		logger.Error(message, fields)
	} else {
		logger.Warn(message, fields)
	}

	body := dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: errorMessage(status, err),
	}
	var rowErr *domainerr.RowError
	if errors.As(err, &rowErr) {
		body.Line = rowErr.Line
	}
	c.JSON(status, body)
}
