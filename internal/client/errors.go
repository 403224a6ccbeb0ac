package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors matched by errors.Is against an *APIError
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUploadBusy  = errors.New("another upload holds the slot")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrServerError = errors.New("server error")
)

// APIError is a non-2xx response from the staff registry API
type APIError struct {
	StatusCode int
	// Code is the numeric error code of the response body, when it had one
	Code    int
	Message string
	// Line is the rejected CSV line of a failed ingest
	Line int
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (status %d, code %d, line %d)", msg, e.StatusCode, e.Code, e.Line)
	}
	return fmt.Sprintf("%s (status %d, code %d)", msg, e.StatusCode, e.Code)
}

// Is maps the status code onto the package errors
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUploadBusy:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServerError:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// ValidationError is an invalid argument caught before any request is sent
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
