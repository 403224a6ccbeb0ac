package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Line is set when a CSV row was rejected
	Line int `json:"line,omitempty"`
}
