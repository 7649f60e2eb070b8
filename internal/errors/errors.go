package errors

import (
	"net/http"
)

// APIError is a transport-level failure raised before a cleaning run starts
// (oversized upload, malformed form, rate limit) or by the router itself
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// WithMessage returns a copy of e carrying a request-specific message
func (e *APIError) WithMessage(message string) *APIError {
	clone := *e
	clone.Message = message
	return &clone
}

// Problem renders e as RFC 7807 problem details for r
func (e *APIError) Problem(r *http.Request) *ProblemDetails {
	return apiErrorToProblem(e, r)
}

// ValidationError names the request field that failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Shared transport errors
var (
	ErrNotFound           = New(http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")
	ErrPayloadTooLarge    = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded file exceeds the size limit")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred while processing your request")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	err := New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	err.Details = ValidationError{Field: field, Message: message}
	return err
}
