package api

import (
	"fmt"
	"net/http"
)

// APIError is the JSON error body of every failed request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy of e carrying a specific message.
func (e *APIError) WithMessage(format string, args ...any) *APIError {
	return &APIError{Status: e.Status, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrPayloadTooLarge = &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "payload_too_large",
		Message: "Request body too large",
	}
	ErrRateLimited = &APIError{
		Status:  http.StatusTooManyRequests,
		Code:    "rate_limited",
		Message: "Too many requests",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)

func writeError(w http.ResponseWriter, err *APIError) {
	writeJSON(w, err.Status, err)
}
