// Package apierr maps domain errors to JSON error responses.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizwire/quizwire/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeQuizNotFound       = "QUIZ_NOT_FOUND"
	CodeSessionEnded       = "SESSION_ENDED"
	CodeInvalidState       = "INVALID_STATE"
	CodeNotHost            = "NOT_HOST"
	CodeCodeSpaceExhausted = "CODE_SPACE_EXHAUSTED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrQuizNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeQuizNotFound, "Quiz not found"}}
	case errors.Is(err, model.ErrSessionEnded):
		return &httpError{http.StatusConflict, APIError{CodeSessionEnded, "Session has ended"}}
	case errors.Is(err, model.ErrInvalidState):
		return &httpError{http.StatusConflict, APIError{CodeInvalidState, "Operation not valid in current session state"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the session host can perform this action"}}
	case errors.Is(err, model.ErrCodeSpaceExhausted):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeCodeSpaceExhausted, "No session codes available, try again later"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "An internal error occurred"}}
	}
}

// NewInvalidRequestError creates a 400 error with a custom message
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates a generic 500 error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "An internal error occurred"}}
}
