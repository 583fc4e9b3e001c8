package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"storefront/apperror"
)

// ErrorHandler handles all error responses
type ErrorHandler struct{}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Status int           `json:"status"`
	Error  string        `json:"error"`
	Code   string        `json:"code,omitempty"`
	Detail string        `json:"detail,omitempty"`
	Errors []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

func (h *ErrorHandler) write(w http.ResponseWriter, resp ErrorResponse) {
	body, _ := json.Marshal(resp)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write(body)
}

// HandleError sends a generic error response
func (h *ErrorHandler) HandleError(w http.ResponseWriter, code int, message string) {
	h.write(w, ErrorResponse{Status: code, Error: message})
}

// HandleAppError renders a service error with its mapped status. Internal
// causes are logged, never sent to the client.
func (h *ErrorHandler) HandleAppError(w http.ResponseWriter, err error) {
	appErr := apperror.As(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		zap.S().Errorw("Request failed", "kind", appErr.Kind, "error", err)
	}
	h.write(w, ErrorResponse{
		Status: status,
		Error:  appErr.Message,
		Code:   appErr.Code,
		Detail: appErr.Detail,
	})
}

// HandleValidationError sends a validation error response
func (h *ErrorHandler) HandleValidationError(w http.ResponseWriter, errors []ErrorDetail) {
	h.write(w, ErrorResponse{
		Status: http.StatusBadRequest,
		Error:  "Validation failed",
		Errors: errors,
	})
}

// HandleBadRequest sends a 400 Bad Request response
func (h *ErrorHandler) HandleBadRequest(w http.ResponseWriter, message string) {
	h.HandleError(w, http.StatusBadRequest, message)
}

// HandleUnauthorized sends a 401 Unauthorized response
func (h *ErrorHandler) HandleUnauthorized(w http.ResponseWriter, message string) {
	h.HandleError(w, http.StatusUnauthorized, message)
}

// HandleNotFound sends a 404 Not Found response
func (h *ErrorHandler) HandleNotFound(w http.ResponseWriter, message string) {
	h.HandleError(w, http.StatusNotFound, message)
}

// HandleInternalError sends a 500 Internal Server Error response
func (h *ErrorHandler) HandleInternalError(w http.ResponseWriter, message string) {
	h.HandleError(w, http.StatusInternalServerError, message)
}
