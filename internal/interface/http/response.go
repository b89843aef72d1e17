package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse represents a standard JSON response.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version,omitempty"`
	TotalCount int       `json:"total_count,omitempty"`
}

func writeJSON(c *gin.Context, status int, data any) {
	c.JSON(status, JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      &ResponseMeta{Timestamp: time.Now().UTC(), Version: "v1"},
		RequestID: c.GetString(ctxRequestID),
	})
}

func writeList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, JSONResponse{
		Success:   true,
		Data:      data,
		Meta:      &ResponseMeta{Timestamp: time.Now().UTC(), Version: "v1", TotalCount: count},
		RequestID: c.GetString(ctxRequestID),
	})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, JSONResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Meta:      &ResponseMeta{Timestamp: time.Now().UTC()},
		RequestID: c.GetString(ctxRequestID),
	})
}

// writeDomainError maps application errors onto HTTP statuses.
func (s *Server) writeDomainError(c *gin.Context, err error) {
	switch {
	// Decode first: a rejected record may wrap a validation or not-found kind.
	case shared.IsDecode(err):
		logger.FromContext(c.Request.Context()).Error("stored data is malformed", logger.Err(err))
		writeError(c, http.StatusInternalServerError, "corrupt_data", "stored progress data is malformed")
	case shared.IsValidation(err):
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsNotFound(err):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	case shared.IsStorage(err):
		logger.FromContext(c.Request.Context()).Error("storage failure", logger.Err(err))
		writeError(c, http.StatusServiceUnavailable, "storage_unavailable", "storage is unavailable")
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", logger.Err(err))
		writeError(c, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// bind decodes a JSON body and writes a 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return false
	}
	return true
}
