package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps service-layer sentinels onto HTTP statuses.
// Validation errors are handled at the controller (re-rendered forms),
// so they never reach this switch.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrExhibitNotFound):
		RespondError(c, http.StatusNotFound, "Exhibit not found")
	case errors.Is(err, ErrCSRFExpired):
		RespondError(c, http.StatusForbidden, "CSRF token expired")
	case errors.Is(err, ErrCSRFMismatch):
		RespondError(c, http.StatusForbidden, "CSRF token mismatch")
	case errors.Is(err, ErrCSRFInvalid):
		RespondError(c, http.StatusForbidden, "Invalid CSRF token")
	case errors.Is(err, ErrAlreadySubmitted):
		RespondError(c, http.StatusBadRequest, "Feedback already submitted")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
