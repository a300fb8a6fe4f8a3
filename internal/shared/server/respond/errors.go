package respond

import (
	"github.com/gin-gonic/gin"

	"resume-fit/internal/shared/telemetry"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Error logs and sends an error response, aborting the handler chain.
func Error(c *gin.Context, status int, code, message string, fieldErrors []FieldError) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    telemetry.Truncate(message, 512),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if len(fieldErrors) > 0 {
		fields["field_errors"] = len(fieldErrors)
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Message: message,
		Code:    code,
		Errors:  fieldErrors,
	})
}
