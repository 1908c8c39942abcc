package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gorodok-inc/gorodok/internal/shared/errors"
)

// ErrorBody is the body of every failed API response.
type ErrorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// OKResponse sends {"ok": true} merged with fields.
func OKResponse(c *gin.Context, statusCode int, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{OK: false, Error: message})
}

// ErrorResponseWithError sends an error response based on error type
func ErrorResponseWithError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		c.JSON(appErr.Code, ErrorBody{
			OK:    false,
			Error: appErr.Message,
			Type:  string(appErr.Type),
		})
		return
	}

	// non-AppErrors never expose their text
	c.JSON(http.StatusInternalServerError, ErrorBody{
		OK:    false,
		Error: "internal server error",
		Type:  string(errors.ErrorTypeInternal),
	})
}

// NoContentResponse sends a no content response
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
