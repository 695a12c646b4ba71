package util

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error writes a uniform error body: a single message, no internal detail.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"message": msg})
}

// ValidationError returns a 400 with a structured list of field errors.
func ValidationError(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "validation failed",
		"errors":  errs,
	})
}

// InternalError logs the underlying error server-side and returns a
// generic message to the caller. Stack traces and driver messages never
// reach the response body.
func InternalError(c *gin.Context, err error) {
	log.Printf("internal error: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
