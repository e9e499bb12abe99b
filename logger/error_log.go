package logger

import (
	"github.com/gin-gonic/gin"
)

// LogHTTPError logs an error that occurred while handling an HTTP request,
// enriched with request context (path, method, request id, client IP).
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	log := GetLogger()

	fields := []interface{}{
		"error", err,
		"status_code", statusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if statusCode >= 500 {
		log.Errorw(message, fields...)
	} else {
		log.Warnw(message, fields...)
	}
}
