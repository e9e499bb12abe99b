package middleware

import (
	"fmt"
	"strconv"

	"github.com/TourHive/booking-flow-backend/errors"
	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the gin context into JSON
// responses. Handlers report failures with c.Error and return; this
// middleware owns the response shape.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			response := map[string]interface{}{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}
			// Details help the client only when the request itself was the
			// problem; internal failure details stay in the logs.
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.SchemaError ||
				appError.Type == errors.NotFoundError) {
				response["details"] = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")

			response := map[string]interface{}{
				"type":    string(errors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
			}
			if gin.IsDebugging() {
				response["details"] = err.Error()
			}

			c.JSON(400, response)
			return
		}

		logger.LogHTTPError(c, err, 500, "Unexpected server error")

		response := map[string]interface{}{
			"type":    string(errors.ServerError),
			"message": "Internal Server Error",
			"code":    "500",
		}
		if gin.IsDebugging() {
			response["details"] = err.Error()
		}

		c.JSON(500, response)
	}
}
