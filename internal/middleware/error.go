package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/service"
)

const msgInternal = "Something went wrong. Please try again later."

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Errors carrying a status are shown as is; anything else becomes a 500
// with a generic message and is logged.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			if svcErr.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
			}
			c.JSON(svcErr.Status, ErrorResponse{Message: svcErr.Message})
			return
		}

		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msgInternal})
	}
}

// Recovery turns a panic into a logged 500
func Recovery() gin.HandlerFunc {
	log := logger.Component("http")
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: msgInternal})
	})
}
