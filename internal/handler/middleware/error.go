package middleware

import (
	"log/slog"
	"net/http"

	"servicebay/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error a handler recorded without
// writing a body itself. Anything else becomes a generic 500.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if last := c.Errors.ByType(gin.ErrorTypePublic).Last(); last != nil {
			if resp, ok := last.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Writer.WriteHeaderNow()
			return
		}
		if len(c.Errors) > 0 {
			logger.ErrorContext(c.Request.Context(), "unhandled request error",
				"request_id", GetRequestID(c), "errors", c.Errors.String())
			c.JSON(http.StatusInternalServerError, httperr.Internal())
		}
	}
}

// Recovery turns a panic into the standard 500 envelope.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(c.Request.Context(), "recovered from panic",
					"panic", r, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
				c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.Internal())
			}
		}()
		c.Next()
	}
}
