package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestIDKey = "request_id"
)

// RequestLogger logs one line per request once the chain has run. An incoming
// X-Request-ID is reused so ids survive across the gateway.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = newRequestID()
		}
		c.Set(ctxRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		if v, ok := c.Get(ctxPrincipalKey); ok {
			if p, ok := v.(auth.Principal); ok {
				attrs = append(attrs, slog.String("user_id", p.UserID.String()), slog.String("role", p.Role.String()))
			}
		}
		if last := c.Errors.Last(); last != nil {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
			if status >= 500 {
				attrs = append(attrs, slog.Any("stack", errs.ExtractStackLines(last.Err, 12)))
			}
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}

func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}
