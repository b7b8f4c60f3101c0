package middleware

import (
	"log/slog"
	"slices"

	"servicebay/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware treats a "*" origin as allow-all, which rules out
// credentials. The request id header is always exposed.
func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if !slices.Contains(c.ExposeHeaders, HeaderRequestID) {
		c.ExposeHeaders = append(slices.Clone(c.ExposeHeaders), HeaderRequestID)
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	logger.Info("cors configured", "origins", cfg.AllowOrigins, "credentials", c.AllowCredentials)
	return cors.New(c)
}
