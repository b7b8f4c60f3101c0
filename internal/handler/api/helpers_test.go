//go:build unit

package api_test

import (
	"net/http"

	"servicebay/internal/domain/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fakeAuth stands in for RequireAuth: any bearer token yields a session for the given principal.
func fakeAuth(userID *uuid.UUID, role *auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		session := auth.LoadSession(*userID, *role, "bearer-token")
		defer session.Clear()
		c.Set("session", session)
		c.Next()
	}
}
