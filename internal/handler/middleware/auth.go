package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"servicebay/internal/domain/auth"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	verifier usecase.TokenVerifier
}

const (
	ctxSessionKey   = "session"
	ctxPrincipalKey = "principal"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid bearer token")
	errNoSession    = errors.New("no session in context")
)

func NewAuthMiddleware(verifier usecase.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth verifies the bearer token and stores a per-request Session.
// The session is cleared once the handler chain returns.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		userID, role, err := m.verifier.Verify(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "bearer token rejected", "error", err)
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		session := auth.LoadSession(userID, role, token)
		if session == nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, errInvalidToken, "Invalid or expired token", nil)
			return
		}
		defer session.Clear()

		p, _ := session.Principal()
		c.Set(ctxSessionKey, session)
		c.Set(ctxPrincipalKey, p)
		c.Next()
	}
}

// RequireRole rejects principals whose role is not listed.
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			// RequireAuth must run first
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoSession, "Internal server error", nil)
			return
		}
		p, _ := session.Principal()
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		httperr.AbortWithError(c, http.StatusForbidden, errors.New("role "+p.Role.String()+" not permitted"), "Insufficient permissions", nil)
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetSession(c *gin.Context) (*auth.Session, bool) {
	v, exists := c.Get(ctxSessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*auth.Session)
	return s, ok && s != nil
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	s, ok := GetSession(c)
	if !ok {
		return uuid.Nil, false
	}
	p, ok := s.Principal()
	return p.UserID, ok
}
