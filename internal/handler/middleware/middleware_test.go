//go:build unit

package middleware_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"servicebay/internal/domain/auth"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/handler/middleware"
	"servicebay/internal/pkg/jwt"
	"servicebay/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]auth.Role

func (v stubVerifier) Verify(raw string) (uuid.UUID, auth.Role, error) {
	role, ok := v[raw]
	if !ok {
		return uuid.Nil, "", jwt.ErrInvalidToken
	}
	return uuid.New(), role, nil
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authMw := middleware.NewAuthMiddleware(stubVerifier{"staff-token": auth.RoleStaff, "customer-token": auth.RoleCustomer})

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger), middleware.ErrorHandler(logger))
	r.GET("/me", authMw.RequireAuth(), func(c *gin.Context) {
		id, ok := middleware.GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	r.GET("/desk", authMw.RequireAuth(), authMw.RequireRole(auth.RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/deferred", func(c *gin.Context) {
		_ = c.Error(errors.New("boom")).SetType(gin.ErrorTypePublic).
			SetMeta(httperr.NewResponse(http.StatusConflict, "Conflict", nil))
	})
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newEngine(t)

	cases := []struct {
		name    string
		path    string
		token   string
		status  int
		message string
	}{
		{name: "missing token", path: "/me", status: http.StatusUnauthorized, message: "Access token required"},
		{name: "unknown token", path: "/me", token: "forged", status: http.StatusUnauthorized, message: "Invalid or expired token"},
		{name: "role not permitted", path: "/desk", token: "customer-token", status: http.StatusForbidden, message: "Insufficient permissions"},
	}
	for _, tc := range cases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			w := httptest.PerformRequest(t, r, http.MethodGet, tc.path, nil, tc.token)
			httptest.AssertErrorResponse(t, w, tc.status, tc.message)
		})
	}

	t.Run("success: staff passes the role gate", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/desk", nil, "staff-token")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	r := newEngine(t)

	t.Run("generates a request id", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "customer-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, w.Header().Get(middleware.HeaderRequestID), 16)
	})

	t.Run("reuses an incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(t, http.MethodGet, "/me", nil, "customer-token")
		req.Header.Set(middleware.HeaderRequestID, "edge-42")
		w := httptest.Serve(r, req)
		httptest.AssertHeaders(t, w, map[string]string{middleware.HeaderRequestID: "edge-42"})
	})
}

func TestErrorHandler(t *testing.T) {
	r := newEngine(t)

	t.Run("renders a recorded public error", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/deferred", nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Conflict")
	})

	t.Run("panics become a 500 envelope", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/panic", nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "Internal server error")
	})
}
