//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the running app accepts.
type JWTHelper struct {
	signer *jwt.Signer
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{signer: jwt.NewSigner(cfg)}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, err := h.signer.Sign(userID, role, time.Now())
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, err := h.signer.WithTTL(-time.Hour).Sign(userID, role, time.Now())
	require.NoError(t, err)
	return token
}

// Session builds the per-request session the auth middleware would produce.
func Session(role auth.Role) *auth.Session {
	return auth.LoadSession(uuid.New(), role, "test-token")
}

func SessionFor(userID uuid.UUID, role auth.Role) *auth.Session {
	return auth.LoadSession(userID, role, "test-token")
}
