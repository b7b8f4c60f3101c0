//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"
	"servicebay/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier(t *testing.T) {
	cfg := config.JWTConfig{Secret: "s3cret", Issuer: "servicebay-auth", Leeway: 30 * time.Second, TTL: time.Hour}
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	v, err := jwt.NewVerifier(cfg, clk)
	require.NoError(t, err)
	userID := uuid.New()

	sign := func(t *testing.T, s *jwt.Signer, at time.Time) string {
		t.Helper()
		token, err := s.Sign(userID, auth.RoleTechnician, at)
		require.NoError(t, err)
		return token
	}

	t.Run("accepts a token it can verify", func(t *testing.T) {
		gotID, role, err := v.Verify(sign(t, jwt.NewSigner(cfg), now))
		require.NoError(t, err)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, auth.RoleTechnician, role)
	})

	t.Run("expiry honours the leeway", func(t *testing.T) {
		token := sign(t, jwt.NewSigner(cfg).WithTTL(time.Minute), now)

		clk.Set(now.Add(time.Minute + 20*time.Second))
		_, _, err := v.Verify(token)
		assert.NoError(t, err)

		clk.Set(now.Add(2 * time.Minute))
		_, _, err = v.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
		clk.Set(now)
	})

	cases := map[string]string{
		"wrong secret": sign(t, jwt.NewSigner(config.JWTConfig{Secret: "other", Issuer: cfg.Issuer, TTL: time.Hour}), now),
		"wrong issuer": sign(t, jwt.NewSigner(config.JWTConfig{Secret: cfg.Secret, Issuer: "elsewhere", TTL: time.Hour}), now),
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		t.Run("rejects "+name, func(t *testing.T) {
			_, _, err := v.Verify(token)
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		})
	}

	t.Run("empty secret is a configuration error", func(t *testing.T) {
		_, err := jwt.NewVerifier(config.JWTConfig{}, clk)
		assert.Error(t, err)
	})
}
