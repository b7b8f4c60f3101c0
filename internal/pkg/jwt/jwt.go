package jwt

import (
	"errors"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer tokens issued by the credential service.
// The subject claim carries the user id.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
}

func NewVerifier(cfg config.JWTConfig, clk clock.Clock) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(clk.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Verifier{key: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}, nil
}

func (v *Verifier) Verify(raw string) (uuid.UUID, auth.Role, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, "", ErrExpiredToken
	case err != nil:
		return uuid.Nil, "", ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	role, err := auth.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	return userID, role, nil
}

// Signer mints tokens the Verifier accepts. Only local tooling and tests use it.
type Signer struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

func NewSigner(cfg config.JWTConfig) *Signer {
	return &Signer{key: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: cfg.TTL}
}

// Sign issues a token valid from now for the configured ttl. A negative ttl
// yields an already expired token.
func (s *Signer) Sign(userID uuid.UUID, role auth.Role, now time.Time) (string, error) {
	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *Signer) WithTTL(ttl time.Duration) *Signer {
	cp := *s
	cp.ttl = ttl
	return &cp
}
