package usecase

import (
	"servicebay/internal/domain/auth"

	"github.com/google/uuid"
)

// TokenVerifier resolves a bearer token to the caller it was issued to.
type TokenVerifier interface {
	Verify(raw string) (uuid.UUID, auth.Role, error)
}
