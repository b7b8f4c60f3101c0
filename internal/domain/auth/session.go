package auth

import (
	"github.com/google/uuid"
)

type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsZero() bool {
	return p.UserID == uuid.Nil
}

// Session is built once per request and passed explicitly into every command.
type Session struct {
	principal *Principal
	token     string
}

// LoadSession returns nil when no valid principal is available.
func LoadSession(userID uuid.UUID, role Role, token string) *Session {
	if userID == uuid.Nil || !role.IsValid() {
		return nil
	}
	return &Session{
		principal: &Principal{UserID: userID, Role: role},
		token:     token,
	}
}

func (s *Session) Principal() (Principal, bool) {
	if s == nil || s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.principal = nil
	s.token = ""
}
