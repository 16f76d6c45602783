package identity

import (
	"time"
)

// Session is the authenticated principal of a request. It is created at
// login, carried by a signed token and ends at logout or expiry.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewSession opens a session for the user
func NewSession(id string, user *User, issuedAt time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}
}

// IsExpired reports whether the session has expired at now
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Can reports whether the session's role satisfies any of the required roles
func (s *Session) Can(required ...Role) bool {
	if s == nil {
		return false
	}
	return s.Role.Allows(required...)
}

// UserIDRef returns a pointer to the user ID for nullable references
func (s *Session) UserIDRef() *int64 {
	if s == nil || s.UserID == 0 {
		return nil
	}
	id := s.UserID
	return &id
}
