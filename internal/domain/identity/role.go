package identity

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

// Role is the access level of a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// ParseRole validates a role name. An empty name defaults to cashier.
func ParseRole(name string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(name))) {
	case "", RoleCashier:
		return RoleCashier, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", shared.NewDomainError(shared.CodeInvalidInput, "Unknown role. Please contact support.")
}

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// Allows reports whether this role satisfies any of the required roles.
// Admin satisfies every requirement.
func (r Role) Allows(required ...Role) bool {
	if r == RoleAdmin {
		return true
	}
	for _, req := range required {
		if r == req {
			return true
		}
	}
	return false
}
