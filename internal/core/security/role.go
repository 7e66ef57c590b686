package security

import (
	"strings"

	"inventrack/internal/core/apperror"
)

// Role is the single tagged role carried by every account.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleClerk Role = "Clerk"
	RoleUser  Role = "User"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleClerk, RoleUser}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClerk, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts user input to Role, ignoring case.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", apperror.NewValidation("unknown role").
		WithDetail("role", s).
		WithDetail("allowed", Roles())
}
