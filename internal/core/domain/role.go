package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. The same value travels in token
// claims, JSON payloads and the users.role column.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDesigner Role = "designer"
	RoleTailor   Role = "tailor"
	RoleAdmin    Role = "admin"
)

// AllRoles lists every valid role.
func AllRoles() []Role {
	return []Role{RoleCustomer, RoleDesigner, RoleTailor, RoleAdmin}
}

// IsValid reports whether r is one of the declared roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleDesigner, RoleTailor, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts the wire form of a role. Matching is case-insensitive so
// values persisted as "CUSTOMER" by older clients still resolve.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
