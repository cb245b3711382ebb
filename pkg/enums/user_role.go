package enums

import (
	"fmt"
	"strings"
)

// UserRole distinguishes portal administrators from dealer accounts.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleDealer UserRole = "dealer"
)

// String returns the wire representation.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known role.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleDealer:
		return true
	default:
		return false
	}
}

// ParseUserRole converts a raw string into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	role := UserRole(strings.TrimSpace(strings.ToLower(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", value)
	}
	return role, nil
}
