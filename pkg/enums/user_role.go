package enums

import "fmt"

// UserRole represents an application-level permissions role.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleViewer UserRole = "VIEWER"
)

var validUserRoles = []UserRole{UserRoleAdmin, UserRoleViewer}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanEdit reports whether the role may mutate data.
func (r UserRole) CanEdit() bool {
	return r == UserRoleAdmin
}

// CanViewSensitive reports whether the role sees unmasked contact fields.
func (r UserRole) CanViewSensitive() bool {
	return r == UserRoleAdmin
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("rol de usuario inválido %q", value)
}
