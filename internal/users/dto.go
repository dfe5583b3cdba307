package users

import (
	"github.com/casa80eventos/casa80-backend/pkg/enums"
)

// CreateUserInput carries a new user registration by an administrator.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     enums.UserRole
}

// UpdateUserInput carries the optional fields of a user update. A non-nil
// Password resets the credential.
type UpdateUserInput struct {
	Name     *string
	Role     *enums.UserRole
	Password *string
	IsActive *bool
}
