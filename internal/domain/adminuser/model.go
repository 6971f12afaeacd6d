// Package adminuser defines administrative principals for the portal.
package adminuser

import (
	"strings"

	"github.com/docuforge/doc_portal/internal/errors"
)

// RootUserID identifies the privileged sentinel user that can never be
// deleted, regardless of the caller's role.
const RootUserID = "user-root"

// Role is the authorization level of an admin user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User is an authenticated principal. PasswordHash is a bcrypt hash and
// never leaves the service boundary.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	Role         Role   `json:"role"`
}

// Public is the projection of a user that is safe to return to callers.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Public returns the password-free projection of the user.
func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Validate checks the stored fields of a user record.
func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.InvalidInput("Username is required")
	}
	if !u.Role.Valid() {
		return errors.InvalidInput("Unknown role").WithDetails("role", string(u.Role))
	}
	return nil
}
