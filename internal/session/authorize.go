package session

import "github.com/docuforge/doc_portal/internal/errors"

// RequireAuthenticated fails unless the principal carries an identity.
// Services call this on every mutating operation so the role invariant holds
// even for entry points that bypass the HTTP gate.
func RequireAuthenticated(p Principal) error {
	if p.UserID == "" {
		return errors.Unauthorized("Authentication required")
	}
	return nil
}

// RequireAdmin fails unless the principal carries the admin role.
func RequireAdmin(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return errors.Forbidden("Admin role required")
	}
	return nil
}
