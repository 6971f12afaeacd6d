// Package accounts manages admin users and credential verification.
// Password hashes never leave the service boundary; every returned user is
// the password-free public projection.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/logging"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

// Service exposes admin user operations.
type Service struct {
	store storage.Provider
	log   *logging.Logger
}

// New constructs an accounts service.
func New(store storage.Provider, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("accounts")
	}
	return &Service{store: store, log: log}
}

func (s *Service) mutate(ctx context.Context, fn func(db *storage.Database) error) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		db, err := s.store.ReadAll(ctx)
		if err != nil {
			return err
		}
		if err := fn(&db); err != nil {
			return err
		}
		if err := s.store.WriteAll(ctx, db); err != nil {
			if storage.IsRevisionConflict(err) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return lastErr
}

// CreateUserInput carries the fields for a new admin user. Password is
// plaintext here and hashed before storage.
type CreateUserInput struct {
	Username string
	Password string
	Role     adminuser.Role
}

// UpdateUserInput carries a user update. Username and Role always replace
// the stored values; Password is re-hashed only when non-empty, an empty
// value keeps the current hash.
type UpdateUserInput struct {
	ID       string
	Username string
	Password string
	Role     adminuser.Role
}

// ListUsers returns the public projection of every admin user.
func (s *Service) ListUsers(ctx context.Context, caller session.Principal) ([]adminuser.Public, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return nil, err
	}
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]adminuser.Public, len(db.Users))
	for i, u := range db.Users {
		users[i] = u.Public()
	}
	return users, nil
}

// CreateUser hashes the supplied password and appends the user. Usernames
// are unique.
func (s *Service) CreateUser(ctx context.Context, caller session.Principal, input CreateUserInput) (adminuser.Public, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return adminuser.Public{}, err
	}
	if strings.TrimSpace(input.Password) == "" {
		return adminuser.Public{}, errors.InvalidInput("Password is required")
	}

	user := adminuser.User{
		ID:       "user-" + uuid.New().String(),
		Username: strings.TrimSpace(input.Username),
		Role:     input.Role,
	}
	if err := user.Validate(); err != nil {
		return adminuser.Public{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return adminuser.Public{}, errors.Internal("Failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	err = s.mutate(ctx, func(db *storage.Database) error {
		for _, existing := range db.Users {
			if existing.Username == user.Username {
				return errors.Conflict(fmt.Sprintf("Username %q already exists", user.Username))
			}
		}
		db.Users = append(db.Users, user)
		return nil
	})
	if err != nil {
		return adminuser.Public{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	}).Info("admin user created")
	return user.Public(), nil
}

// UpdateUser merges username and role, and re-hashes the password only when
// a new plaintext value is supplied.
func (s *Service) UpdateUser(ctx context.Context, caller session.Principal, input UpdateUserInput) (adminuser.Public, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return adminuser.Public{}, err
	}

	updated := adminuser.User{
		ID:       input.ID,
		Username: strings.TrimSpace(input.Username),
		Role:     input.Role,
	}
	if err := updated.Validate(); err != nil {
		return adminuser.Public{}, err
	}

	var newHash string
	if strings.TrimSpace(input.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return adminuser.Public{}, errors.Internal("Failed to hash password", err)
		}
		newHash = string(hash)
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := userIndex(db.Users, input.ID)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("User %q not found", input.ID))
		}
		for _, existing := range db.Users {
			if existing.ID != input.ID && existing.Username == updated.Username {
				return errors.Conflict(fmt.Sprintf("Username %q already exists", updated.Username))
			}
		}
		if newHash != "" {
			db.Users[idx].PasswordHash = newHash
		}
		db.Users[idx].Username = updated.Username
		db.Users[idx].Role = updated.Role
		return nil
	})
	if err != nil {
		return adminuser.Public{}, err
	}

	s.log.WithContext(ctx).WithField("user_id", input.ID).Info("admin user updated")
	return updated.Public(), nil
}

// DeleteUser removes a user. The root sentinel user can never be deleted,
// regardless of caller role.
func (s *Service) DeleteUser(ctx context.Context, caller session.Principal, id string) error {
	if err := session.RequireAdmin(caller); err != nil {
		return err
	}
	if id == adminuser.RootUserID {
		return errors.Forbidden("The root user cannot be deleted")
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := userIndex(db.Users, id)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("User %q not found", id))
		}
		db.Users = append(db.Users[:idx], db.Users[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).WithField("user_id", id).Info("admin user deleted")
	return nil
}

// Login verifies credentials and returns the public user projection. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (adminuser.Public, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return adminuser.Public{}, err
	}

	for _, u := range db.Users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}
		s.log.WithContext(ctx).WithField("user_id", u.ID).Info("login succeeded")
		return u.Public(), nil
	}

	s.log.LogSecurityEvent(ctx, "login_failed", map[string]interface{}{"username": username})
	return adminuser.Public{}, errors.Unauthorized("Invalid username or password")
}

// ChangePassword rehashes the caller's own password after verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, caller session.Principal, currentPlain, newPlain string) error {
	if err := session.RequireAuthenticated(caller); err != nil {
		return err
	}
	if strings.TrimSpace(newPlain) == "" {
		return errors.InvalidInput("New password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPlain), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	err = s.mutate(ctx, func(db *storage.Database) error {
		idx := userIndex(db.Users, caller.UserID)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("User %q not found", caller.UserID))
		}
		if bcrypt.CompareHashAndPassword([]byte(db.Users[idx].PasswordHash), []byte(currentPlain)) != nil {
			return errors.Unauthorized("Current password is incorrect")
		}
		db.Users[idx].PasswordHash = string(hash)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).WithField("user_id", caller.UserID).Info("password changed")
	return nil
}

func userIndex(users []adminuser.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
