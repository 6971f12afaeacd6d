// Package catalog manages documentation modules, their categories, and their
// embedded version histories. Every operation reads a fresh database
// snapshot and mutations write the whole snapshot back, guarded by the
// provider's revision stamp.
package catalog

import (
	"context"
	"fmt"

	"github.com/docuforge/doc_portal/internal/domain/category"
	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/logging"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

// Service exposes module and category operations.
type Service struct {
	store storage.Provider
	log   *logging.Logger
}

// New constructs a catalog service.
func New(store storage.Provider, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// mutate runs one read-modify-write cycle, retrying once when a concurrent
// writer won the revision race. Further retries are a caller decision.
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

// ListModules returns every module in stored order.
func (s *Service) ListModules(ctx context.Context) ([]docmodule.Module, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return db.Modules, nil
}

// GetModule returns the module with the given id.
func (s *Service) GetModule(ctx context.Context, id string) (docmodule.Module, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return docmodule.Module{}, err
	}
	for _, m := range db.Modules {
		if m.ID == id {
			return m, nil
		}
	}
	return docmodule.Module{}, errors.NotFound(fmt.Sprintf("Module %q not found", id))
}

// SearchModules returns modules matching a case-insensitive substring query
// against name, description, and tags. An empty query matches everything.
func (s *Service) SearchModules(ctx context.Context, query string) ([]docmodule.Module, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]docmodule.Module, 0, len(db.Modules))
	for _, m := range db.Modules {
		if m.Matches(query) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// ListModulesByCategory returns modules referencing the named category.
func (s *Service) ListModulesByCategory(ctx context.Context, name string) ([]docmodule.Module, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]docmodule.Module, 0, len(db.Modules))
	for _, m := range db.Modules {
		if m.Category == name {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// WelcomeModule returns the module flagged as the welcome page, if any.
func (s *Service) WelcomeModule(ctx context.Context) (docmodule.Module, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return docmodule.Module{}, err
	}
	for _, m := range db.Modules {
		if m.IsWelcome {
			return m, nil
		}
	}
	return docmodule.Module{}, errors.NotFound("No welcome module configured")
}

// CreateModule appends a new module. The id must be unique and the category
// must already exist.
func (s *Service) CreateModule(ctx context.Context, caller session.Principal, m docmodule.Module) (docmodule.Module, error) {
	if err := session.RequireAuthenticated(caller); err != nil {
		return docmodule.Module{}, err
	}
	if err := m.Validate(); err != nil {
		return docmodule.Module{}, err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		for _, existing := range db.Modules {
			if existing.ID == m.ID {
				return errors.Conflict(fmt.Sprintf("Module %q already exists", m.ID))
			}
		}
		if !categoryExists(db.Categories, m.Category) {
			return errors.NotFound(fmt.Sprintf("Category %q not found", m.Category))
		}
		if m.IsWelcome {
			clearWelcome(db.Modules)
		}
		db.Modules = append(db.Modules, m)
		return nil
	})
	if err != nil {
		return docmodule.Module{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"module_id": m.ID,
		"category":  m.Category,
	}).Info("module created")
	return m, nil
}

// UpdateModule replaces the full record with the same id. This is
// whole-record replacement, not a merge: callers submit the complete
// desired state.
func (s *Service) UpdateModule(ctx context.Context, caller session.Principal, m docmodule.Module) (docmodule.Module, error) {
	if err := session.RequireAuthenticated(caller); err != nil {
		return docmodule.Module{}, err
	}
	if err := m.Validate(); err != nil {
		return docmodule.Module{}, err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := moduleIndex(db.Modules, m.ID)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("Module %q not found", m.ID))
		}
		if !categoryExists(db.Categories, m.Category) {
			return errors.NotFound(fmt.Sprintf("Category %q not found", m.Category))
		}
		if m.IsWelcome {
			clearWelcome(db.Modules)
		}
		db.Modules[idx] = m
		return nil
	})
	if err != nil {
		return docmodule.Module{}, err
	}

	s.log.WithContext(ctx).WithField("module_id", m.ID).Info("module updated")
	return m, nil
}

// DeleteModule removes a module by id and reports whether a removal
// occurred. Version history is embedded, so no further cleanup applies.
func (s *Service) DeleteModule(ctx context.Context, caller session.Principal, id string) (bool, error) {
	if err := session.RequireAuthenticated(caller); err != nil {
		return false, err
	}

	removed := false
	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := moduleIndex(db.Modules, id)
		if idx < 0 {
			removed = false
			return nil
		}
		db.Modules = append(db.Modules[:idx], db.Modules[idx+1:]...)
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.log.WithContext(ctx).WithField("module_id", id).Info("module deleted")
	}
	return removed, nil
}

// SetWelcomeModule flags one module as the welcome page, clearing the flag
// on every other module so at most one welcome module exists at any time.
func (s *Service) SetWelcomeModule(ctx context.Context, caller session.Principal, id string) error {
	if err := session.RequireAuthenticated(caller); err != nil {
		return err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := moduleIndex(db.Modules, id)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("Module %q not found", id))
		}
		clearWelcome(db.Modules)
		db.Modules[idx].IsWelcome = true
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).WithField("module_id", id).Info("welcome module set")
	return nil
}

func moduleIndex(modules []docmodule.Module, id string) int {
	for i, m := range modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func categoryExists(categories []category.Category, name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

func clearWelcome(modules []docmodule.Module) {
	for i := range modules {
		modules[i].IsWelcome = false
	}
}
