package catalog

import (
	"context"
	"fmt"

	"github.com/docuforge/doc_portal/internal/domain/category"
	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

// ListCategories returns categories in stored order. Stored order is the
// display order.
func (s *Service) ListCategories(ctx context.Context) ([]category.Category, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return db.Categories, nil
}

// CreateCategory appends a category. Names are compared case-sensitively.
func (s *Service) CreateCategory(ctx context.Context, caller session.Principal, name string) (category.Category, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return category.Category{}, err
	}
	c := category.Category{Name: name}
	if err := c.Validate(); err != nil {
		return category.Category{}, err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		if categoryExists(db.Categories, name) {
			return errors.Conflict(fmt.Sprintf("Category %q already exists", name))
		}
		db.Categories = append(db.Categories, c)
		return nil
	})
	if err != nil {
		return category.Category{}, err
	}

	s.log.WithContext(ctx).WithField("category", name).Info("category created")
	return c, nil
}

// UpdateCategory renames a category and cascades the rename into every
// module referencing the old name.
func (s *Service) UpdateCategory(ctx context.Context, caller session.Principal, oldName, newName string) (category.Category, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return category.Category{}, err
	}
	renamed := category.Category{Name: newName}
	if err := renamed.Validate(); err != nil {
		return category.Category{}, err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := categoryIndex(db.Categories, oldName)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("Category %q not found", oldName))
		}
		if oldName != newName && categoryExists(db.Categories, newName) {
			return errors.Conflict(fmt.Sprintf("Category %q already exists", newName))
		}
		db.Categories[idx] = renamed
		for i := range db.Modules {
			if db.Modules[i].Category == oldName {
				db.Modules[i].Category = newName
			}
		}
		return nil
	})
	if err != nil {
		return category.Category{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"old_name": oldName,
		"new_name": newName,
	}).Info("category renamed")
	return renamed, nil
}

// DeleteCategory removes a category and reports whether a removal occurred.
// A category still referenced by any module cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, caller session.Principal, name string) (bool, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return false, err
	}

	removed := false
	err := s.mutate(ctx, func(db *storage.Database) error {
		for _, m := range db.Modules {
			if m.Category == name {
				return errors.InUse(fmt.Sprintf("Category %q is in use and cannot be deleted", name)).
					WithDetails("module_id", m.ID)
			}
		}
		idx := categoryIndex(db.Categories, name)
		if idx < 0 {
			removed = false
			return nil
		}
		db.Categories = append(db.Categories[:idx], db.Categories[idx+1:]...)
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.log.WithContext(ctx).WithField("category", name).Info("category deleted")
	}
	return removed, nil
}

// ReorderCategories replaces the stored order wholesale. The new order must
// be a permutation of the existing category names.
func (s *Service) ReorderCategories(ctx context.Context, caller session.Principal, newOrder []string) ([]category.Category, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return nil, err
	}

	var reordered []category.Category
	err := s.mutate(ctx, func(db *storage.Database) error {
		if len(newOrder) != len(db.Categories) {
			return errors.InvalidInput("New order must contain every category exactly once")
		}
		seen := make(map[string]bool, len(newOrder))
		reordered = make([]category.Category, 0, len(newOrder))
		for _, name := range newOrder {
			if seen[name] {
				return errors.InvalidInput(fmt.Sprintf("Category %q listed twice in new order", name))
			}
			seen[name] = true
			if !categoryExists(db.Categories, name) {
				return errors.NotFound(fmt.Sprintf("Category %q not found", name))
			}
			reordered = append(reordered, category.Category{Name: name})
		}
		db.Categories = reordered
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).WithField("count", len(reordered)).Info("categories reordered")
	return reordered, nil
}

func categoryIndex(categories []category.Category, name string) int {
	for i, c := range categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}
