package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

// ListVersions returns the version history of a module, newest first.
func (s *Service) ListVersions(ctx context.Context, moduleID string) ([]docmodule.Version, error) {
	m, err := s.GetModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	return m.Versions, nil
}

// AddVersion prepends a changelog entry to the module's history. The version
// string must be unique within the module. An empty date defaults to today.
func (s *Service) AddVersion(ctx context.Context, caller session.Principal, moduleID string, v docmodule.Version) (docmodule.Version, error) {
	if err := session.RequireAuthenticated(caller); err != nil {
		return docmodule.Version{}, err
	}
	if v.Date == "" {
		v.Date = time.Now().Format("2006-01-02")
	}
	if err := v.Validate(); err != nil {
		return docmodule.Version{}, err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		idx := moduleIndex(db.Modules, moduleID)
		if idx < 0 {
			return errors.NotFound(fmt.Sprintf("Module %q not found", moduleID))
		}
		if versionIndex(db.Modules[idx].Versions, v.Version) >= 0 {
			return errors.Conflict(fmt.Sprintf("Version %q already exists for module %q", v.Version, moduleID))
		}
		db.Modules[idx].Versions = append([]docmodule.Version{v}, db.Modules[idx].Versions...)
		return nil
	})
	if err != nil {
		return docmodule.Version{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"module_id": moduleID,
		"version":   v.Version,
	}).Info("version added")
	return v, nil
}

// UpdateVersion replaces the entry matching v.Version in place.
func (s *Service) UpdateVersion(ctx context.Context, caller session.Principal, moduleID string, v docmodule.Version) (docmodule.Version, error) {
	if err := session.RequireAuthenticated(caller); err != nil {
		return docmodule.Version{}, err
	}
	if err := v.Validate(); err != nil {
		return docmodule.Version{}, err
	}

	err := s.mutate(ctx, func(db *storage.Database) error {
		mi := moduleIndex(db.Modules, moduleID)
		if mi < 0 {
			return errors.NotFound(fmt.Sprintf("Module %q not found", moduleID))
		}
		vi := versionIndex(db.Modules[mi].Versions, v.Version)
		if vi < 0 {
			return errors.NotFound(fmt.Sprintf("Version %q not found for module %q", v.Version, moduleID))
		}
		db.Modules[mi].Versions[vi] = v
		return nil
	})
	if err != nil {
		return docmodule.Version{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"module_id": moduleID,
		"version":   v.Version,
	}).Info("version updated")
	return v, nil
}

// DeleteVersion removes the entry matching the version string and reports
// whether a removal occurred.
func (s *Service) DeleteVersion(ctx context.Context, caller session.Principal, moduleID, version string) (bool, error) {
	if err := session.RequireAuthenticated(caller); err != nil {
		return false, err
	}

	removed := false
	err := s.mutate(ctx, func(db *storage.Database) error {
		mi := moduleIndex(db.Modules, moduleID)
		if mi < 0 {
			return errors.NotFound(fmt.Sprintf("Module %q not found", moduleID))
		}
		vi := versionIndex(db.Modules[mi].Versions, version)
		if vi < 0 {
			removed = false
			return nil
		}
		versions := db.Modules[mi].Versions
		db.Modules[mi].Versions = append(versions[:vi], versions[vi+1:]...)
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.log.WithContext(ctx).WithFields(map[string]interface{}{
			"module_id": moduleID,
			"version":   version,
		}).Info("version deleted")
	}
	return removed, nil
}

func versionIndex(versions []docmodule.Version, version string) int {
	for i, v := range versions {
		if v.Version == version {
			return i
		}
	}
	return -1
}
