// Package appconfig manages the portal's singleton application settings.
package appconfig

import (
	"context"

	"github.com/docuforge/doc_portal/internal/domain/settings"
	"github.com/docuforge/doc_portal/internal/logging"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

// Service exposes read and wholesale-replace of the settings record.
type Service struct {
	store storage.Provider
	log   *logging.Logger
}

// New constructs a settings service.
func New(store storage.Provider, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("appconfig")
	}
	return &Service{store: store, log: log}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (settings.App, error) {
	db, err := s.store.ReadAll(ctx)
	if err != nil {
		return settings.App{}, err
	}
	return db.Settings, nil
}

// Update replaces the settings record wholesale.
func (s *Service) Update(ctx context.Context, caller session.Principal, app settings.App) (settings.App, error) {
	if err := session.RequireAdmin(caller); err != nil {
		return settings.App{}, err
	}
	if err := app.Validate(); err != nil {
		return settings.App{}, err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		db, err := s.store.ReadAll(ctx)
		if err != nil {
			return settings.App{}, err
		}
		db.Settings = app
		if err := s.store.WriteAll(ctx, db); err != nil {
			if storage.IsRevisionConflict(err) {
				lastErr = err
				continue
			}
			return settings.App{}, err
		}
		s.log.WithContext(ctx).WithField("app_name", app.AppName).Info("settings updated")
		return app, nil
	}
	return settings.App{}, lastErr
}
