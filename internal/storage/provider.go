// Package storage defines the persistence contract for the portal database:
// a single aggregate read and written wholesale, guarded by a monotonic
// revision stamp with compare-and-swap semantics on write.
package storage

import (
	"context"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/domain/category"
	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/domain/settings"
	"github.com/docuforge/doc_portal/internal/errors"
)

// Database is the aggregate root holding every portal entity. It is owned by
// the Provider; services re-read it fresh for every operation and never keep
// a long-lived reference.
type Database struct {
	Revision   uint64              `json:"revision"`
	Modules    []docmodule.Module  `json:"modules"`
	Categories []category.Category `json:"categories"`
	Users      []adminuser.User    `json:"users"`
	Settings   settings.App        `json:"settings"`
}

// Provider is the opaque storage behind the domain services. WriteAll
// applies compare-and-swap on Database.Revision: the snapshot's revision
// must equal the stored revision or the write fails with a revision
// conflict, so a concurrent writer's change is never silently discarded.
type Provider interface {
	ReadAll(ctx context.Context) (Database, error)
	WriteAll(ctx context.Context, db Database) error
}

// ErrRevisionConflict signals that the snapshot being written was read
// before a concurrent write landed. Callers may re-read and retry.
func ErrRevisionConflict(got, want uint64) error {
	return errors.Conflict("Database was modified concurrently").
		WithDetails("revision", got).
		WithDetails("expected", want)
}

// IsRevisionConflict reports whether err is a lost-update rejection.
func IsRevisionConflict(err error) bool {
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeConflict {
		return false
	}
	_, ok := se.Details["revision"]
	return ok
}

// Normalize fills defaults for fields that may be absent in stored data:
// nil entity slices become empty, missing settings gain the default app
// name. Older files without optional fields stay readable.
func (db *Database) Normalize() {
	if db.Modules == nil {
		db.Modules = []docmodule.Module{}
	}
	if db.Categories == nil {
		db.Categories = []category.Category{}
	}
	if db.Users == nil {
		db.Users = []adminuser.User{}
	}
	if db.Settings.AppName == "" {
		db.Settings = settings.Default()
	}
}

// Clone returns a deep copy of the database so provider-held state is never
// aliased by callers.
func (db Database) Clone() Database {
	out := db
	out.Modules = make([]docmodule.Module, len(db.Modules))
	for i, m := range db.Modules {
		out.Modules[i] = m.Clone()
	}
	out.Categories = append([]category.Category(nil), db.Categories...)
	out.Users = append([]adminuser.User(nil), db.Users...)
	return out
}
