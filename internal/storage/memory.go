package storage

import (
	"context"
	"sync"
)

// Memory is a thread-safe in-memory provider implementing the same
// revision-guarded contract as the durable providers. It is intended for
// tests and prototyping.
type Memory struct {
	mu sync.RWMutex
	db Database
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	m := &Memory{}
	m.db.Normalize()
	return m
}

// ReadAll returns a deep copy of the current database snapshot.
func (m *Memory) ReadAll(_ context.Context) (Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db.Clone(), nil
}

// WriteAll replaces the stored database if the snapshot's revision matches.
func (m *Memory) WriteAll(_ context.Context, db Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db.Revision != m.db.Revision {
		return ErrRevisionConflict(db.Revision, m.db.Revision)
	}

	db.Revision++
	db.Normalize()
	m.db = db.Clone()
	return nil
}

// Seed installs a database unconditionally, resetting the revision counter.
// Test helper; not part of the Provider contract.
func (m *Memory) Seed(db Database) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db.Revision = m.db.Revision
	db.Normalize()
	m.db = db.Clone()
}
