package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a flat-file JSON provider. The whole database is serialized on
// every write; writes go through a temp file and rename so a crash never
// leaves a half-written database behind. A process-local mutex serializes
// the read-check-write of the revision stamp.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a provider backed by the JSON file at path. The file is
// created on first write; a missing file reads as an empty database.
func NewFile(path string) *File {
	return &File{path: path}
}

// ReadAll loads and decodes the database file.
func (f *File) ReadAll(_ context.Context) (Database, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLocked()
}

func (f *File) readLocked() (Database, error) {
	var db Database

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			db.Normalize()
			return db, nil
		}
		return Database{}, fmt.Errorf("read database file %s: %w", f.path, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &db); err != nil {
			return Database{}, fmt.Errorf("decode database file %s: %w", f.path, err)
		}
	}

	db.Normalize()
	return db, nil
}

// WriteAll persists the snapshot if its revision matches the stored one.
func (f *File) WriteAll(_ context.Context, db Database) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.readLocked()
	if err != nil {
		return err
	}
	if db.Revision != current.Revision {
		return ErrRevisionConflict(db.Revision, current.Revision)
	}

	db.Revision++
	db.Normalize()

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp database file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp database file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace database file %s: %w", f.path, err)
	}
	return nil
}
