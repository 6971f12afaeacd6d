// Package docmodule defines the documentation module aggregate.
package docmodule

import (
	"strings"

	"github.com/docuforge/doc_portal/internal/errors"
)

// ChangeType classifies a changelog entry.
type ChangeType string

const (
	ChangeNew         ChangeType = "new"
	ChangeImprovement ChangeType = "improvement"
	ChangeFix         ChangeType = "fix"
)

// Valid reports whether t is a known change type.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeNew, ChangeImprovement, ChangeFix:
		return true
	}
	return false
}

// Change is a single changelog line within a version. Ordering within a
// version's change list is insertion order and is display-significant.
type Change struct {
	Type        ChangeType `json:"type"`
	Description string     `json:"description"`
	Image       string     `json:"image,omitempty"`
}

// Version is a dated changelog entry embedded in a module. Versions are
// keyed by their free-form version string within the owning module.
type Version struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Changes []Change `json:"changes"`
}

// Module is a documentation unit with rich-text content, a category
// reference by name, and an embedded version history. ID is immutable after
// creation. At most one module may be the welcome module at any time.
type Module struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	Versions    []Version `json:"versions"`
	IsWelcome   bool      `json:"isWelcome,omitempty"`
}

// Validate checks the required fields of a module record.
func (m Module) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.InvalidInput("Module id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.InvalidInput("Module name is required")
	}
	if strings.TrimSpace(m.Category) == "" {
		return errors.InvalidInput("Module category is required")
	}
	for _, v := range m.Versions {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the required fields of a version entry.
func (v Version) Validate() error {
	if strings.TrimSpace(v.Version) == "" {
		return errors.InvalidInput("Version number is required")
	}
	for _, c := range v.Changes {
		if !c.Type.Valid() {
			return errors.InvalidInput("Unknown change type").WithDetails("type", string(c.Type))
		}
		if strings.TrimSpace(c.Description) == "" {
			return errors.InvalidInput("Change description is required")
		}
	}
	return nil
}

// Clone returns a deep copy of the module so callers never share backing
// arrays with a stored snapshot.
func (m Module) Clone() Module {
	out := m
	out.Tags = append([]string(nil), m.Tags...)
	out.Versions = make([]Version, len(m.Versions))
	for i, v := range m.Versions {
		out.Versions[i] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the version entry.
func (v Version) Clone() Version {
	out := v
	out.Changes = append([]Change(nil), v.Changes...)
	return out
}

// Matches reports whether the module matches a case-insensitive substring
// query against its name, description, or tags.
func (m Module) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(m.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Description), q) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
