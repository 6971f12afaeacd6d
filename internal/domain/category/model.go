// Package category defines documentation categories. The category name acts
// as the primary key; modules reference categories by name.
package category

import (
	"strings"

	"github.com/docuforge/doc_portal/internal/errors"
)

// Category is a named grouping of modules. Stored order is display order.
type Category struct {
	Name string `json:"name"`
}

// Validate checks the category name.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.InvalidInput("Category name is required")
	}
	return nil
}

// Names flattens a category list into its name slice, preserving order.
func Names(categories []Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}
