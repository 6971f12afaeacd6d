// Package settings defines the portal's singleton application settings.
package settings

import (
	"strings"

	"github.com/docuforge/doc_portal/internal/errors"
)

// App is the singleton settings record, read and replaced wholesale.
type App struct {
	AppName     string `json:"appName"`
	AppSubtitle string `json:"appSubtitle,omitempty"`
}

// Default returns the settings used when no record has been stored yet.
func Default() App {
	return App{AppName: "Module Manual"}
}

// Validate checks the required settings fields.
func (a App) Validate() error {
	if strings.TrimSpace(a.AppName) == "" {
		return errors.InvalidInput("App name is required")
	}
	return nil
}
