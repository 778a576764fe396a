package driving

import "github.com/custodia-labs/labelkit/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the settings with defaults and environment overrides
	// applied.
	Get() (domain.Settings, error)

	// Set validates and persists a single key.
	Set(key, value string) error

	// Keys returns every known configuration key.
	Keys() []string

	// Validate checks that the settings are usable for talking to the server.
	Validate() error
}
