package driving

import "github.com/custodia-labs/docqa-cli/internal/core/domain"

// SettingsService manages the persisted pipeline configuration.
type SettingsService interface {
	// Get returns the current settings with defaults applied for
	// missing keys.
	Get() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error
}
