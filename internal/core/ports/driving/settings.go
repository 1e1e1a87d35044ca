package driving

import "github.com/lumen-reader/lumen/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetDefaultHighlightColor updates the default highlight colour.
	SetDefaultHighlightColor(color domain.HighlightColor) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
