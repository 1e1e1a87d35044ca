package services

import (
	"fmt"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

// Config keys.
const (
	configKeyBooksDir       = "reader.books_dir"
	configKeyDataDir        = "reader.data_dir"
	configKeyHighlightColor = "reader.highlight_color"
	configKeyVerbose        = "reader.verbose"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings on top of the config store.
type SettingsService struct {
	config driven.ConfigStore
}

// NewSettingsService creates a settings service.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{config: config}
}

// Get retrieves current settings, falling back to defaults for unset keys.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.GetDefaults()

	if v := s.config.GetString(configKeyBooksDir); v != "" {
		settings.BooksDir = v
	}
	if v := s.config.GetString(configKeyDataDir); v != "" {
		settings.DataDir = v
	}
	if v := s.config.GetString(configKeyHighlightColor); v != "" {
		color := domain.HighlightColor(v)
		if !color.IsValid() {
			return nil, fmt.Errorf("setting %s: %w: %q", configKeyHighlightColor, domain.ErrInvalidInput, v)
		}
		settings.DefaultHighlightColor = color
	}
	settings.Verbose = s.config.GetBool(configKeyVerbose)

	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if err := s.config.Set(configKeyBooksDir, settings.BooksDir); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.config.Set(configKeyDataDir, settings.DataDir); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.config.Set(configKeyHighlightColor, settings.DefaultHighlightColor.String()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.config.Set(configKeyVerbose, settings.Verbose); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetDefaultHighlightColor updates the default highlight colour.
func (s *SettingsService) SetDefaultHighlightColor(color domain.HighlightColor) error {
	if !color.IsValid() {
		return fmt.Errorf("set highlight colour: %w: %q", domain.ErrInvalidInput, color)
	}
	return s.config.Set(configKeyHighlightColor, color.String())
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultSettings()
}
