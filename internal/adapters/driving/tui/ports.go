package tui

import (
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the reader UI needs.
type Ports struct {
	// Session is the reading session for the open publication.
	Session driving.ReaderSession

	// Positions lists bookmarks for the annotations panel. Deletion goes
	// through the session so its bookmark state stays consistent.
	Positions driving.PositionService

	// Settings manages application settings.
	Settings driving.SettingsService
}
