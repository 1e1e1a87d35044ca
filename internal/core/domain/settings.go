package domain

// DefaultSearchPageLookahead is how close to the end of the loaded search
// results the UI may scroll before the next page is prefetched. This is a
// prefetch heuristic, not a correctness requirement.
const DefaultSearchPageLookahead = 5

// AppSettings holds application configuration. The coordinator receives a
// snapshot at construction and updates through an explicit ApplySettings
// call; nothing observes settings ambiently.
type AppSettings struct {
	// BooksDir is the directory scanned for publications.
	BooksDir string

	// DataDir is where durable state (positions, annotations) lives.
	DataDir string

	// DefaultHighlightColor is used for newly created highlights.
	DefaultHighlightColor HighlightColor

	// Verbose enables debug logging.
	Verbose bool
}

// Validate checks the settings for consistency.
func (s AppSettings) Validate() error {
	if !s.DefaultHighlightColor.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() AppSettings {
	return AppSettings{
		DefaultHighlightColor: HighlightYellow,
	}
}
