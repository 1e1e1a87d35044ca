package driving

import (
	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/core/domain"
)

// PositionService persists reading positions, bookmarks and highlights.
// All mutating operations observe single-writer ordering per book.
type PositionService interface {
	// SavePosition durably records the last locator for a book. Locators
	// carrying the no-location sentinel are ignored.
	SavePosition(bookID uuid.UUID, loc domain.Locator) error

	// Position returns the last saved locator, or domain.ErrNotFound.
	Position(bookID uuid.UUID) (*domain.Locator, error)

	// ProgressionFraction returns the saved total progression clamped to
	// [0,1], or domain.ErrNotFound if never saved.
	ProgressionFraction(bookID uuid.UUID) (float64, error)

	// AddBookmark creates a bookmark unless a near-equal one already
	// exists for the book, in which case the existing bookmark is
	// returned with domain.ErrAlreadyExists.
	AddBookmark(bookID uuid.UUID, loc domain.Locator, chapterTitleHint string) (*domain.Bookmark, error)

	// FindBookmark returns the bookmark near-equal to loc, or nil.
	// Safe to call at high frequency.
	FindBookmark(bookID uuid.UUID, loc domain.Locator) *domain.Bookmark

	// Bookmarks lists all bookmarks for a book.
	Bookmarks(bookID uuid.UUID) []domain.Bookmark

	// DeleteBookmark removes a bookmark by ID.
	DeleteBookmark(id uuid.UUID) error

	// AddHighlight persists a new highlight from a selection.
	AddHighlight(bookID uuid.UUID, loc domain.Locator, text string, color domain.HighlightColor, note string) (*domain.Highlight, error)

	// Highlights lists all highlights for a book.
	Highlights(bookID uuid.UUID) []domain.Highlight

	// UpdateHighlight mutates colour and/or note of a highlight.
	UpdateHighlight(id uuid.UUID, color *domain.HighlightColor, note *string) (*domain.Highlight, error)

	// DeleteHighlight removes a highlight by ID.
	DeleteHighlight(id uuid.UUID) error
}
