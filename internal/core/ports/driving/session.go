package driving

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
)

// SessionState is the lifecycle state of a reading session.
type SessionState int

const (
	// SessionClosed means no publication is open.
	SessionClosed SessionState = iota

	// SessionOpening means the renderer is opening a publication.
	SessionOpening

	// SessionOpen means a publication is open and readable.
	SessionOpen
)

// String returns the string representation of the state.
func (s SessionState) String() string {
	switch s {
	case SessionClosed:
		return "closed"
	case SessionOpening:
		return "opening"
	case SessionOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ReaderSession coordinates reading state for one publication at a time:
// current position, bookmarks, highlights, search, and the decoration
// overlays the renderer draws. All state transitions for the open book are
// serialized; renderer events and user commands never race.
type ReaderSession interface {
	// Open opens a publication. Valid only when closed. The initial
	// position is initial if non-nil, otherwise the stored position.
	Open(ctx context.Context, ref driven.PublicationRef, initial *domain.Locator) error

	// Close tears the session down. Waits for an in-flight open.
	// Idempotent.
	Close(ctx context.Context) error

	// State returns the session state.
	State() SessionState

	// BookID returns the open book's ID, or uuid.Nil.
	BookID() uuid.UUID

	// CurrentLocator returns the last renderer-reported position, or nil.
	CurrentLocator() *domain.Locator

	// IsCurrentLocationBookmarked reports whether a bookmark exists
	// near-equal to the current position.
	IsCurrentLocationBookmarked() bool

	// ToggleBookmark creates a bookmark at the current position, or
	// deletes the near-equal one if it exists. Returns the new
	// bookmarked state.
	ToggleBookmark(ctx context.Context) (bool, error)

	// DeleteBookmark removes a bookmark by ID and recomputes whether the
	// current position is still bookmarked.
	DeleteBookmark(ctx context.Context, id uuid.UUID) error

	// CreateHighlightFromSelection persists a highlight for the selected
	// text and refreshes the highlight overlay.
	CreateHighlightFromSelection(ctx context.Context, loc domain.Locator, text string) (*domain.Highlight, error)

	// ChangeHighlightColor recolours a highlight and refreshes the
	// highlight overlay.
	ChangeHighlightColor(ctx context.Context, id uuid.UUID, color domain.HighlightColor) error

	// AddNote attaches a note to a highlight and refreshes the overlay.
	AddNote(ctx context.Context, id uuid.UUID, note string) error

	// DeleteHighlight removes a highlight and refreshes the overlay.
	DeleteHighlight(ctx context.Context, id uuid.UUID) error

	// Highlights lists the open book's highlights.
	Highlights() []domain.Highlight

	// NavigateTo asks the renderer to move to a locator.
	NavigateTo(ctx context.Context, loc domain.Locator) error

	// ResourceText returns the display text of a resource in the open
	// publication.
	ResourceText(href string) (string, error)

	// ReadingOrder returns the open publication's resource hrefs in
	// reading order.
	ReadingOrder() []string

	// NavigateToSearchResult navigates to a search result; only on
	// confirmed success is the search overlay moved to it.
	NavigateToSearchResult(ctx context.Context, loc domain.Locator, id string) error

	// Search returns the session's search state machine.
	Search() SearchSession

	// ApplySettings delivers a settings update to the session.
	ApplySettings(s domain.AppSettings)
}
