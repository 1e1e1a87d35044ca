package driven

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/core/domain"
)

// PublicationRef identifies a publication asset the renderer can open.
type PublicationRef struct {
	// BookID is the stable identity used for persisted state.
	BookID uuid.UUID

	// Title is the display title, if known.
	Title string

	// Path is the asset location on disk.
	Path string
}

// Renderer opens publication assets. The renderer owns parsing, layout and
// pagination; the core treats it as opaque and asynchronous.
type Renderer interface {
	// Open opens a publication asset and returns a handle. Failure is
	// fatal to the open attempt only.
	Open(ctx context.Context, ref PublicationRef) (Publication, error)
}

// Publication is an opened, renderer-managed publication. All methods that
// reach the rendering engine may suspend; none may be assumed synchronous.
type Publication interface {
	// NavigateTo asks the renderer to move to the locator. The returned
	// bool reports whether the renderer actually moved.
	NavigateTo(ctx context.Context, loc domain.Locator) (bool, error)

	// ApplyDecorations replaces the entire member set of the named group.
	// Never incremental: the renderer renders exactly what it is given.
	ApplyDecorations(ctx context.Context, group string, decorations []domain.Decoration) error

	// Search asks the renderer for a cancellable result iterator over the
	// query. The caller owns the iterator and must close it.
	Search(ctx context.Context, query string) (SearchIterator, error)

	// CurrentSelection returns the active text selection, or nil.
	CurrentSelection() *domain.Selection

	// Contents returns the full text of a resource, for display by
	// driving adapters.
	Contents(href string) (string, error)

	// ReadingOrder returns the resource hrefs in reading order.
	ReadingOrder() []string

	// Locations returns the renderer's location-change event stream.
	// Events are delivered in the order the renderer emits them; the
	// channel closes when the publication closes.
	Locations() <-chan domain.Locator

	// Close releases the publication.
	Close() error
}

// SearchPage is one batch of search results from an iterator.
type SearchPage struct {
	// Results are the hits in this page.
	Results []domain.SearchResult

	// EstimatedTotal is the iterator's estimate of the total result
	// count, if it reports one. Authoritative over the number of
	// results paged in so far.
	EstimatedTotal *int
}

// SearchIterator pages through search results. At most one Next call may
// be in flight at a time.
type SearchIterator interface {
	// Next fetches the next page. A nil page means the iterator is
	// exhausted.
	Next(ctx context.Context) (*SearchPage, error)

	// Close releases the iterator. Must be idempotent.
	Close() error
}
