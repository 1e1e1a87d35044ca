package driving

import (
	"context"

	"github.com/lumen-reader/lumen/internal/core/domain"
)

// SearchState is the lifecycle state of a search session.
type SearchState int

const (
	// SearchIdle means no search is active.
	SearchIdle SearchState = iota

	// SearchStarting means the renderer is creating the iterator.
	SearchStarting

	// SearchPaging means results are loaded and more may be available.
	SearchPaging
)

// String returns the string representation of the state.
func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchStarting:
		return "starting"
	case SearchPaging:
		return "paging"
	default:
		return "unknown"
	}
}

// SearchSession drives the cancellable, paginated query lifecycle against
// the open publication's text index.
type SearchSession interface {
	// Begin starts a new search, cancelling any prior session first.
	// An empty query clears results and goes straight to idle.
	Begin(ctx context.Context, query string) error

	// LoadNextPage fetches the next result batch. At most one fetch is
	// ever in flight; a concurrent call waits for the pending fetch
	// instead of starting another. reset replaces the loaded results
	// instead of appending.
	LoadNextPage(ctx context.Context, reset bool) error

	// MaybeLoadMore prefetches the next page when visibleIndex is within
	// the lookahead of the end of the loaded results.
	MaybeLoadMore(ctx context.Context, visibleIndex int)

	// Cancel tears the session down: cancels any in-flight fetch, closes
	// the iterator, clears results. Idempotent and safe from idle.
	Cancel()

	// Results returns the loaded results.
	Results() []domain.SearchResult

	// Total returns the estimated total result count if known. More
	// results may exist than have been paged in.
	Total() (int, bool)

	// State returns the session state.
	State() SearchState

	// ActiveID returns the decoration ID of the result the user last
	// navigated to, or empty.
	ActiveID() string

	// SetActiveID records the result the user navigated to.
	SetActiveID(id string)

	// Query returns the current query. It survives exhaustion and
	// clears on Cancel.
	Query() string
}
