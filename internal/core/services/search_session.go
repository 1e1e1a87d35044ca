package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
	"github.com/lumen-reader/lumen/internal/logger"
)

// Ensure SearchSession implements the interface.
var _ driving.SearchSession = (*SearchSession)(nil)

// SearchSession wraps the renderer's paginated, cancellable result stream
// for one publication. At most one page fetch is in flight at a time; a
// concurrent LoadNextPage waits on the pending fetch instead of starting a
// second one. Cancellation is cooperative: an in-flight fetch observes the
// session context and exits without mutating result state.
type SearchSession struct {
	pub driven.Publication

	mu        sync.Mutex
	state     driving.SearchState
	query     string
	iter      driven.SearchIterator
	cancel    context.CancelFunc
	sessCtx   context.Context
	results   []domain.SearchResult
	total     *int
	activeID  string
	exhausted bool
	// inflight is non-nil while a page fetch is pending and is closed
	// when it completes, letting concurrent callers await it.
	inflight chan struct{}
}

// NewSearchSession creates a search session bound to an open publication.
func NewSearchSession(pub driven.Publication) *SearchSession {
	return &SearchSession{
		pub:   pub,
		state: driving.SearchIdle,
	}
}

// Begin starts a new search, cancelling any prior session first. An empty
// query clears results and goes straight to idle without touching the
// renderer.
func (s *SearchSession) Begin(ctx context.Context, query string) error {
	s.Cancel()

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, search stays idle")
		return nil
	}

	s.mu.Lock()
	s.state = driving.SearchStarting
	s.query = query
	sessCtx, cancel := context.WithCancel(context.Background())
	s.sessCtx = sessCtx
	s.cancel = cancel
	s.mu.Unlock()

	logger.Section("Search Session")
	logger.Debug("Query: %q", query)

	iter, err := s.pub.Search(sessCtx, query)

	s.mu.Lock()
	if s.cancel == nil || s.sessCtx != sessCtx {
		// Cancelled (or replaced) while the renderer was creating the
		// iterator. Release it and stay idle.
		s.mu.Unlock()
		if iter != nil {
			closeIterator(iter)
		}
		return nil
	}
	if err != nil {
		s.resetLocked()
		s.mu.Unlock()
		cancel()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Warn("Creating search iterator failed: %v", err)
		return fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}
	s.iter = iter
	s.state = driving.SearchPaging
	s.mu.Unlock()

	return s.LoadNextPage(ctx, true)
}

// LoadNextPage fetches the next result batch. Guarded so that at most one
// fetch is in flight: a call made while another is pending blocks until
// that fetch completes and then returns without fetching.
func (s *SearchSession) LoadNextPage(_ context.Context, reset bool) error {
	s.mu.Lock()
	if s.state != driving.SearchPaging || s.iter == nil {
		s.mu.Unlock()
		return nil
	}
	if s.inflight != nil {
		pending := s.inflight
		s.mu.Unlock()
		<-pending
		return nil
	}
	if s.exhausted && !reset {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	s.inflight = done
	iter := s.iter
	sessCtx := s.sessCtx
	s.mu.Unlock()

	page, err := iter.Next(sessCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == done {
		s.inflight = nil
	}
	close(done)

	if s.iter != iter {
		// Session was cancelled mid-fetch; discard the partial silently.
		return nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		// Existing results stay untouched.
		logger.Warn("Search page fetch failed: %v", err)
		return fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}

	if page == nil {
		// Exhausted: the loaded results are now the complete set.
		logger.Debug("Search exhausted with %d results", len(s.results))
		s.exhausted = true
		s.state = driving.SearchIdle
		s.iter = nil
		exact := len(s.results)
		s.total = &exact
		closeIterator(iter)
		return nil
	}

	if reset {
		s.results = page.Results
	} else {
		s.results = append(s.results, page.Results...)
	}
	if page.EstimatedTotal != nil {
		// The estimate is authoritative over len(results) and never
		// decreases across pages.
		if s.total == nil || *page.EstimatedTotal > *s.total {
			total := *page.EstimatedTotal
			s.total = &total
		}
	}
	logger.Debug("Search page loaded: %d results total", len(s.results))
	return nil
}

// MaybeLoadMore prefetches the next page when the consumer is within the
// lookahead of the end of the loaded results. Purely a heuristic; it never
// waits on a pending fetch.
func (s *SearchSession) MaybeLoadMore(ctx context.Context, visibleIndex int) {
	s.mu.Lock()
	trigger := s.state == driving.SearchPaging &&
		s.inflight == nil &&
		!s.exhausted &&
		visibleIndex >= len(s.results)-domain.DefaultSearchPageLookahead
	s.mu.Unlock()

	if trigger {
		if err := s.LoadNextPage(ctx, false); err != nil {
			logger.Debug("Prefetch failed: %v", err)
		}
	}
}

// Cancel tears the session down: cancels any in-flight fetch, closes the
// iterator exactly once, clears results, count and active ID. Idempotent
// and safe to call from idle.
func (s *SearchSession) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	iter := s.iter
	s.iter = nil
	// Detach any pending fetch so a new session is not gated on it; the
	// fetch itself notices the iterator swap and discards its page.
	s.inflight = nil
	s.resetLocked()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if iter != nil {
		closeIterator(iter)
	}
}

// resetLocked clears session state back to idle. Caller holds the mutex.
func (s *SearchSession) resetLocked() {
	s.state = driving.SearchIdle
	s.query = ""
	s.cancel = nil
	s.sessCtx = nil
	s.results = nil
	s.total = nil
	s.activeID = ""
	s.exhausted = false
}

// Results returns the loaded results.
func (s *SearchSession) Results() []domain.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SearchResult, len(s.results))
	copy(out, s.results)
	return out
}

// Total returns the estimated total result count if known.
func (s *SearchSession) Total() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == nil {
		return 0, false
	}
	return *s.total, true
}

// State returns the session state.
func (s *SearchSession) State() driving.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the current query. It survives exhaustion and clears on
// Cancel.
func (s *SearchSession) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// ActiveID returns the decoration ID of the result the user last
// navigated to.
func (s *SearchSession) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActiveID records the result the user navigated to.
func (s *SearchSession) SetActiveID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

func closeIterator(iter driven.SearchIterator) {
	if err := iter.Close(); err != nil {
		logger.Warn("Closing search iterator: %v", err)
	}
}
