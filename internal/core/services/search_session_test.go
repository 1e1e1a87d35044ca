package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

func searchResults(hrefPrefix string, n int) []domain.SearchResult {
	out := make([]domain.SearchResult, n)
	for i := range out {
		out[i] = domain.SearchResult{
			Locator:          domain.Locator{ResourceHref: hrefPrefix, TotalProgression: float64(i) / float64(n+1)},
			ContextHighlight: "whale",
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestSearchSession_Begin_EmptyQuery(t *testing.T) {
	pub := newFakePublication()
	pub.searchIter = &fakeIterator{}
	s := NewSearchSession(pub)

	require.NoError(t, s.Begin(context.Background(), "   "))

	assert.Equal(t, driving.SearchIdle, s.State())
	assert.Empty(t, s.Results())
	// No iterator was ever requested.
	assert.Equal(t, 0, pub.searchIter.calls())
}

func TestSearchSession_Begin_LoadsFirstPage(t *testing.T) {
	pub := newFakePublication()
	pub.searchIter = &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 20), EstimatedTotal: intPtr(57)},
	}}
	s := NewSearchSession(pub)

	require.NoError(t, s.Begin(context.Background(), "whale"))

	assert.Equal(t, driving.SearchPaging, s.State())
	assert.Equal(t, "whale", s.Query())
	assert.Len(t, s.Results(), 20)
	total, ok := s.Total()
	require.True(t, ok)
	assert.Equal(t, 57, total)
}

func TestSearchSession_LoadNextPage_Appends(t *testing.T) {
	pub := newFakePublication()
	pub.searchIter = &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 20), EstimatedTotal: intPtr(57)},
		{Results: searchResults("ch2.html", 20), EstimatedTotal: intPtr(57)},
	}}
	s := NewSearchSession(pub)

	require.NoError(t, s.Begin(context.Background(), "whale"))
	require.NoError(t, s.LoadNextPage(context.Background(), false))

	assert.Len(t, s.Results(), 40)
	total, ok := s.Total()
	require.True(t, ok)
	assert.Equal(t, 57, total)
}

func TestSearchSession_TotalNeverDecreases(t *testing.T) {
	pub := newFakePublication()
	pub.searchIter = &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 5), EstimatedTotal: intPtr(57)},
		{Results: searchResults("ch2.html", 5), EstimatedTotal: intPtr(40)},
	}}
	s := NewSearchSession(pub)

	require.NoError(t, s.Begin(context.Background(), "whale"))
	require.NoError(t, s.LoadNextPage(context.Background(), false))

	total, ok := s.Total()
	require.True(t, ok)
	assert.Equal(t, 57, total)
}

func TestSearchSession_Exhaustion(t *testing.T) {
	iter := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 3)},
	}}
	pub := newFakePublication()
	pub.searchIter = iter
	s := NewSearchSession(pub)

	require.NoError(t, s.Begin(context.Background(), "whale"))
	require.NoError(t, s.LoadNextPage(context.Background(), false))

	assert.Equal(t, driving.SearchIdle, s.State())
	// Results survive exhaustion and the count becomes exact.
	assert.Len(t, s.Results(), 3)
	total, ok := s.Total()
	require.True(t, ok)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, iter.closeCount())
}

func TestSearchSession_SingleFetchInFlight(t *testing.T) {
	gate := make(chan struct{})
	iter := &fakeIterator{
		gate: gate,
		pages: []driven.SearchPage{
			{Results: searchResults("ch1.html", 5)},
		},
	}
	pub := newFakePublication()
	pub.searchIter = iter
	s := NewSearchSession(pub)

	// Start the session without its first page so the fetches under test
	// are the only ones.
	s.mu.Lock()
	s.state = driving.SearchPaging
	s.iter = iter
	sessCtx, cancel := context.WithCancel(context.Background())
	s.sessCtx = sessCtx
	s.cancel = cancel
	s.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.LoadNextPage(context.Background(), false)
		}()
	}

	// Let the callers pile up behind the single in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	// Exactly one fetch happened; no page was fetched twice.
	assert.Equal(t, 1, iter.calls())
	assert.Len(t, s.Results(), 5)
}

func TestSearchSession_CancelBeforeIteratorResolves(t *testing.T) {
	gate := make(chan struct{})
	iter := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 5)},
	}}
	pub := newFakePublication()
	pub.searchIter = iter
	pub.searchGate = gate
	s := NewSearchSession(pub)

	done := make(chan error, 1)
	go func() {
		done <- s.Begin(context.Background(), "whale")
	}()

	// Wait for Begin to enter the starting state, then cancel under it.
	require.Eventually(t, func() bool {
		return s.State() == driving.SearchStarting
	}, time.Second, time.Millisecond)
	s.Cancel()
	close(gate)

	require.NoError(t, <-done)
	assert.Equal(t, driving.SearchIdle, s.State())
	assert.Empty(t, s.Results())
	// The late-arriving iterator was released exactly once.
	assert.Equal(t, 1, iter.closeCount())
}

func TestSearchSession_Cancel_Idempotent(t *testing.T) {
	iter := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 5)},
	}}
	pub := newFakePublication()
	pub.searchIter = iter
	s := NewSearchSession(pub)

	// Safe from idle.
	s.Cancel()

	require.NoError(t, s.Begin(context.Background(), "whale"))
	s.SetActiveID("search-2")
	s.Cancel()
	s.Cancel()

	assert.Equal(t, driving.SearchIdle, s.State())
	assert.Empty(t, s.Results())
	assert.Empty(t, s.ActiveID())
	_, ok := s.Total()
	assert.False(t, ok)
	assert.Equal(t, 1, iter.closeCount())
}

func TestSearchSession_FetchError_PreservesResults(t *testing.T) {
	iter := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 5)},
	}}
	pub := newFakePublication()
	pub.searchIter = iter
	s := NewSearchSession(pub)

	require.NoError(t, s.Begin(context.Background(), "whale"))

	iter.mu.Lock()
	iter.nextErr = errors.New("index unavailable")
	iter.mu.Unlock()

	err := s.LoadNextPage(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	assert.Len(t, s.Results(), 5)
	assert.Equal(t, driving.SearchPaging, s.State())
}

func TestSearchSession_Begin_IteratorCreationFails(t *testing.T) {
	pub := newFakePublication()
	pub.searchErr = errors.New("renderer busy")
	s := NewSearchSession(pub)

	err := s.Begin(context.Background(), "whale")
	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	assert.Equal(t, driving.SearchIdle, s.State())
	assert.Empty(t, s.Results())
}

func TestSearchSession_MaybeLoadMore_LookaheadPolicy(t *testing.T) {
	iter := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 20)},
		{Results: searchResults("ch2.html", 20)},
	}}
	pub := newFakePublication()
	pub.searchIter = iter
	s := NewSearchSession(pub)
	require.NoError(t, s.Begin(context.Background(), "whale"))
	require.Equal(t, 1, iter.calls())

	// Far from the end: no prefetch.
	s.MaybeLoadMore(context.Background(), 3)
	assert.Equal(t, 1, iter.calls())

	// Within the lookahead window: prefetch fires.
	s.MaybeLoadMore(context.Background(), 16)
	assert.Equal(t, 2, iter.calls())
	assert.Len(t, s.Results(), 40)
}

func TestSearchSession_BeginReplacesPriorSession(t *testing.T) {
	first := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch1.html", 5)},
	}}
	pub := newFakePublication()
	pub.searchIter = first
	s := NewSearchSession(pub)
	require.NoError(t, s.Begin(context.Background(), "whale"))

	second := &fakeIterator{pages: []driven.SearchPage{
		{Results: searchResults("ch2.html", 2)},
	}}
	pub.mu.Lock()
	pub.searchIter = second
	pub.mu.Unlock()

	require.NoError(t, s.Begin(context.Background(), "ahab"))

	assert.Equal(t, 1, first.closeCount())
	assert.Equal(t, "ahab", s.Query())
	assert.Len(t, s.Results(), 2)
}
