package services

import (
	"context"
	"sync"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
)

// --- Shared fakes for the renderer side of the ports ---

// fakeRenderer implements driven.Renderer.
type fakeRenderer struct {
	mu      sync.Mutex
	pub     driven.Publication
	openErr error
	opens   int
	// openGate, when non-nil, blocks Open until the gate closes or the
	// context is cancelled.
	openGate chan struct{}
}

func (r *fakeRenderer) Open(ctx context.Context, _ driven.PublicationRef) (driven.Publication, error) {
	r.mu.Lock()
	r.opens++
	gate := r.openGate
	err := r.openErr
	pub := r.pub
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return pub, nil
}

func (r *fakeRenderer) openCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opens
}

// fakePublication implements driven.Publication with recording of every
// navigation and decoration push.
type fakePublication struct {
	mu sync.Mutex

	navigateOK  bool
	navigateErr error
	navigated   []domain.Locator

	applyErr   error
	applyCalls int
	groups     map[string][]domain.Decoration

	searchIter *fakeIterator
	searchErr  error
	// searchGate, when non-nil, blocks Search until the gate closes or
	// the context is cancelled. The iterator is returned either way,
	// mimicking a renderer that resolves after cancellation.
	searchGate chan struct{}

	selection *domain.Selection
	locCh     chan domain.Locator
	closed    bool
}

func newFakePublication() *fakePublication {
	return &fakePublication{
		navigateOK: true,
		groups:     make(map[string][]domain.Decoration),
		locCh:      make(chan domain.Locator, 16),
	}
}

func (p *fakePublication) NavigateTo(_ context.Context, loc domain.Locator) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, loc)
	return p.navigateOK, p.navigateErr
}

func (p *fakePublication) ApplyDecorations(_ context.Context, group string, decorations []domain.Decoration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyCalls++
	if p.applyErr != nil {
		return p.applyErr
	}
	ds := make([]domain.Decoration, len(decorations))
	copy(ds, decorations)
	p.groups[group] = ds
	return nil
}

func (p *fakePublication) Search(ctx context.Context, _ string) (driven.SearchIterator, error) {
	p.mu.Lock()
	gate := p.searchGate
	iter := p.searchIter
	err := p.searchErr
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
	if err != nil {
		return nil, err
	}
	return iter, nil
}

func (p *fakePublication) CurrentSelection() *domain.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection
}

func (p *fakePublication) Contents(href string) (string, error) {
	return "", domain.ErrNotFound
}

func (p *fakePublication) ReadingOrder() []string { return nil }

func (p *fakePublication) Locations() <-chan domain.Locator {
	return p.locCh
}

func (p *fakePublication) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.locCh)
	}
	return nil
}

// group returns a copy of a decoration group's current members.
func (p *fakePublication) group(name string) []domain.Decoration {
	p.mu.Lock()
	defer p.mu.Unlock()
	ds := make([]domain.Decoration, len(p.groups[name]))
	copy(ds, p.groups[name])
	return ds
}

func (p *fakePublication) applyCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applyCalls
}

// fakeIterator implements driven.SearchIterator over a fixed page list.
type fakeIterator struct {
	mu        sync.Mutex
	pages     []driven.SearchPage
	next      int
	nextErr   error
	nextCalls int
	closes    int
	// gate, when non-nil, blocks Next until the gate closes or the
	// context is cancelled.
	gate chan struct{}
}

func (it *fakeIterator) Next(ctx context.Context) (*driven.SearchPage, error) {
	it.mu.Lock()
	it.nextCalls++
	gate := it.gate
	it.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	if it.nextErr != nil {
		return nil, it.nextErr
	}
	if it.next >= len(it.pages) {
		return nil, nil
	}
	page := it.pages[it.next]
	it.next++
	return &page, nil
}

func (it *fakeIterator) Close() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.closes++
	return nil
}

func (it *fakeIterator) closeCount() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.closes
}

func (it *fakeIterator) calls() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.nextCalls
}

// --- Blob store fakes ---

// fakeBlobStore implements driven.BlobStore in memory with optional
// write failure injection.
type fakeBlobStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	writeErr error
	writes   int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (s *fakeBlobStore) Read(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *fakeBlobStore) WriteAtomic(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

func (s *fakeBlobStore) Close() error { return nil }

func (s *fakeBlobStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
