package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
	"github.com/lumen-reader/lumen/internal/logger"
)

// Blob keys. The position map, bookmark list and highlight list are
// persisted as independent blobs.
const (
	blobKeyPositions  = "positions"
	blobKeyBookmarks  = "bookmarks"
	blobKeyHighlights = "highlights"
)

// Ensure PositionService implements the interface.
var _ driving.PositionService = (*PositionService)(nil)

// PositionService is the durable mapping from book to last position,
// bookmarks and highlights. All mutations are single-writer: one mutex
// guards the in-memory collections, and durable writes happen with the
// snapshot captured under that same lock, so concurrent callers observe
// serializable ordering.
//
// Durable-write failures are logged and the in-memory state remains
// authoritative for the session. A failed load at startup falls back to an
// empty store.
type PositionService struct {
	mu         sync.Mutex
	blobs      driven.BlobStore
	positions  map[uuid.UUID]domain.Locator
	bookmarks  []domain.Bookmark
	highlights []domain.Highlight
	now        func() time.Time
}

// NewPositionService creates a position service backed by the blob store,
// loading any previously persisted state.
func NewPositionService(blobs driven.BlobStore) *PositionService {
	s := &PositionService{
		blobs:     blobs,
		positions: make(map[uuid.UUID]domain.Locator),
		now:       time.Now,
	}
	s.load()
	return s
}

// load reads all three blobs. Each blob either decodes fully or is
// reported and discarded; a partially-decoded collection is never kept.
func (s *PositionService) load() {
	if data, err := s.readBlob(blobKeyPositions); data != nil {
		var positions map[uuid.UUID]domain.Locator
		if err := json.Unmarshal(data, &positions); err != nil {
			logger.Warn("Discarding positions blob: %v", err)
		} else {
			s.positions = positions
		}
	} else if err != nil {
		logger.Warn("Reading positions blob: %v", err)
	}

	if data, err := s.readBlob(blobKeyBookmarks); data != nil {
		var bookmarks []domain.Bookmark
		if err := json.Unmarshal(data, &bookmarks); err != nil {
			logger.Warn("Discarding bookmarks blob: %v", err)
		} else {
			s.bookmarks = bookmarks
		}
	} else if err != nil {
		logger.Warn("Reading bookmarks blob: %v", err)
	}

	if data, err := s.readBlob(blobKeyHighlights); data != nil {
		var highlights []domain.Highlight
		if err := json.Unmarshal(data, &highlights); err != nil {
			logger.Warn("Discarding highlights blob: %v", err)
		} else {
			s.highlights = highlights
		}
	} else if err != nil {
		logger.Warn("Reading highlights blob: %v", err)
	}

	logger.Debug("Position store loaded: %d positions, %d bookmarks, %d highlights",
		len(s.positions), len(s.bookmarks), len(s.highlights))
}

// readBlob returns (nil, nil) for a missing key so load can treat absence
// as a fresh store rather than a failure.
func (s *PositionService) readBlob(key string) ([]byte, error) {
	data, err := s.blobs.Read(key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// SavePosition records the last locator for a book. Locators carrying the
// no-location sentinel are ignored. Persistence failure is logged, never
// returned: in-memory state stays authoritative.
func (s *PositionService) SavePosition(bookID uuid.UUID, loc domain.Locator) error {
	if !loc.HasRealLocation() {
		logger.Debug("Ignoring position save for %s: no real location", bookID)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions[bookID] = loc
	s.persist(blobKeyPositions, s.positions)
	return nil
}

// Position returns the last saved locator for a book.
func (s *PositionService) Position(bookID uuid.UUID) (*domain.Locator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.positions[bookID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &loc, nil
}

// ProgressionFraction returns the saved total progression clamped to [0,1].
func (s *PositionService) ProgressionFraction(bookID uuid.UUID) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.positions[bookID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return loc.ClampedProgression(), nil
}

// AddBookmark creates a bookmark unless a near-equal one already exists
// for the book. The chapter title hint is preferred over the locator's own
// resource title for display.
func (s *PositionService) AddBookmark(
	bookID uuid.UUID, loc domain.Locator, chapterTitleHint string,
) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findBookmarkLocked(bookID, loc); existing != nil {
		logger.Debug("Bookmark already exists near %s@%.4f", loc.ResourceHref, loc.TotalProgression)
		return existing, fmt.Errorf("add bookmark: %w", domain.ErrAlreadyExists)
	}

	title := chapterTitleHint
	if title == "" {
		title = loc.ResourceTitle
	}

	b := domain.Bookmark{
		ID:           uuid.New(),
		BookID:       bookID,
		Locator:      loc,
		ChapterTitle: title,
		CreatedAt:    s.now(),
	}
	s.bookmarks = append(s.bookmarks, b)
	s.persist(blobKeyBookmarks, s.bookmarks)

	logger.Debug("Bookmark %s created at %s@%.4f", b.ID, loc.ResourceHref, loc.TotalProgression)
	return &b, nil
}

// FindBookmark returns the bookmark near-equal to loc, or nil. Called on
// every location-change event, so it takes the lock briefly and scans.
func (s *PositionService) FindBookmark(bookID uuid.UUID, loc domain.Locator) *domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBookmarkLocked(bookID, loc)
}

func (s *PositionService) findBookmarkLocked(bookID uuid.UUID, loc domain.Locator) *domain.Bookmark {
	for i := range s.bookmarks {
		if s.bookmarks[i].BookID == bookID && s.bookmarks[i].Locator.NearEqual(loc) {
			b := s.bookmarks[i]
			return &b
		}
	}
	return nil
}

// Bookmarks lists all bookmarks for a book.
func (s *PositionService) Bookmarks(bookID uuid.UUID) []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Bookmark
	for i := range s.bookmarks {
		if s.bookmarks[i].BookID == bookID {
			out = append(out, s.bookmarks[i])
		}
	}
	return out
}

// DeleteBookmark removes a bookmark by ID.
func (s *PositionService) DeleteBookmark(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			s.persist(blobKeyBookmarks, s.bookmarks)
			return nil
		}
	}
	return fmt.Errorf("delete bookmark %s: %w", id, domain.ErrNotFound)
}

// AddHighlight persists a new highlight from a selection.
func (s *PositionService) AddHighlight(
	bookID uuid.UUID, loc domain.Locator, text string, color domain.HighlightColor, note string,
) (*domain.Highlight, error) {
	if text == "" {
		return nil, fmt.Errorf("add highlight: %w", domain.ErrEmptySelection)
	}
	if !color.IsValid() {
		color = domain.HighlightYellow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := domain.Highlight{
		ID:           uuid.New(),
		BookID:       bookID,
		Locator:      loc,
		SelectedText: text,
		Color:        color,
		Note:         note,
		CreatedAt:    s.now(),
	}
	s.highlights = append(s.highlights, h)
	s.persist(blobKeyHighlights, s.highlights)

	logger.Debug("Highlight %s created at %s@%.4f", h.ID, loc.ResourceHref, loc.TotalProgression)
	return &h, nil
}

// Highlights lists all highlights for a book.
func (s *PositionService) Highlights(bookID uuid.UUID) []domain.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Highlight
	for i := range s.highlights {
		if s.highlights[i].BookID == bookID {
			out = append(out, s.highlights[i])
		}
	}
	return out
}

// UpdateHighlight mutates colour and/or note of a highlight. Nil fields
// are left unchanged.
func (s *PositionService) UpdateHighlight(
	id uuid.UUID, color *domain.HighlightColor, note *string,
) (*domain.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.highlights {
		if s.highlights[i].ID != id {
			continue
		}
		if color != nil {
			if !color.IsValid() {
				return nil, fmt.Errorf("update highlight %s: %w", id, domain.ErrInvalidInput)
			}
			s.highlights[i].Color = *color
		}
		if note != nil {
			s.highlights[i].Note = *note
		}
		s.persist(blobKeyHighlights, s.highlights)
		h := s.highlights[i]
		return &h, nil
	}
	return nil, fmt.Errorf("update highlight %s: %w", id, domain.ErrNotFound)
}

// DeleteHighlight removes a highlight by ID.
func (s *PositionService) DeleteHighlight(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.highlights {
		if s.highlights[i].ID == id {
			s.highlights = append(s.highlights[:i], s.highlights[i+1:]...)
			s.persist(blobKeyHighlights, s.highlights)
			return nil
		}
	}
	return fmt.Errorf("delete highlight %s: %w", id, domain.ErrNotFound)
}

// persist writes one collection while still holding the mutex, keeping
// durable writes in the same order as the in-memory mutations they mirror.
func (s *PositionService) persist(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Encoding %s blob: %v", key, err)
		return
	}
	if err := s.blobs.WriteAtomic(key, data); err != nil {
		logger.Warn("Persisting %s blob: %v (in-memory state remains authoritative)", key, err)
	}
}
