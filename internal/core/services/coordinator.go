package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
	"github.com/lumen-reader/lumen/internal/logger"
)

// Ensure SessionCoordinator implements the interface.
var _ driving.ReaderSession = (*SessionCoordinator)(nil)

// SessionCoordinator orchestrates reading state for a single open
// publication: the current locator, bookmark and highlight state, the
// search session, and decoration synchronisation. One mutex serializes
// every state transition, so renderer events and user commands for the
// same book never race; an operation that suspends (open, navigate,
// decoration push) holds the lock for its duration, which is what makes a
// close issued mid-open wait instead of tearing down concurrently.
type SessionCoordinator struct {
	renderer  driven.Renderer
	positions driving.PositionService

	mu         sync.Mutex
	settings   domain.AppSettings
	state      driving.SessionState
	ref        driven.PublicationRef
	pub        driven.Publication
	decor      *DecorationManager
	search     *SearchSession
	saver      *positionSaver
	current    *domain.Locator
	bookmarked bool
}

// NewSessionCoordinator creates a coordinator with its dependencies
// injected. Settings arrive as a snapshot; later changes are delivered
// through ApplySettings, never observed ambiently.
func NewSessionCoordinator(
	renderer driven.Renderer,
	positions driving.PositionService,
	settings domain.AppSettings,
) *SessionCoordinator {
	return &SessionCoordinator{
		renderer:  renderer,
		positions: positions,
		settings:  settings,
		state:     driving.SessionClosed,
	}
}

// Open opens a publication. Valid only from the closed state. The initial
// position is initial if non-nil, otherwise the stored position for the
// book. On renderer failure the session stays closed.
func (c *SessionCoordinator) Open(
	ctx context.Context, ref driven.PublicationRef, initial *domain.Locator,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionClosed {
		return fmt.Errorf("open %q: %w: session is %s", ref.Title, domain.ErrInvalidState, c.state)
	}
	c.state = driving.SessionOpening

	logger.Section("Open Publication")
	logger.Info("Opening %q (%s)", ref.Title, ref.Path)

	pub, err := c.renderer.Open(ctx, ref)
	if err != nil {
		c.state = driving.SessionClosed
		logger.Warn("Open failed: %v", err)
		return fmt.Errorf("%w: %v", domain.ErrOpenFailed, err)
	}

	c.pub = pub
	c.ref = ref
	c.decor = NewDecorationManager(pub)
	c.search = NewSearchSession(pub)
	c.saver = newPositionSaver(c.positions, ref.BookID)

	// Restore position: explicit initial wins over the stored one.
	c.current = initial
	if c.current == nil {
		if stored, err := c.positions.Position(ref.BookID); err == nil {
			c.current = stored
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Reading stored position: %v", err)
		}
	}
	c.bookmarked = false
	if c.current != nil {
		c.bookmarked = c.positions.FindBookmark(ref.BookID, *c.current) != nil
		if ok, err := pub.NavigateTo(ctx, *c.current); err != nil || !ok {
			// Best effort: a failed restore leaves the renderer at its
			// default position.
			logger.Warn("Restoring position %s@%.4f failed", c.current.ResourceHref, c.current.TotalProgression)
		}
	}

	c.pushHighlightsLocked(ctx)

	go c.consumeLocations(pub.Locations())

	c.state = driving.SessionOpen
	logger.Info("Publication open, position=%v bookmarked=%t", c.current, c.bookmarked)
	return nil
}

// Close tears the session down: cancels the search session, clears both
// decoration groups, flushes and stops the position saver, and releases
// the publication. Safe to call repeatedly; a close racing an in-flight
// open waits for the open to finish first.
func (c *SessionCoordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == driving.SessionClosed {
		return nil
	}

	logger.Section("Close Publication")

	if c.search != nil {
		c.search.Cancel()
	}
	if c.decor != nil {
		c.decor.ClearAll(ctx)
	}
	if c.saver != nil {
		c.saver.stop()
	}
	if c.pub != nil {
		if err := c.pub.Close(); err != nil {
			logger.Warn("Closing publication: %v", err)
		}
	}

	c.pub = nil
	c.decor = nil
	c.search = nil
	c.saver = nil
	c.current = nil
	c.bookmarked = false
	c.ref = driven.PublicationRef{}
	c.state = driving.SessionClosed
	return nil
}

// consumeLocations funnels the renderer's location events through the
// coordinator in emission order. Exits when the publication closes its
// stream.
func (c *SessionCoordinator) consumeLocations(events <-chan domain.Locator) {
	for loc := range events {
		c.OnLocationChanged(loc)
	}
}

// OnLocationChanged updates the current locator, recomputes the
// bookmark-at-location flag and hands the position to the saver.
// Persistence is fire-and-forget: this handler never blocks event
// delivery on a durable write.
func (c *SessionCoordinator) OnLocationChanged(loc domain.Locator) {
	c.mu.Lock()
	if c.state != driving.SessionOpen {
		c.mu.Unlock()
		return
	}
	l := loc
	c.current = &l
	c.bookmarked = c.positions.FindBookmark(c.ref.BookID, loc) != nil
	saver := c.saver
	c.mu.Unlock()

	saver.enqueue(loc)
}

// State returns the session state.
func (c *SessionCoordinator) State() driving.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BookID returns the open book's ID, or uuid.Nil.
func (c *SessionCoordinator) BookID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ref.BookID
}

// CurrentLocator returns the last reported position, or nil.
func (c *SessionCoordinator) CurrentLocator() *domain.Locator {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	l := *c.current
	return &l
}

// IsCurrentLocationBookmarked reports whether a bookmark exists near-equal
// to the current position.
func (c *SessionCoordinator) IsCurrentLocationBookmarked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bookmarked
}

// ToggleBookmark creates a bookmark at the current position, or deletes
// the near-equal one if it exists. The read-decide-act sequence runs under
// the coordinator mutex, so a rapid double toggle lands back in the
// original state instead of duplicating or double-deleting.
func (c *SessionCoordinator) ToggleBookmark(_ context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return false, fmt.Errorf("toggle bookmark: %w", domain.ErrInvalidState)
	}
	if c.current == nil {
		return false, fmt.Errorf("toggle bookmark: %w", domain.ErrNoCurrentLocation)
	}

	if existing := c.positions.FindBookmark(c.ref.BookID, *c.current); existing != nil {
		if err := c.positions.DeleteBookmark(existing.ID); err != nil {
			return c.bookmarked, fmt.Errorf("toggle bookmark: %w", err)
		}
		c.bookmarked = false
		logger.Debug("Bookmark removed at %s@%.4f", c.current.ResourceHref, c.current.TotalProgression)
		return false, nil
	}

	if _, err := c.positions.AddBookmark(c.ref.BookID, *c.current, c.chapterTitleLocked()); err != nil {
		return c.bookmarked, fmt.Errorf("toggle bookmark: %w", err)
	}
	c.bookmarked = true
	return true, nil
}

// DeleteBookmark removes a bookmark by ID, regardless of where it sits.
// The cached bookmark flag is recomputed afterwards, so deleting the
// bookmark at the current position clears the reader's marker without
// waiting for the next location event.
func (c *SessionCoordinator) DeleteBookmark(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return fmt.Errorf("delete bookmark: %w", domain.ErrInvalidState)
	}
	if err := c.positions.DeleteBookmark(id); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	c.bookmarked = c.current != nil && c.positions.FindBookmark(c.ref.BookID, *c.current) != nil
	return nil
}

// chapterTitleLocked is the currently known chapter title. Caller holds
// the mutex.
func (c *SessionCoordinator) chapterTitleLocked() string {
	if c.current == nil {
		return ""
	}
	return c.current.ResourceTitle
}

// CreateHighlightFromSelection persists a highlight for the selected text
// with the default colour, then recomputes and pushes the full highlight
// overlay.
func (c *SessionCoordinator) CreateHighlightFromSelection(
	ctx context.Context, loc domain.Locator, text string,
) (*domain.Highlight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return nil, fmt.Errorf("create highlight: %w", domain.ErrInvalidState)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("create highlight: %w", domain.ErrEmptySelection)
	}

	h, err := c.positions.AddHighlight(c.ref.BookID, loc, text, c.settings.DefaultHighlightColor, "")
	if err != nil {
		return nil, fmt.Errorf("create highlight: %w", err)
	}

	c.pushHighlightsLocked(ctx)
	return h, nil
}

// ChangeHighlightColor recolours a highlight and pushes the full overlay.
func (c *SessionCoordinator) ChangeHighlightColor(
	ctx context.Context, id uuid.UUID, color domain.HighlightColor,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return fmt.Errorf("change highlight colour: %w", domain.ErrInvalidState)
	}
	if _, err := c.positions.UpdateHighlight(id, &color, nil); err != nil {
		return fmt.Errorf("change highlight colour: %w", err)
	}
	c.pushHighlightsLocked(ctx)
	return nil
}

// AddNote attaches a note to a highlight and pushes the full overlay.
func (c *SessionCoordinator) AddNote(ctx context.Context, id uuid.UUID, note string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return fmt.Errorf("add note: %w", domain.ErrInvalidState)
	}
	if _, err := c.positions.UpdateHighlight(id, nil, &note); err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	c.pushHighlightsLocked(ctx)
	return nil
}

// DeleteHighlight removes a highlight and pushes the full overlay.
func (c *SessionCoordinator) DeleteHighlight(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return fmt.Errorf("delete highlight: %w", domain.ErrInvalidState)
	}
	if err := c.positions.DeleteHighlight(id); err != nil {
		return fmt.Errorf("delete highlight: %w", err)
	}
	c.pushHighlightsLocked(ctx)
	return nil
}

// Highlights lists the open book's highlights.
func (c *SessionCoordinator) Highlights() []domain.Highlight {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != driving.SessionOpen {
		return nil
	}
	return c.positions.Highlights(c.ref.BookID)
}

// NavigateTo asks the renderer to move to a locator. No decoration change.
func (c *SessionCoordinator) NavigateTo(ctx context.Context, loc domain.Locator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return fmt.Errorf("navigate: %w", domain.ErrInvalidState)
	}
	ok, err := c.pub.NavigateTo(ctx, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNavigationFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: renderer refused %s", domain.ErrNavigationFailed, loc.ResourceHref)
	}
	return nil
}

// ResourceText returns the display text of a resource in the open
// publication.
func (c *SessionCoordinator) ResourceText(href string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return "", fmt.Errorf("resource text: %w", domain.ErrInvalidState)
	}
	return c.pub.Contents(href)
}

// ReadingOrder returns the open publication's resource hrefs in reading
// order, or nil when closed.
func (c *SessionCoordinator) ReadingOrder() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return nil
	}
	return c.pub.ReadingOrder()
}

// NavigateToSearchResult navigates to a search result. Only on confirmed
// success is the search overlay replaced with the new single member; a
// failed navigation leaves decoration state untouched.
func (c *SessionCoordinator) NavigateToSearchResult(
	ctx context.Context, loc domain.Locator, id string,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != driving.SessionOpen {
		return fmt.Errorf("navigate to result: %w", domain.ErrInvalidState)
	}

	ok, err := c.pub.NavigateTo(ctx, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNavigationFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: renderer refused %s", domain.ErrNavigationFailed, loc.ResourceHref)
	}

	c.decor.Apply(ctx, domain.DecorationGroupSearch, []domain.Decoration{{
		ID:      id,
		Locator: loc,
		Style: domain.DecorationStyle{
			Kind:  domain.DecorationUnderline,
			Color: domain.HighlightYellow,
		},
	}})
	c.search.SetActiveID(id)
	return nil
}

// Search returns the session's search state machine, or nil when closed.
func (c *SessionCoordinator) Search() driving.SearchSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search == nil {
		return nil
	}
	return c.search
}

// ApplySettings delivers a settings update. The coordinator never
// observes settings ambiently; changes take effect only through here.
func (c *SessionCoordinator) ApplySettings(s domain.AppSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
	logger.Debug("Settings applied: default colour %s", s.DefaultHighlightColor)
}

// pushHighlightsLocked recomputes the full highlight overlay from the
// store and pushes it wholesale. Caller holds the mutex.
func (c *SessionCoordinator) pushHighlightsLocked(ctx context.Context) {
	highlights := c.positions.Highlights(c.ref.BookID)
	decorations := make([]domain.Decoration, 0, len(highlights))
	for i := range highlights {
		decorations = append(decorations, domain.Decoration{
			ID:      "highlight-" + highlights[i].ID.String(),
			Locator: highlights[i].Locator,
			Style: domain.DecorationStyle{
				Kind:  domain.DecorationHighlight,
				Color: highlights[i].Color,
			},
		})
	}
	c.decor.Apply(ctx, domain.DecorationGroupHighlights, decorations)
}
