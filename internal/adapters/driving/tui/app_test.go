package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/messages"
	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

type fakeSearch struct {
	cancelled int
}

var _ driving.SearchSession = (*fakeSearch)(nil)

func (f *fakeSearch) Begin(context.Context, string) error       { return nil }
func (f *fakeSearch) LoadNextPage(context.Context, bool) error  { return nil }
func (f *fakeSearch) MaybeLoadMore(context.Context, int)        {}
func (f *fakeSearch) Cancel()                                   { f.cancelled++ }
func (f *fakeSearch) Results() []domain.SearchResult            { return nil }
func (f *fakeSearch) Total() (int, bool)                        { return 0, false }
func (f *fakeSearch) State() driving.SearchState                { return driving.SearchIdle }
func (f *fakeSearch) ActiveID() string                          { return "" }
func (f *fakeSearch) SetActiveID(string)                        {}
func (f *fakeSearch) Query() string                             { return "" }

type fakeSession struct {
	locator    *domain.Locator
	bookmarked bool
	search     *fakeSearch
	texts      map[string]string
}

var _ driving.ReaderSession = (*fakeSession)(nil)

func (f *fakeSession) Open(context.Context, driven.PublicationRef, *domain.Locator) error {
	return nil
}
func (f *fakeSession) Close(context.Context) error       { return nil }
func (f *fakeSession) State() driving.SessionState       { return driving.SessionOpen }
func (f *fakeSession) BookID() uuid.UUID                 { return uuid.Nil }
func (f *fakeSession) CurrentLocator() *domain.Locator   { return f.locator }
func (f *fakeSession) IsCurrentLocationBookmarked() bool { return f.bookmarked }
func (f *fakeSession) ToggleBookmark(context.Context) (bool, error) {
	return false, nil
}
func (f *fakeSession) CreateHighlightFromSelection(context.Context, domain.Locator, string) (*domain.Highlight, error) {
	return nil, nil
}
func (f *fakeSession) ChangeHighlightColor(context.Context, uuid.UUID, domain.HighlightColor) error {
	return nil
}
func (f *fakeSession) AddNote(context.Context, uuid.UUID, string) error { return nil }
func (f *fakeSession) DeleteHighlight(context.Context, uuid.UUID) error { return nil }
func (f *fakeSession) DeleteBookmark(context.Context, uuid.UUID) error  { return nil }
func (f *fakeSession) Highlights() []domain.Highlight                   { return nil }
func (f *fakeSession) NavigateTo(context.Context, domain.Locator) error { return nil }
func (f *fakeSession) ResourceText(href string) (string, error) {
	if text, ok := f.texts[href]; ok {
		return text, nil
	}
	return "", domain.ErrNotFound
}
func (f *fakeSession) ReadingOrder() []string { return nil }
func (f *fakeSession) NavigateToSearchResult(context.Context, domain.Locator, string) error {
	return nil
}
func (f *fakeSession) Search() driving.SearchSession   { return f.search }
func (f *fakeSession) ApplySettings(domain.AppSettings) {}

type fakePositions struct{}

var _ driving.PositionService = (*fakePositions)(nil)

func (f *fakePositions) SavePosition(uuid.UUID, domain.Locator) error { return nil }
func (f *fakePositions) Position(uuid.UUID) (*domain.Locator, error) {
	return nil, domain.ErrNotFound
}
func (f *fakePositions) ProgressionFraction(uuid.UUID) (float64, error) {
	return 0, domain.ErrNotFound
}
func (f *fakePositions) AddBookmark(uuid.UUID, domain.Locator, string) (*domain.Bookmark, error) {
	return nil, nil
}
func (f *fakePositions) FindBookmark(uuid.UUID, domain.Locator) *domain.Bookmark { return nil }
func (f *fakePositions) Bookmarks(uuid.UUID) []domain.Bookmark                   { return nil }
func (f *fakePositions) DeleteBookmark(uuid.UUID) error                          { return nil }
func (f *fakePositions) AddHighlight(uuid.UUID, domain.Locator, string, domain.HighlightColor, string) (*domain.Highlight, error) {
	return nil, nil
}
func (f *fakePositions) Highlights(uuid.UUID) []domain.Highlight { return nil }
func (f *fakePositions) UpdateHighlight(uuid.UUID, *domain.HighlightColor, *string) (*domain.Highlight, error) {
	return nil, nil
}
func (f *fakePositions) DeleteHighlight(uuid.UUID) error { return nil }

type fakeSettings struct{}

var _ driving.SettingsService = (*fakeSettings)(nil)

func (f *fakeSettings) Get() (*domain.AppSettings, error) {
	s := domain.DefaultSettings()
	return &s, nil
}
func (f *fakeSettings) Save(*domain.AppSettings) error { return nil }
func (f *fakeSettings) SetDefaultHighlightColor(domain.HighlightColor) error {
	return nil
}
func (f *fakeSettings) GetDefaults() domain.AppSettings { return domain.DefaultSettings() }

func newTestApp(session *fakeSession) *App {
	app := NewApp(&Ports{
		Session:   session,
		Positions: &fakePositions{},
		Settings:  &fakeSettings{},
	})
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_StartsInReaderView(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})

	assert.Equal(t, messages.ViewReader, app.CurrentView())
}

func TestApp_InitStartsLocationPolling(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})

	assert.NotNil(t, app.Init())
}

func TestApp_LocationTickEmitsRefresh(t *testing.T) {
	progression := 0.3
	session := &fakeSession{
		search:     &fakeSearch{},
		bookmarked: true,
		locator:    &domain.Locator{ResourceHref: "ch1.html", TotalProgression: progression},
	}
	app := newTestApp(session)

	_, cmd := app.Update(locationTickMsg{})
	require.NotNil(t, cmd)

	// The batch contains the refresh and the next tick; run the refresh
	// directly instead of unpacking the batch.
	msg := refreshLocation(app.ports)().(messages.LocationRefreshed)
	assert.True(t, msg.Bookmarked)
	require.NotNil(t, msg.Locator)
	assert.Equal(t, "ch1.html", msg.Locator.ResourceHref)
}

func TestApp_SlashOpensSearch(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})

	model, _ := app.Update(keyMsg("/"))

	assert.Equal(t, messages.ViewSearch, model.(*App).CurrentView())
}

func TestApp_AOpensAnnotations(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})

	model, _ := app.Update(keyMsg("a"))

	assert.Equal(t, messages.ViewAnnotations, model.(*App).CurrentView())
}

func TestApp_HelpViewTogglesBack(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})

	model, _ := app.Update(keyMsg("?"))
	app = model.(*App)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "toggle bookmark")

	model, _ = app.Update(keyMsg("x"))
	assert.Equal(t, messages.ViewReader, model.(*App).CurrentView())
}

func TestApp_EscInSearchReturnsToReader(t *testing.T) {
	search := &fakeSearch{}
	app := newTestApp(&fakeSession{search: search})

	model, _ := app.Update(keyMsg("/"))
	app = model.(*App)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	model, _ = app.Update(cmd())

	assert.Equal(t, messages.ViewReader, model.(*App).CurrentView())
	assert.Equal(t, 1, search.cancelled)
}

func TestApp_QQuitsFromReader(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})

	_, cmd := app.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QDoesNotQuitFromSearch(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})
	model, _ := app.Update(keyMsg("/"))
	app = model.(*App)

	_, cmd := app.Update(keyMsg("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.Quit(), cmd())
	}
}

func TestApp_CtrlCAlwaysQuits(t *testing.T) {
	app := newTestApp(&fakeSession{search: &fakeSearch{}})
	model, _ := app.Update(keyMsg("/"))
	app = model.(*App)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_LocationReachesReaderBehindPanels(t *testing.T) {
	session := &fakeSession{
		search: &fakeSearch{},
		texts:  map[string]string{"ch2.html": "chapter two text"},
	}
	app := newTestApp(session)
	model, _ := app.Update(keyMsg("a"))
	app = model.(*App)

	model, _ = app.Update(messages.LocationRefreshed{
		Locator: &domain.Locator{ResourceHref: "ch2.html", TotalProgression: 0.5},
	})
	app = model.(*App)

	assert.Equal(t, messages.ViewAnnotations, app.CurrentView())
	assert.Equal(t, "ch2.html", app.reader.CurrentHref())
}
