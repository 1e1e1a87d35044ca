// Package tui implements the terminal reading interface. It is a driving
// adapter following the Elm architecture: a single App model routes messages
// to the active view, and every state change goes through the driving ports.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/keymap"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/messages"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/styles"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/views/annotations"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/views/reader"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/views/searchpanel"
)

// locationInterval is how often the app polls the session for the current
// reading position. Renderer events land in the session between polls.
const locationInterval = 400 * time.Millisecond

// locationTickMsg drives the position poll loop.
type locationTickMsg struct{}

// App is the root bubbletea model.
type App struct {
	ports  *Ports
	styles *styles.Styles
	keymap *keymap.KeyMap

	currentView messages.ViewType

	reader      *reader.View
	searchpanel *searchpanel.View
	annotations *annotations.View

	width  int
	height int
}

var _ tea.Model = (*App)(nil)

// NewApp creates the root model for an open reading session.
func NewApp(ports *Ports) *App {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		styles:      s,
		keymap:      km,
		currentView: messages.ViewReader,
		reader:      reader.NewView(s, km, ports.Session),
		searchpanel: searchpanel.NewView(s, km, ports.Session),
		annotations: annotations.NewView(s, km, ports.Session, ports.Positions),
	}
}

// Init starts the location poll loop.
func (a *App) Init() tea.Cmd {
	return tea.Batch(refreshLocation(a.ports), locationTick())
}

func locationTick() tea.Cmd {
	return tea.Tick(locationInterval, func(time.Time) tea.Msg {
		return locationTickMsg{}
	})
}

// refreshLocation reads the session's current position and bookmark state.
func refreshLocation(ports *Ports) tea.Cmd {
	return func() tea.Msg {
		return messages.LocationRefreshed{
			Locator:    ports.Session.CurrentLocator(),
			Bookmarked: ports.Session.IsCurrentLocationBookmarked(),
		}
	}
}

// Update routes messages to the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.reader.SetDimensions(msg.Width, msg.Height)
		a.searchpanel.SetDimensions(msg.Width, msg.Height)
		a.annotations.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case locationTickMsg:
		return a, tea.Batch(refreshLocation(a.ports), locationTick())

	case messages.ViewChanged:
		return a.switchView(msg.View)

	case messages.LocationRefreshed:
		// Position updates always reach the reader so it stays current
		// behind the search and annotations panels.
		var cmd tea.Cmd
		a.reader, cmd = a.reader.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateActive(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewReader {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Search):
			return a.switchView(messages.ViewSearch)
		case keymap.Matches(msg.String(), a.keymap.Annotations):
			return a.switchView(messages.ViewAnnotations)
		case keymap.Matches(msg.String(), a.keymap.Help):
			return a.switchView(messages.ViewHelp)
		}
	}

	if a.currentView == messages.ViewHelp {
		return a.switchView(messages.ViewReader)
	}

	return a.updateActive(msg)
}

func (a *App) switchView(view messages.ViewType) (tea.Model, tea.Cmd) {
	a.currentView = view
	switch view {
	case messages.ViewSearch:
		a.searchpanel.Reset()
		return a, a.searchpanel.Init()
	case messages.ViewAnnotations:
		a.annotations.Reset()
		return a, nil
	default:
		return a, nil
	}
}

func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSearch:
		a.searchpanel, cmd = a.searchpanel.Update(msg)
	case messages.ViewAnnotations:
		a.annotations, cmd = a.annotations.Update(msg)
	default:
		a.reader, cmd = a.reader.Update(msg)
	}
	return a, cmd
}

// View renders the active view.
func (a *App) View() string {
	switch a.currentView {
	case messages.ViewSearch:
		return a.searchpanel.View()
	case messages.ViewAnnotations:
		return a.annotations.View()
	case messages.ViewHelp:
		return a.helpView()
	default:
		return a.reader.View()
	}
}

func (a *App) helpView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				a.styles.Selected.Render(padRight(h.Key, 14)),
				a.styles.Normal.Render(h.Desc)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("press any key to return"))
	return b.String()
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}
