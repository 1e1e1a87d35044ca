// Package reader provides the reading view: the current chapter's text in
// a scrollable viewport with a status bar underneath.
package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/keymap"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/messages"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/styles"
	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

// chromeLines is the vertical space taken by the title and status bar.
const chromeLines = 3

// View is the reading view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.ReaderSession

	viewport viewport.Model

	width       int
	height      int
	currentHref string
	locator     *domain.Locator
	bookmarked  bool
	err         error
}

// NewView creates the reading view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.ReaderSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:   s,
		keymap:   km,
		session:  session,
		viewport: viewport.New(80, 24-chromeLines),
		width:    80,
		height:   24,
	}
}

// SetDimensions resizes the view.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = height - chromeLines
	if v.currentHref != "" {
		v.reloadContent()
	}
}

// Update handles messages for the reading view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.LocationRefreshed:
		v.applyLocation(msg)
		return v, nil

	case messages.BookmarkToggled:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.bookmarked = msg.On
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.PrevChapter):
			return v, v.navigateChapter(-1)
		case keymap.Matches(msg.String(), v.keymap.NextChapter):
			return v, v.navigateChapter(1)
		case keymap.Matches(msg.String(), v.keymap.Bookmark):
			return v, v.toggleBookmark()
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the reading view.
func (v *View) View() string {
	title := v.styles.Title.Render(v.chapterTitle())
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		v.viewport.View(),
		v.statusBar(),
	)
}

// applyLocation ingests the session's latest position. A resource change
// reloads the viewport content; within a resource only the scroll position
// follows.
func (v *View) applyLocation(msg messages.LocationRefreshed) {
	v.bookmarked = msg.Bookmarked
	if msg.Locator == nil {
		return
	}
	v.locator = msg.Locator

	if msg.Locator.ResourceHref != v.currentHref {
		v.currentHref = msg.Locator.ResourceHref
		v.reloadContent()
	}
	if msg.Locator.WithinResource != nil {
		line := int(*msg.Locator.WithinResource * float64(v.viewport.TotalLineCount()))
		v.viewport.SetYOffset(line)
	}
}

func (v *View) reloadContent() {
	text, err := v.session.ResourceText(v.currentHref)
	if err != nil {
		v.err = err
		return
	}
	v.err = nil
	wrapped := lipgloss.NewStyle().Width(v.viewport.Width).Render(text)
	v.viewport.SetContent(wrapped)
}

// navigateChapter moves delta resources through the reading order.
func (v *View) navigateChapter(delta int) tea.Cmd {
	order := v.session.ReadingOrder()
	if len(order) == 0 {
		return nil
	}

	current := 0
	for i, href := range order {
		if href == v.currentHref {
			current = i
			break
		}
	}
	target := current + delta
	if target < 0 || target >= len(order) {
		return nil
	}

	loc := domain.Locator{ResourceHref: order[target]}
	return func() tea.Msg {
		if err := v.session.NavigateTo(context.Background(), loc); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

func (v *View) toggleBookmark() tea.Cmd {
	return func() tea.Msg {
		on, err := v.session.ToggleBookmark(context.Background())
		return messages.BookmarkToggled{On: on, Err: err}
	}
}

func (v *View) chapterTitle() string {
	if v.locator == nil {
		return "Lumen"
	}
	if v.locator.ResourceTitle != "" {
		return v.locator.ResourceTitle
	}
	return v.locator.ResourceHref
}

// statusBar renders progression, bookmark state and key hints.
func (v *View) statusBar() string {
	var parts []string

	if v.locator != nil {
		parts = append(parts, fmt.Sprintf("%.1f%%", v.locator.ClampedProgression()*100))
	}
	if v.bookmarked {
		parts = append(parts, "● bookmarked")
	}
	if n := len(v.session.Highlights()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d highlights", n))
	}
	if v.err != nil {
		parts = append(parts, v.styles.Error.Render(v.err.Error()))
	}

	var hints []string
	for _, b := range v.keymap.ReaderHelp() {
		hints = append(hints, b.Help().Key+" "+b.Help().Desc)
	}
	parts = append(parts, v.styles.Help.Render(strings.Join(hints, "  ")))

	return v.styles.StatusBar.Width(v.width).Render(strings.Join(parts, "  │  "))
}

// Err returns the last error shown in the status bar.
func (v *View) Err() error {
	return v.err
}

// CurrentHref returns the resource currently displayed.
func (v *View) CurrentHref() string {
	return v.currentHref
}
