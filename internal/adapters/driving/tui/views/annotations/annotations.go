// Package annotations provides the bookmarks and highlights panel.
package annotations

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/keymap"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/messages"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/styles"
	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

// Tab identifies which annotation list is active.
type Tab int

const (
	// TabBookmarks shows the bookmark list.
	TabBookmarks Tab = iota
	// TabHighlights shows the highlight list.
	TabHighlights
)

// View is the annotations panel.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	session   driving.ReaderSession
	positions driving.PositionService

	tab      Tab
	selected int
	err      error
	width    int

	noteInput   textinput.Model
	editingNote bool
	noteID      uuid.UUID
}

// NewView creates the annotations panel.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.ReaderSession, positions driving.PositionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	input := textinput.New()
	input.Placeholder = "Note..."
	input.CharLimit = 500

	return &View{
		styles:    s,
		keymap:    km,
		session:   session,
		positions: positions,
		width:     80,
		noteInput: input,
	}
}

// Reset returns the panel to the bookmarks tab.
func (v *View) Reset() {
	v.tab = TabBookmarks
	v.selected = 0
	v.err = nil
	v.editingNote = false
	v.noteInput.SetValue("")
	v.noteInput.Blur()
}

// SetDimensions resizes the view.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
}

// Update handles messages for the annotations panel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.AnnotationsChanged:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.err = nil
			v.clampSelection()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editingNote {
		return v.handleNoteKey(msg)
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewReader}
		}

	case keymap.Matches(msg.String(), v.keymap.SwitchTab):
		if v.tab == TabBookmarks {
			v.tab = TabHighlights
		} else {
			v.tab = TabBookmarks
		}
		v.selected = 0
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < v.itemCount()-1 {
			v.selected++
		}
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Select):
		return v, v.navigateToSelected()

	case keymap.Matches(msg.String(), v.keymap.CycleColor):
		return v, v.cycleColour()

	case keymap.Matches(msg.String(), v.keymap.Note):
		return v, v.startNoteEdit()

	case keymap.Matches(msg.String(), v.keymap.Delete):
		return v, v.deleteSelected()
	}
	return v, nil
}

// startNoteEdit enters note entry for the selected highlight, prefilled
// with the existing note. No-op on the bookmarks tab.
func (v *View) startNoteEdit() tea.Cmd {
	if v.tab != TabHighlights {
		return nil
	}
	highlights := v.session.Highlights()
	if v.selected >= len(highlights) {
		return nil
	}
	h := highlights[v.selected]
	v.editingNote = true
	v.noteID = h.ID
	v.noteInput.SetValue(h.Note)
	v.noteInput.Focus()
	return textinput.Blink
}

func (v *View) handleNoteKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editingNote = false
		v.noteInput.Blur()
		return v, nil

	case tea.KeyEnter:
		v.editingNote = false
		v.noteInput.Blur()
		id := v.noteID
		note := v.noteInput.Value()
		return v, func() tea.Msg {
			err := v.session.AddNote(context.Background(), id, note)
			return messages.AnnotationsChanged{Err: err}
		}
	}

	var cmd tea.Cmd
	v.noteInput, cmd = v.noteInput.Update(msg)
	return v, cmd
}

// navigateToSelected jumps to the selected annotation and returns to the
// reading view on success.
func (v *View) navigateToSelected() tea.Cmd {
	loc, ok := v.selectedLocator()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if err := v.session.NavigateTo(context.Background(), loc); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.ViewChanged{View: messages.ViewReader}
	}
}

// cycleColour advances the selected highlight's colour. No-op on the
// bookmarks tab.
func (v *View) cycleColour() tea.Cmd {
	if v.tab != TabHighlights {
		return nil
	}
	highlights := v.session.Highlights()
	if v.selected >= len(highlights) {
		return nil
	}
	h := highlights[v.selected]
	next := h.Color.Next()
	return func() tea.Msg {
		err := v.session.ChangeHighlightColor(context.Background(), h.ID, next)
		return messages.AnnotationsChanged{Err: err}
	}
}

func (v *View) deleteSelected() tea.Cmd {
	switch v.tab {
	case TabBookmarks:
		bookmarks := v.positions.Bookmarks(v.session.BookID())
		if v.selected >= len(bookmarks) {
			return nil
		}
		id := bookmarks[v.selected].ID
		return func() tea.Msg {
			// Through the session so the reader's bookmark marker stays
			// in sync when the current position's bookmark goes away.
			err := v.session.DeleteBookmark(context.Background(), id)
			return messages.AnnotationsChanged{Err: err}
		}
	case TabHighlights:
		highlights := v.session.Highlights()
		if v.selected >= len(highlights) {
			return nil
		}
		id := highlights[v.selected].ID
		return func() tea.Msg {
			err := v.session.DeleteHighlight(context.Background(), id)
			return messages.AnnotationsChanged{Err: err}
		}
	}
	return nil
}

func (v *View) selectedLocator() (domain.Locator, bool) {
	switch v.tab {
	case TabBookmarks:
		bookmarks := v.positions.Bookmarks(v.session.BookID())
		if v.selected < len(bookmarks) {
			return bookmarks[v.selected].Locator, true
		}
	case TabHighlights:
		highlights := v.session.Highlights()
		if v.selected < len(highlights) {
			return highlights[v.selected].Locator, true
		}
	}
	return domain.Locator{}, false
}

func (v *View) itemCount() int {
	if v.tab == TabBookmarks {
		return len(v.positions.Bookmarks(v.session.BookID()))
	}
	return len(v.session.Highlights())
}

func (v *View) clampSelection() {
	if n := v.itemCount(); v.selected >= n && n > 0 {
		v.selected = n - 1
	} else if n == 0 {
		v.selected = 0
	}
}

// View renders the annotations panel.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	if v.tab == TabBookmarks {
		b.WriteString(v.renderBookmarks())
	} else {
		b.WriteString(v.renderHighlights())
	}

	b.WriteString("\n")
	if v.editingNote {
		b.WriteString(v.styles.Border.Width(v.width - 2).Render(v.noteInput.View()))
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("enter save  esc cancel"))
		return b.String()
	}
	b.WriteString(v.styles.Help.Render("tab switch  enter go  c colour  n note  d delete  esc back"))
	return b.String()
}

func (v *View) renderTabs() string {
	bookmarks := "Bookmarks"
	highlights := "Highlights"
	if v.tab == TabBookmarks {
		bookmarks = v.styles.Selected.Render(" " + bookmarks + " ")
		highlights = v.styles.Muted.Render(" " + highlights + " ")
	} else {
		bookmarks = v.styles.Muted.Render(" " + bookmarks + " ")
		highlights = v.styles.Selected.Render(" " + highlights + " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bookmarks, " ", highlights)
}

func (v *View) renderBookmarks() string {
	bookmarks := v.positions.Bookmarks(v.session.BookID())
	if len(bookmarks) == 0 {
		return v.styles.Muted.Render("No bookmarks yet. Press b in the reader to add one.")
	}

	var lines []string
	for i, bm := range bookmarks {
		title := bm.ChapterTitle
		if title == "" {
			title = bm.Locator.ResourceHref
		}
		line := fmt.Sprintf("%s  %s", title,
			v.styles.Muted.Render(fmt.Sprintf("%.1f%%", bm.Locator.ClampedProgression()*100)))
		lines = append(lines, v.cursor(i)+line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *View) renderHighlights() string {
	highlights := v.session.Highlights()
	if len(highlights) == 0 {
		return v.styles.Muted.Render("No highlights yet.")
	}

	var lines []string
	for i, h := range highlights {
		text := h.SelectedText
		if len(text) > 60 {
			text = text[:60] + "..."
		}
		line := v.styles.HighlightStyle(h.Color).Render(text)
		if h.Note != "" {
			line += v.styles.Muted.Render("  ✎ " + h.Note)
		}
		lines = append(lines, v.cursor(i)+line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *View) cursor(i int) string {
	if i == v.selected {
		return v.styles.Selected.Render("> ")
	}
	return "  "
}

// SelectedIndex returns the selected item index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// ActiveTab returns the active tab.
func (v *View) ActiveTab() Tab {
	return v.tab
}
