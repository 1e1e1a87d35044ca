// Package searchpanel provides the in-book search view: a query input on
// top of a result list that pages in more hits as the user scrolls.
package searchpanel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/keymap"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/messages"
	"github.com/lumen-reader/lumen/internal/adapters/driving/tui/styles"
	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driving"
)

// listLines is how many results are visible at once.
const listLines = 12

// View is the search panel.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.ReaderSession

	input      textinput.Model
	focusInput bool
	selected   int
	width      int
	err        error
}

// NewView creates the search panel.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.ReaderSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	input := textinput.New()
	input.Placeholder = "Search in book..."
	input.CharLimit = 200
	input.Focus()

	return &View{
		styles:     s,
		keymap:     km,
		session:    session,
		input:      input,
		focusInput: true,
		width:      80,
	}
}

// Reset clears the panel for a fresh search.
func (v *View) Reset() {
	v.input.SetValue("")
	v.input.Focus()
	v.focusInput = true
	v.selected = 0
	v.err = nil
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// SetDimensions resizes the view.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.input.Width = width - 4
}

// Update handles messages for the search panel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SearchBegun:
		if msg.Err != nil {
			v.err = msg.Err
			v.focusInput = true
			v.input.Focus()
			return v, nil
		}
		v.err = nil
		v.selected = 0
		return v, nil

	case messages.SearchPageLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil

	case messages.ResultNavigated:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	search := v.session.Search()
	if search == nil {
		return v, nil
	}

	if msg.Type == tea.KeyEsc {
		search.Cancel()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewReader}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.focusInput = false
			v.input.Blur()
			return v, v.begin(search, query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < len(search.Results())-1 {
			v.selected++
		}
		// Nearing the end of the loaded results triggers a prefetch.
		return v, v.maybeLoadMore(search, v.selected)

	case keymap.Matches(msg.String(), v.keymap.Select):
		return v, v.navigateToSelected(search)

	case msg.String() == "/":
		v.focusInput = true
		v.input.Focus()
		return v, textinput.Blink
	}

	return v, nil
}

func (v *View) begin(search driving.SearchSession, query string) tea.Cmd {
	return func() tea.Msg {
		err := search.Begin(context.Background(), query)
		return messages.SearchBegun{Query: query, Err: err}
	}
}

func (v *View) maybeLoadMore(search driving.SearchSession, index int) tea.Cmd {
	return func() tea.Msg {
		search.MaybeLoadMore(context.Background(), index)
		return messages.SearchPageLoaded{}
	}
}

func (v *View) navigateToSelected(search driving.SearchSession) tea.Cmd {
	results := search.Results()
	if v.selected >= len(results) {
		return nil
	}
	result := results[v.selected]
	index := v.selected

	// The decoration identity is the result's position in the session's
	// result sequence, which never changes while the session lives.
	id := fmt.Sprintf("search-%d", index)
	return func() tea.Msg {
		err := v.session.NavigateToSearchResult(context.Background(), result.Locator, id)
		return messages.ResultNavigated{Index: index, Err: err}
	}
}

// View renders the search panel.
func (v *View) View() string {
	search := v.session.Search()

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(v.styles.Border.Width(v.width - 2).Render(v.input.View()))
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}
	if search == nil {
		return b.String()
	}

	b.WriteString(v.statusLine(search))
	b.WriteString("\n\n")
	b.WriteString(v.resultList(search))
	return b.String()
}

func (v *View) statusLine(search driving.SearchSession) string {
	results := search.Results()
	switch search.State() {
	case driving.SearchStarting:
		return v.styles.Muted.Render("Searching...")
	case driving.SearchPaging:
		if total, known := search.Total(); known {
			return v.styles.Muted.Render(fmt.Sprintf("%d of about %d results loaded", len(results), total))
		}
		return v.styles.Muted.Render(fmt.Sprintf("%d results loaded", len(results)))
	default:
		if len(results) > 0 {
			return v.styles.Muted.Render(fmt.Sprintf("%d results", len(results)))
		}
		return v.styles.Help.Render("Type a query and press enter.")
	}
}

func (v *View) resultList(search driving.SearchSession) string {
	results := search.Results()
	if len(results) == 0 {
		return ""
	}

	start := 0
	if v.selected >= listLines {
		start = v.selected - listLines + 1
	}
	end := start + listLines
	if end > len(results) {
		end = len(results)
	}

	var lines []string
	for i := start; i < end; i++ {
		line := fmt.Sprintf("%s  %s",
			v.styles.Muted.Render(results[i].Locator.ResourceTitle),
			renderSnippet(v.styles, results[i]))
		if i == v.selected {
			line = v.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderSnippet emphasises the matched part of the context window.
func renderSnippet(s *styles.Styles, r domain.SearchResult) string {
	return s.Normal.Render(r.ContextBefore) +
		s.Match.Render(r.ContextHighlight) +
		s.Normal.Render(r.ContextAfter)
}

// Selected returns the selected result index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
