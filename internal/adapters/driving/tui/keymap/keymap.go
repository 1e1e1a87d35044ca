// Package keymap defines keybindings for the reader TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the reader.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the reading view.
	Back key.Binding

	// Up scrolls or navigates up.
	Up key.Binding

	// Down scrolls or navigates down.
	Down key.Binding

	// PrevChapter moves to the previous resource.
	PrevChapter key.Binding

	// NextChapter moves to the next resource.
	NextChapter key.Binding

	// Bookmark toggles a bookmark at the current position.
	Bookmark key.Binding

	// Search opens the in-book search panel.
	Search key.Binding

	// Annotations opens the bookmarks and highlights panel.
	Annotations key.Binding

	// Select confirms a selection.
	Select key.Binding

	// SwitchTab switches between panel tabs.
	SwitchTab key.Binding

	// CycleColor cycles a highlight's colour.
	CycleColor key.Binding

	// Note edits the selected highlight's note.
	Note key.Binding

	// Delete removes the selected annotation.
	Delete key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous chapter"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next chapter"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle bookmark"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Annotations: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "annotations"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch tab"),
		),
		CycleColor: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle colour"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "edit note"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// ReaderHelp returns keybindings shown in the reading view's status bar.
func (k *KeyMap) ReaderHelp() []key.Binding {
	return []key.Binding{k.Search, k.Bookmark, k.Annotations, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevChapter, k.NextChapter},
		{k.Bookmark, k.Search, k.Annotations, k.Select},
		{k.SwitchTab, k.CycleColor, k.Note, k.Delete},
		{k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
