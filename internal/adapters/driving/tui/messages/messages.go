// Package messages defines Bubbletea message types for the reader TUI.
// Messages represent events and command results that flow through the Elm
// architecture.
package messages

import (
	"github.com/lumen-reader/lumen/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReader is the reading view.
	ViewReader ViewType = iota
	// ViewSearch is the in-book search panel.
	ViewSearch
	// ViewAnnotations is the bookmarks and highlights panel.
	ViewAnnotations
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReader:
		return "reader"
	case ViewSearch:
		return "search"
	case ViewAnnotations:
		return "annotations"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// LocationRefreshed carries the session's latest position into the views.
type LocationRefreshed struct {
	Locator    *domain.Locator
	Bookmarked bool
}

// BookmarkToggled reports the outcome of a bookmark toggle.
type BookmarkToggled struct {
	On  bool
	Err error
}

// SearchBegun reports the outcome of starting a search session.
type SearchBegun struct {
	Query string
	Err   error
}

// SearchPageLoaded reports that a page fetch finished.
type SearchPageLoaded struct {
	Err error
}

// ResultNavigated reports a jump to a search result.
type ResultNavigated struct {
	Index int
	Err   error
}

// AnnotationsChanged reports a bookmark or highlight mutation.
type AnnotationsChanged struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
