package domain

import (
	"time"

	"github.com/google/uuid"
)

const unknownDescription = "Unknown"

// Bookmark is a user-saved reading position. Bookmarks are created by
// explicit user action and persist until explicitly deleted. No two
// bookmarks for the same book may be near-equal.
type Bookmark struct {
	// ID uniquely identifies the bookmark.
	ID uuid.UUID `json:"id"`

	// BookID identifies the publication the bookmark belongs to.
	BookID uuid.UUID `json:"bookId"`

	// Locator is the saved position.
	Locator Locator `json:"locator"`

	// ChapterTitle is the display title for the bookmark, preferring the
	// chapter title known at creation time over the locator's own title.
	ChapterTitle string `json:"chapterTitle,omitempty"`

	// CreatedAt is when the bookmark was created.
	CreatedAt time.Time `json:"createdAt"`
}

// HighlightColor identifies the rendering colour of a highlight.
type HighlightColor string

// Available highlight colours.
const (
	// HighlightYellow is the default highlight colour.
	HighlightYellow HighlightColor = "yellow"

	// HighlightBlue is a blue highlight.
	HighlightBlue HighlightColor = "blue"

	// HighlightGreen is a green highlight.
	HighlightGreen HighlightColor = "green"

	// HighlightPink is a pink highlight.
	HighlightPink HighlightColor = "pink"
)

// IsValid returns true if the colour is recognised.
func (c HighlightColor) IsValid() bool {
	switch c {
	case HighlightYellow, HighlightBlue, HighlightGreen, HighlightPink:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c HighlightColor) String() string {
	return string(c)
}

// Description returns a human-readable description of the colour.
func (c HighlightColor) Description() string {
	switch c {
	case HighlightYellow:
		return "Yellow"
	case HighlightBlue:
		return "Blue"
	case HighlightGreen:
		return "Green"
	case HighlightPink:
		return "Pink"
	default:
		return unknownDescription
	}
}

// Next cycles to the following colour in display order. Used by the UI
// to step through colours on a keypress.
func (c HighlightColor) Next() HighlightColor {
	switch c {
	case HighlightYellow:
		return HighlightBlue
	case HighlightBlue:
		return HighlightGreen
	case HighlightGreen:
		return HighlightPink
	default:
		return HighlightYellow
	}
}

// Highlight is a persisted text annotation created from a renderer-reported
// selection. Colour and note are mutable after creation.
type Highlight struct {
	// ID uniquely identifies the highlight.
	ID uuid.UUID `json:"id"`

	// BookID identifies the publication the highlight belongs to.
	BookID uuid.UUID `json:"bookId"`

	// Locator is the position of the highlighted text.
	Locator Locator `json:"locator"`

	// SelectedText is the highlighted text itself. Never empty.
	SelectedText string `json:"selectedText"`

	// Color is the rendering colour.
	Color HighlightColor `json:"color"`

	// Note is an optional user note attached to the highlight.
	Note string `json:"note,omitempty"`

	// CreatedAt is when the highlight was created.
	CreatedAt time.Time `json:"createdAt"`
}
