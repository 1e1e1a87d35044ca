package domain

// Decoration groups. Exactly one group exists per concern; the coordinator
// is the only writer and the renderer renders whatever set it is given.
const (
	// DecorationGroupSearch holds at most one member: the search result
	// the user last navigated to.
	DecorationGroupSearch = "search"

	// DecorationGroupHighlights mirrors the persisted highlight set for
	// the open book, one member per highlight.
	DecorationGroupHighlights = "userHighlights"
)

// DecorationKind identifies how a decoration is drawn.
type DecorationKind string

// Available decoration kinds.
const (
	// DecorationHighlight fills the decorated range with colour.
	DecorationHighlight DecorationKind = "highlight"

	// DecorationUnderline underlines the decorated range.
	DecorationUnderline DecorationKind = "underline"
)

// DecorationStyle describes how the renderer should draw a decoration.
type DecorationStyle struct {
	// Kind selects the drawing primitive.
	Kind DecorationKind `json:"kind"`

	// Color is the drawing colour, as a highlight colour name.
	Color HighlightColor `json:"color"`
}

// Decoration is a single renderer-drawn overlay member, keyed by ID and
// grouped by concern. Group membership is always recomputed wholesale,
// never patched incrementally.
type Decoration struct {
	// ID identifies the decoration within its group.
	ID string `json:"id"`

	// Locator is the decorated position.
	Locator Locator `json:"locator"`

	// Style describes how to draw it.
	Style DecorationStyle `json:"style"`
}

// Selection is a renderer-reported text selection, the raw material for
// creating a highlight.
type Selection struct {
	// Locator is the position of the selection.
	Locator Locator

	// Text is the selected text.
	Text string
}
