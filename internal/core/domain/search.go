package domain

// SearchResult represents a single full-text search hit inside the open
// publication. Results are ephemeral: they live only for the duration of
// an active search session and are never persisted.
type SearchResult struct {
	// Locator is the position of the match.
	Locator Locator `json:"locator"`

	// ContextBefore is the text immediately preceding the match.
	ContextBefore string `json:"contextBefore"`

	// ContextHighlight is the matched text itself.
	ContextHighlight string `json:"contextHighlight"`

	// ContextAfter is the text immediately following the match.
	ContextAfter string `json:"contextAfter"`
}

// Snippet returns the result's context as a single display string.
func (r SearchResult) Snippet() string {
	return r.ContextBefore + r.ContextHighlight + r.ContextAfter
}
