// Package textpub implements the renderer driven port over pre-extracted
// plain-text publications.
//
// A publication is a directory of text resources. Files are ordered by
// name; each becomes one resource whose href is its file name. Overall
// progression is computed from cumulative byte offsets across the reading
// order, so a locator's TotalProgression is stable for a given directory.
//
// The adapter stands in for an embedded rendering engine: it owns
// navigation, naive full-text search behind a paginated cancellable
// iterator, and a decoration registry that driving adapters read back
// when drawing. It does no EPUB or HTML parsing.
package textpub
