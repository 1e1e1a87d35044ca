// Package domain defines the core business entities for Lumen.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies (beyond UUID generation) and defines
// the fundamental types:
//
//   - Locator: An opaque position inside a publication
//   - Bookmark: A saved reading position
//   - Highlight: A persisted text annotation
//   - SearchResult: A single full-text search hit
//   - Decoration: A renderer-drawn overlay member
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library and github.com/google/uuid only
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
