package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates an operation was attempted in the wrong
	// session state, e.g. reading commands against a closed coordinator.
	ErrInvalidState = errors.New("invalid session state")

	// ErrNoCurrentLocation indicates a location-dependent operation was
	// attempted before the renderer reported any position.
	ErrNoCurrentLocation = errors.New("no current location")

	// ErrEmptySelection indicates a highlight was requested for an empty
	// text selection.
	ErrEmptySelection = errors.New("empty selection")

	// Renderer errors.

	// ErrOpenFailed indicates the renderer could not open a publication.
	// The open attempt is fatal; the session stays closed.
	ErrOpenFailed = errors.New("open failed")

	// ErrNavigationFailed indicates the renderer could not move to a
	// locator. Non-fatal; decoration state is left unchanged.
	ErrNavigationFailed = errors.New("navigation failed")

	// ErrSearchFailed indicates iterator creation or a page fetch failed.
	// Non-fatal; already-loaded results are preserved.
	ErrSearchFailed = errors.New("search failed")

	// ErrRendererClosed indicates the publication handle has been closed.
	ErrRendererClosed = errors.New("renderer closed")
)
