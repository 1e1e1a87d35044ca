package driven

import "context"

// LibraryEventKind identifies what changed in the library.
type LibraryEventKind int

const (
	// LibraryAdded means a publication appeared in the books directory.
	LibraryAdded LibraryEventKind = iota

	// LibraryRemoved means a publication disappeared.
	LibraryRemoved
)

// LibraryEvent reports a change to the set of available publications.
type LibraryEvent struct {
	Kind LibraryEventKind
	Ref  PublicationRef
}

// Library discovers publications available to open.
type Library interface {
	// List returns the publications currently in the books directory.
	List(ctx context.Context) ([]PublicationRef, error)

	// Watch streams library changes until ctx is cancelled.
	Watch(ctx context.Context) (<-chan LibraryEvent, error)

	// Resolve looks up a publication by title or path.
	Resolve(ctx context.Context, nameOrPath string) (*PublicationRef, error)
}
