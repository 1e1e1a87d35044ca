// Package library discovers publications in the configured books
// directory and watches it for changes.
//
// Each publication is a subdirectory of extracted text resources. Book
// identity is derived deterministically from the directory name, so the
// same book keeps its persisted positions and annotations across runs.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/logger"
)

// Ensure Library implements the interface.
var _ driven.Library = (*Library)(nil)

// Library is a filesystem-backed publication library.
type Library struct {
	booksDir string
}

// NewLibrary creates a library over the given books directory.
func NewLibrary(booksDir string) (*Library, error) {
	info, err := os.Stat(booksDir)
	if err != nil {
		return nil, fmt.Errorf("books directory %q: %w", booksDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("books directory %q: not a directory: %w", booksDir, domain.ErrInvalidInput)
	}
	return &Library{booksDir: booksDir}, nil
}

// List returns the publications currently in the books directory, sorted
// by title.
func (l *Library) List(_ context.Context) ([]driven.PublicationRef, error) {
	entries, err := os.ReadDir(l.booksDir)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	var refs []driven.PublicationRef
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		refs = append(refs, l.refFor(entry.Name()))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Title < refs[j].Title })
	return refs, nil
}

// Watch streams additions and removals of publication directories until
// ctx is cancelled.
func (l *Library) Watch(ctx context.Context) (<-chan driven.LibraryEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(l.booksDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %q: %w", l.booksDir, err)
	}

	events := make(chan driven.LibraryEvent)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Library watcher: %v", err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				le, relevant := l.mapEvent(ev)
				if !relevant {
					continue
				}
				select {
				case events <- le:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// Resolve looks a publication up by directory path, directory name or
// display title (case-insensitive).
func (l *Library) Resolve(ctx context.Context, nameOrPath string) (*driven.PublicationRef, error) {
	if info, err := os.Stat(nameOrPath); err == nil && info.IsDir() {
		abs, err := filepath.Abs(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", nameOrPath, err)
		}
		ref := refForPath(abs)
		return &ref, nil
	}

	refs, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range refs {
		if strings.EqualFold(refs[i].Title, nameOrPath) || filepath.Base(refs[i].Path) == nameOrPath {
			return &refs[i], nil
		}
	}
	return nil, fmt.Errorf("publication %q: %w", nameOrPath, domain.ErrNotFound)
}

// mapEvent translates a filesystem event into a library event. Only
// create and remove-like operations on non-hidden entries are relevant.
func (l *Library) mapEvent(ev fsnotify.Event) (driven.LibraryEvent, bool) {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return driven.LibraryEvent{}, false
	}

	switch {
	case ev.Op.Has(fsnotify.Create):
		if info, err := os.Stat(ev.Name); err != nil || !info.IsDir() {
			return driven.LibraryEvent{}, false
		}
		logger.Debug("Library: %q added", name)
		return driven.LibraryEvent{Kind: driven.LibraryAdded, Ref: l.refFor(name)}, true
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		logger.Debug("Library: %q removed", name)
		return driven.LibraryEvent{Kind: driven.LibraryRemoved, Ref: l.refFor(name)}, true
	default:
		return driven.LibraryEvent{}, false
	}
}

func (l *Library) refFor(dirName string) driven.PublicationRef {
	return refForPath(filepath.Join(l.booksDir, dirName))
}

// refForPath builds a publication ref with a deterministic BookID, so
// persisted state keyed by it survives restarts.
func refForPath(path string) driven.PublicationRef {
	name := filepath.Base(path)
	return driven.PublicationRef{
		BookID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("lumen:book:"+name)),
		Title:  titleFromDirName(name),
		Path:   path,
	}
}

func titleFromDirName(name string) string {
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}
