package textpub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/logger"
)

// pageRunes is the fixed page size used to derive page indices from a
// position within a resource.
const pageRunes = 1024

// locationBuffer bounds the location event stream. Events past a stalled
// consumer are dropped rather than blocking navigation.
const locationBuffer = 32

// Ensure the types implement the ports.
var (
	_ driven.Renderer    = (*Renderer)(nil)
	_ driven.Publication = (*Publication)(nil)
)

// Renderer opens plain-text publication directories.
type Renderer struct{}

// NewRenderer creates a text publication renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Open reads every text resource under ref.Path in name order and returns
// a publication handle over them.
func (r *Renderer) Open(_ context.Context, ref driven.PublicationRef) (driven.Publication, error) {
	entries, err := os.ReadDir(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("opening publication %q: %w", ref.Path, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("opening publication %q: no resources: %w", ref.Path, domain.ErrInvalidInput)
	}
	sort.Strings(names)

	resources := make([]resource, 0, len(names))
	offset := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(ref.Path, name))
		if err != nil {
			return nil, fmt.Errorf("reading resource %q: %w", name, err)
		}
		resources = append(resources, resource{
			href:  name,
			title: titleFromName(name),
			text:  string(data),
			start: offset,
		})
		offset += len(data)
	}

	logger.Debug("Opened %q: %d resources, %d bytes", ref.Title, len(resources), offset)

	return &Publication{
		resources:   resources,
		totalBytes:  offset,
		decorations: make(map[string][]domain.Decoration),
		locCh:       make(chan domain.Locator, locationBuffer),
	}, nil
}

// resource is one text file in the publication's reading order.
type resource struct {
	href  string
	title string
	text  string
	// start is the cumulative byte offset of this resource within the
	// whole publication.
	start int
}

// Publication is an open text publication.
type Publication struct {
	resources  []resource
	totalBytes int

	mu          sync.Mutex
	closed      bool
	decorations map[string][]domain.Decoration
	selection   *domain.Selection
	locCh       chan domain.Locator
}

// NavigateTo moves to the locator's resource and position. Returns false
// without error when the locator names a resource this publication does
// not contain.
func (p *Publication) NavigateTo(_ context.Context, loc domain.Locator) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, domain.ErrRendererClosed
	}

	res := p.findResource(loc.ResourceHref)
	if res == nil {
		return false, nil
	}

	within := 0.0
	if loc.WithinResource != nil {
		within = *loc.WithinResource
	} else if p.totalBytes > 0 && len(res.text) > 0 {
		within = (loc.ClampedProgression()*float64(p.totalBytes) - float64(res.start)) / float64(len(res.text))
	}
	if within < 0 {
		within = 0
	}
	if within > 1 {
		within = 1
	}

	p.emitLocked(p.locatorAt(res, within))
	return true, nil
}

// ApplyDecorations replaces the named group in the registry.
func (p *Publication) ApplyDecorations(_ context.Context, group string, decorations []domain.Decoration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.ErrRendererClosed
	}

	ds := make([]domain.Decoration, len(decorations))
	copy(ds, decorations)
	p.decorations[group] = ds
	return nil
}

// Decorations returns the current members of a group. Driving adapters
// read this registry when rendering overlays.
func (p *Publication) Decorations(group string) []domain.Decoration {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds := make([]domain.Decoration, len(p.decorations[group]))
	copy(ds, p.decorations[group])
	return ds
}

// CurrentSelection returns the active text selection, or nil.
func (p *Publication) CurrentSelection() *domain.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection
}

// SetSelection records a text selection made in a driving adapter.
func (p *Publication) SetSelection(sel *domain.Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = sel
}

// Locations returns the location event stream.
func (p *Publication) Locations() <-chan domain.Locator {
	return p.locCh
}

// Close releases the publication and closes the event stream.
func (p *Publication) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.locCh)
	}
	return nil
}

// Contents returns the full text of a resource.
func (p *Publication) Contents(href string) (string, error) {
	res := p.findResource(href)
	if res == nil {
		return "", fmt.Errorf("resource %q: %w", href, domain.ErrNotFound)
	}
	return res.text, nil
}

// ReadingOrder returns the resource hrefs in reading order.
func (p *Publication) ReadingOrder() []string {
	hrefs := make([]string, len(p.resources))
	for i := range p.resources {
		hrefs[i] = p.resources[i].href
	}
	return hrefs
}

// emitLocked delivers a location event. Caller holds the mutex. A full
// buffer drops the event; the next navigation supersedes it anyway.
func (p *Publication) emitLocked(loc domain.Locator) {
	select {
	case p.locCh <- loc:
	default:
		logger.Warn("Location event buffer full, dropping %s@%.4f", loc.ResourceHref, loc.TotalProgression)
	}
}

// findResource returns the resource with the given href, or nil. The
// resource list is immutable after Open, so no lock is needed.
func (p *Publication) findResource(href string) *resource {
	for i := range p.resources {
		if p.resources[i].href == href {
			return &p.resources[i]
		}
	}
	return nil
}

// locatorAt builds a full locator for a position within a resource,
// expressed as a fraction of the resource's text.
func (p *Publication) locatorAt(res *resource, within float64) domain.Locator {
	total := 0.0
	if p.totalBytes > 0 {
		total = (float64(res.start) + within*float64(len(res.text))) / float64(p.totalBytes)
	}

	runeCount := len([]rune(res.text))
	page := int(within * float64(runeCount) / pageRunes)

	w := within
	return domain.Locator{
		ResourceHref:     res.href,
		ResourceTitle:    res.title,
		TotalProgression: total,
		WithinResource:   &w,
		PageIndex:        &page,
	}
}

// titleFromName derives a display title from a resource file name:
// extension stripped, separators spaced out.
func titleFromName(name string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	title = strings.NewReplacer("_", " ", "-", " ").Replace(title)
	return strings.TrimSpace(title)
}
