package textpub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
	"github.com/lumen-reader/lumen/internal/logger"
)

// searchPageSize is the number of results per iterator page.
const searchPageSize = 20

// contextRunes bounds the text window carried on each side of a match.
const contextRunes = 80

var _ driven.SearchIterator = (*searchIterator)(nil)

// match is one hit found during the counting pass, identified by resource
// and rune offset. The result snippet is built lazily when paged out.
type match struct {
	resIndex  int
	runeStart int
}

// Search scans every resource for case-insensitive occurrences of query
// and returns an iterator over the hits. The counting pass runs up front,
// so the iterator's estimated total is exact from the first page.
func (p *Publication) Search(ctx context.Context, query string) (driven.SearchIterator, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, domain.ErrRendererClosed
	}

	queryRunes := lowerRunes(query)
	if len(queryRunes) == 0 {
		return nil, fmt.Errorf("search: empty query: %w", domain.ErrInvalidInput)
	}

	runes := make([][]rune, len(p.resources))
	var matches []match
	for i := range p.resources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runes[i] = []rune(p.resources[i].text)
		for _, start := range findAll(runes[i], queryRunes) {
			matches = append(matches, match{resIndex: i, runeStart: start})
		}
	}

	logger.Debug("Search %q: %d matches across %d resources", query, len(matches), len(p.resources))

	return &searchIterator{
		pub:      p,
		runes:    runes,
		queryLen: len(queryRunes),
		matches:  matches,
	}, nil
}

// searchIterator pages lazily over the precomputed match list.
type searchIterator struct {
	pub      *Publication
	runes    [][]rune
	queryLen int
	matches  []match

	mu     sync.Mutex
	next   int
	closed bool
}

// Next returns the next page of up to searchPageSize results, or nil when
// every match has been paged out.
func (it *searchIterator) Next(ctx context.Context) (*driven.SearchPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	if it.closed {
		return nil, fmt.Errorf("search iterator: %w", domain.ErrInvalidState)
	}
	if it.next >= len(it.matches) {
		return nil, nil
	}

	end := it.next + searchPageSize
	if end > len(it.matches) {
		end = len(it.matches)
	}

	results := make([]domain.SearchResult, 0, end-it.next)
	for _, m := range it.matches[it.next:end] {
		results = append(results, it.buildResult(m))
	}
	it.next = end

	total := len(it.matches)
	return &driven.SearchPage{Results: results, EstimatedTotal: &total}, nil
}

// Close releases the iterator. Idempotent.
func (it *searchIterator) Close() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.closed = true
	return nil
}

// buildResult extracts the context windows around a match and positions
// it within the publication.
func (it *searchIterator) buildResult(m match) domain.SearchResult {
	text := it.runes[m.resIndex]
	res := &it.pub.resources[m.resIndex]

	before := m.runeStart - contextRunes
	if before < 0 {
		before = 0
	}
	after := m.runeStart + it.queryLen + contextRunes
	if after > len(text) {
		after = len(text)
	}

	within := 0.0
	if len(text) > 0 {
		within = float64(m.runeStart) / float64(len(text))
	}

	return domain.SearchResult{
		Locator:          it.pub.locatorAt(res, within),
		ContextBefore:    collapseSpace(string(text[before:m.runeStart])),
		ContextHighlight: string(text[m.runeStart : m.runeStart+it.queryLen]),
		ContextAfter:     collapseSpace(string(text[m.runeStart+it.queryLen : after])),
	}
}

// findAll returns the start offsets of every occurrence of query within
// text, comparing case-folded runes. Overlapping hits are skipped.
func findAll(text, query []rune) []int {
	var starts []int
	for i := 0; i+len(query) <= len(text); {
		if matchesAt(text, query, i) {
			starts = append(starts, i)
			i += len(query)
			continue
		}
		i++
	}
	return starts
}

func matchesAt(text, query []rune, at int) bool {
	for j, q := range query {
		if unicode.ToLower(text[at+j]) != q {
			return false
		}
	}
	return true
}

func lowerRunes(s string) []rune {
	runes := []rune(strings.TrimSpace(s))
	for i := range runes {
		runes[i] = unicode.ToLower(runes[i])
	}
	return runes
}

// collapseSpace maps line breaks and tabs to plain spaces so snippets
// render on one line. Boundary spaces are kept: the three context parts
// concatenate into a readable snippet.
func collapseSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		default:
			return r
		}
	}, s)
}
