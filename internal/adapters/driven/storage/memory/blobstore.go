// Package memory provides in-memory implementations of driven port
// interfaces, primarily for testing and ephemeral sessions.
package memory

import (
	"fmt"
	"sync"

	"github.com/lumen-reader/lumen/internal/core/domain"
	"github.com/lumen-reader/lumen/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore is an in-memory implementation of driven.BlobStore.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs: make(map[string][]byte),
	}
}

// Read returns the blob stored under key.
func (s *BlobStore) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %q: %w", key, domain.ErrNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteAtomic replaces the blob under key.
func (s *BlobStore) WriteAtomic(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	return nil
}

// Close releases the store. No-op for the in-memory implementation.
func (s *BlobStore) Close() error {
	return nil
}
