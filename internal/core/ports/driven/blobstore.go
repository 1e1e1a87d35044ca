package driven

// BlobStore persists opaque keyed blobs. The position map, bookmark list
// and highlight list are each stored under their own key.
type BlobStore interface {
	// Read returns the blob stored under key, or domain.ErrNotFound if
	// the key has never been written.
	Read(key string) ([]byte, error)

	// WriteAtomic durably replaces the blob under key. Readers never
	// observe a partial write.
	WriteAtomic(key string, data []byte) error

	// Close releases the store.
	Close() error
}
