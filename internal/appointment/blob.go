package appointment

import (
	"github.com/peterbourgon/diskv/v3"
)

// BlobStore is the external persistence surface: an opaque key-value store
// holding serialized snapshots. The production implementation is disk-backed;
// tests use the in-memory variant.
type BlobStore interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) ([]byte, bool)
	// Put stores the value under key, replacing any previous value.
	Put(key string, data []byte) error
}

// DiskBlobStore persists blobs as flat files under a base directory.
type DiskBlobStore struct {
	d *diskv.Diskv
}

// NewDiskBlobStore opens (creating if needed) a disk-backed blob store rooted
// at basePath.
func NewDiskBlobStore(basePath string) *DiskBlobStore {
	return &DiskBlobStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *DiskBlobStore) Get(key string) ([]byte, bool) {
	data, err := s.d.Read(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *DiskBlobStore) Put(key string, data []byte) error {
	return s.d.Write(key, data)
}

// MemoryBlobStore is an in-memory BlobStore for tests.
type MemoryBlobStore struct {
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Get(key string) ([]byte, bool) {
	data, ok := s.blobs[key]
	return data, ok
}

func (s *MemoryBlobStore) Put(key string, data []byte) error {
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}
