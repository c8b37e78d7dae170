// Package storage holds the blob store used for payment proof files.
package storage

import (
	"os"
	"path/filepath"

	"github.com/deltaarena/backend/internal/models"
)

// BlobStore persists opaque blobs under caller-chosen keys.
type BlobStore interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// DiskBlobStore keeps blobs as flat files in one directory. Keys are
// generated internally and validated by the caller, so no path handling
// beyond a join is needed here.
type DiskBlobStore struct {
	dir string
}

func NewDiskBlobStore(dir string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskBlobStore{dir: dir}, nil
}

func (s *DiskBlobStore) Put(key string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, key), data, 0o644)
}

func (s *DiskBlobStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil, models.ErrProofNotFound
	}
	return data, err
}

func (s *DiskBlobStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
