package storage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrMissing reports that a stored blob no longer exists.
var ErrMissing = errors.New("attachment file missing")

// BlobStore persists attachment bytes keyed by path.
type BlobStore interface {
	Write(data []byte) (path, name string, err error)
	Read(path string) ([]byte, error)
	Delete(path string) error
}

// FileStore stores blobs on the local filesystem under a base directory,
// each under a generated unique name.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Write stores the blob under a fresh uuid-derived name and returns the
// stored path and file name.
func (s *FileStore) Write(data []byte) (string, string, error) {
	name := uuid.NewString() + ".bin"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return path, name, nil
}

// Read returns the blob bytes, or ErrMissing when the file is gone.
func (s *FileStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes the blob. A missing file is not an error.
func (s *FileStore) Delete(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
