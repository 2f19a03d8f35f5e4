// Package store persists the bot's small JSON documents: post history,
// validation statistics and used-asset tracking. The stable boundary is the
// DocStore interface, not the file format; a JSON file and an embedded
// SQLite database are interchangeable backends.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DocStore persists one JSON document.
type DocStore interface {
	// Load returns the raw document; ok is false when it does not exist yet.
	Load() (data []byte, ok bool, err error)
	Save(data []byte) error
}

// FileStore keeps the document in a single pretty-printed JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates the parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() ([]byte, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *FileStore) Save(data []byte) error {
	return os.WriteFile(s.path, data, 0o644)
}
