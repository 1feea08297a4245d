package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileKV stores each key as a JSON file in a directory.
// Writes are atomic: the document goes to a temp file that is then renamed.
type FileKV struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

// NewFileKV creates a file store rooted at dir, creating it if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create documents dir: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Dir returns the directory holding the documents.
func (f *FileKV) Dir() string {
	return f.dir
}

// Get implements KV. A corrupted file reads as absent.
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, false, ErrClosed
	}
	data, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read document %q: %w", key, err)
	}
	if !json.Valid(data) {
		return nil, false, nil
	}
	return data, true, nil
}

// Put implements KV.
func (f *FileKV) Put(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	path := f.pathFor(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0644); err != nil {
		return fmt.Errorf("write document %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("commit document %q: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (f *FileKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := os.Remove(f.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}

// Close implements KV.
func (f *FileKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FileKV) pathFor(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}
