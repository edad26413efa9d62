// Package cache is a small JSON file backed key value store for values
// that never change for a given key, like the chain id behind a set of
// nodes.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File caches values in a JSON file. It is safe for concurrent use within
// one process. The file is loaded lazily on first access.
type File struct {
	path string

	mu     sync.Mutex
	loaded bool
	Data   map[string]string `json:"Data"`
}

func New(path string) *File {
	return &File{path: path}
}

// Default is ~/.nns/cache.json. It returns nil when the home directory is
// unknown, a nil *File never hits.
func Default() *File {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return New(filepath.Join(home, ".nns", "cache.json"))
}

// load must be called with mu held. A missing or corrupt file is an empty
// cache.
func (f *File) load() {
	if f.loaded {
		return
	}
	f.loaded = true
	f.Data = map[string]string{}
	content, err := os.ReadFile(f.path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(content, f); err != nil || f.Data == nil {
		f.Data = map[string]string{}
	}
}

func (f *File) persist() error {
	jsonData, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("couldn't create cache dir: %w", err)
	}
	return os.WriteFile(f.path, jsonData, 0o644)
}

// Get looks up key case insensitively.
func (f *File) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	value, found := f.Data[strings.ToLower(key)]
	return value, found
}

func (f *File) Set(key, value string) error {
	if f == nil {
		return errors.New("no cache file")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	f.Data[strings.ToLower(key)] = value
	return f.persist()
}
