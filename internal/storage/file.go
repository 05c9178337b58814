package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one <key>.json file per key under a data directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dataDir}, nil
}

func (s *FileStore) pathFor(key string) string {
	// Keys are internal constants, but keep path traversal impossible.
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, wrap("get", key, err)
	}
	return b, true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) ([]byte, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	prev, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, wrap("set", key, err)
		}
		prev = nil
	}
	if err := os.WriteFile(path, value, 0o644); err != nil {
		return nil, wrap("set", key, err)
	}
	return prev, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return wrap("delete", key, err)
	}
	return nil
}
