package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// OSFileStore stores documents on the local filesystem under a root directory.
type OSFileStore struct {
	root string
}

// NewOSFileStore creates a filesystem-backed store rooted at dir.
func NewOSFileStore(dir string) *OSFileStore {
	return &OSFileStore{root: dir}
}

func (s *OSFileStore) Exists(path string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(path)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func (s *OSFileStore) Read(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(path)))
}

func (s *OSFileStore) Write(path string, data []byte) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MemFileStore is an in-memory FileStore for tests.
type MemFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemFileStore creates an empty in-memory store.
func NewMemFileStore() *MemFileStore {
	return &MemFileStore{files: map[string][]byte{}}
}

func (s *MemFileStore) Exists(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok, nil
}

func (s *MemFileStore) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemFileStore) Write(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.files[path] = stored
	return nil
}

// Paths returns the stored paths in sorted order.
func (s *MemFileStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// UUIDGenerator issues random UUID ids.
type UUIDGenerator struct{}

func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// SequenceGenerator issues "id-1", "id-2", ... for deterministic tests.
type SequenceGenerator struct {
	n int
}

func (g *SequenceGenerator) Next() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}
