package media

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// URLStore derives playable URLs from files and releases them.
type URLStore interface {
	Create(f File) (string, error)
	Revoke(u string)
}

// TempStore materializes files under a private temp directory and hands out
// file:// URLs for them. Revoke deletes the file.
type TempStore struct {
	dir string

	mu   sync.Mutex
	live map[string]string // url -> path
	seq  int
}

// NewTempStore creates the backing directory.
func NewTempStore() (*TempStore, error) {
	dir, err := os.MkdirTemp("", "notula-media-")
	if err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &TempStore{dir: dir, live: map[string]string{}}, nil
}

// Create writes f and returns its URL.
func (s *TempStore) Create(f File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("%d-%s", s.seq, filepath.Base(f.Name)))
	if err := os.WriteFile(path, f.Data, 0o600); err != nil {
		return "", fmt.Errorf("write media: %w", err)
	}
	u := (&url.URL{Scheme: "file", Path: path}).String()
	s.live[u] = path
	return u, nil
}

// Revoke removes the file behind u. Unknown or already revoked URLs are
// ignored.
func (s *TempStore) Revoke(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.live[u]
	if !ok {
		return
	}
	delete(s.live, u)
	os.Remove(path)
}

// Live returns the number of URLs not yet revoked.
func (s *TempStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close revokes everything and removes the directory.
func (s *TempStore) Close() error {
	s.mu.Lock()
	s.live = map[string]string{}
	s.mu.Unlock()
	return os.RemoveAll(s.dir)
}
