package store

import (
	"path/filepath"
	"sync"

	"adaremote/internal/domain"
)

const currentSessionFile = "session.json"

// SessionFileStore persists the session the CLI is currently hosting or
// connected to, so that status and disconnect can find it.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

func (s *SessionFileStore) path() string { return filepath.Join(s.dir, currentSessionFile) }

// SaveCurrentSession replaces the stored session with cfg.
func (s *SessionFileStore) SaveCurrentSession(cfg domain.SessionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path(), cfg, 0o600)
}

// LoadCurrentSession returns the stored session and whether there was one.
func (s *SessionFileStore) LoadCurrentSession() (domain.SessionConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg domain.SessionConfig
	ok, err := readJSON(s.path(), &cfg)
	if err != nil || !ok {
		return domain.SessionConfig{}, false, err
	}
	return cfg, true, nil
}

// ClearCurrentSession forgets the stored session.
func (s *SessionFileStore) ClearCurrentSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path())
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
