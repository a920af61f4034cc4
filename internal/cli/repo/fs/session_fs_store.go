package fs

import (
	"Neighborly/internal/cli/model"
	"Neighborly/internal/cli/repo"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionFSStore keeps the session as a JSON file readable only by the user.
type SessionFSStore struct {
	Path string
}

var _ repo.SessionStore = (*SessionFSStore)(nil)

// NewSessionFSStore stores the session at path, or under the user config
// dir when path is empty.
func NewSessionFSStore(path string) (*SessionFSStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "Neighborly", "session.json")
	}
	return &SessionFSStore{Path: path}, nil
}

// Load reads the saved session, or repo.ErrNoSession.
func (s *SessionFSStore) Load() (*model.Session, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repo.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", s.Path, err)
	}
	if !sess.Valid() {
		return nil, repo.ErrNoSession
	}
	return &sess, nil
}

// Save replaces the session file atomically.
func (s *SessionFSStore) Save(sess *model.Session) error {
	if !sess.Valid() {
		return errors.New("empty session")
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now().UTC()
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// Clear removes the session file. Clearing twice is not an error.
func (s *SessionFSStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
