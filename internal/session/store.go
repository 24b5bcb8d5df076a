// Package session holds the authenticated user for the lifetime of the
// application and persists it across runs. The store is an explicit handle
// built in main and passed to every consumer; there is no package-level
// session.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/postrai/postr/internal/api"
)

const (
	// EnvConfigDir overrides where the session file lives.
	EnvConfigDir = "POSTR_CONFIG_DIR"

	configSubdir = "postr"
	sessionFile  = "session.json"
)

// ErrNotOpened is returned by accessors on a store whose persisted state was
// never loaded. It marks a programming error, not a logged-out user.
var ErrNotOpened = errors.New("session: store used before Open")

// Store is the single source of truth for "who is logged in".
type Store struct {
	path   string
	opened bool
	user   *api.User
}

// Open loads the persisted session, if any. A file that fails to parse is
// removed and the store starts unauthenticated; the application never crashes
// on a corrupt session record.
func Open() (*Store, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt is Open with an explicit file location. Tests use it with a temp dir.
func OpenAt(path string) (*Store, error) {
	s := &Store{path: path, opened: true}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var user api.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Corrupt record: discard it and proceed unauthenticated.
		_ = os.Remove(path)
		return s, nil
	}
	s.user = &user
	return s, nil
}

// Current returns the logged-in user, or nil when unauthenticated.
func (s *Store) Current() (*api.User, error) {
	if !s.opened {
		return nil, ErrNotOpened
	}
	return s.user, nil
}

// Authenticated reports whether a user record is present.
func (s *Store) Authenticated() bool {
	return s.opened && s.user != nil
}

// SetUser replaces the session record in memory and on disk. The record is
// always written whole.
func (s *Store) SetUser(user *api.User) error {
	if !s.opened {
		return ErrNotOpened
	}
	if user == nil {
		return s.Clear()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.user = user
	return nil
}

// Clear logs the user out, removing the record from memory and disk.
func (s *Store) Clear() error {
	if !s.opened {
		return ErrNotOpened
	}
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func sessionPath() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, sessionFile), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configSubdir, sessionFile), nil
}
