package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoSession means there is no usable cached user; the caller must send the
// user through login again.
var ErrNoSession = errors.New("no active session")

// Session is the cached current-user record written at login.
type Session struct {
	UserID    int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName)
	if name == "" {
		name = strings.TrimSpace(s.Email)
	}
	return name
}

// sessionMu guards writes to the session file.
var sessionMu sync.Mutex

func SessionPath() string {
	return filepath.Join(ConfigDir(), "session.json")
}

func LoadSession() (Session, error) {
	return LoadSessionFrom(SessionPath())
}

func LoadSessionFrom(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session %s: %w (%w)", path, ErrNoSession, err)
	}
	if s.UserID <= 0 {
		return Session{}, fmt.Errorf("session %s has no user id: %w", path, ErrNoSession)
	}
	return s, nil
}

func SaveSession(s Session) error {
	return SaveSessionTo(SessionPath(), s)
}

func SaveSessionTo(path string, s Session) error {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	// Swap the file in whole so WatchSession never reads a truncated session.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing session: %w", err)
	}
	return nil
}

func ClearSession() error {
	return ClearSessionAt(SessionPath())
}

func ClearSessionAt(path string) error {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
