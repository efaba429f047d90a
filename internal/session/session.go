// Package session stores the logged-in account of a workspace.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
)

const (
	// FileName is the session file name within the workspace directory.
	FileName = "session.yml"

	fileMode = 0o600
)

// Session identifies who is logged in. ID tags activity entries so that
// actions from one login can be grouped.
type Session struct {
	ID       string    `yaml:"id" json:"id"`
	Username string    `yaml:"username" json:"username"`
	LoginAt  time.Time `yaml:"login_at" json:"login_at"`
}

// New starts a session for username.
func New(username string, now time.Time) Session {
	return Session{ID: uuid.NewString(), Username: username, LoginAt: now}
}

func path(dir string) string { return filepath.Join(dir, FileName) }

// Save writes the session into the workspace directory.
func Save(dir string, s Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return os.WriteFile(path(dir), data, fileMode)
}

// Load reads the current session. It returns NOT_LOGGED_IN when none exists.
func Load(dir string) (Session, error) {
	data, err := os.ReadFile(path(dir)) //nolint:gosec // session path inside workspace dir
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, notLoggedIn()
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session: %w", err)
	}
	if s.Username == "" {
		return Session{}, notLoggedIn()
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		return Session{}, fmt.Errorf("parsing session: invalid id %q", s.ID)
	}
	return s, nil
}

// Clear removes the session. Clearing without a session is not an error.
func Clear(dir string) error {
	err := os.Remove(path(dir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Resolve loads the session and maps it to an account in d.
func Resolve(dir string, d *account.Directory) (account.Account, Session, error) {
	s, err := Load(dir)
	if err != nil {
		return account.Account{}, Session{}, err
	}
	a, err := d.Resolve(s.Username)
	if err != nil {
		return account.Account{}, Session{}, err
	}
	return a, s, nil
}

func notLoggedIn() *clierr.Error {
	return clierr.New(clierr.NotLoggedIn, "not logged in (run 'bugtrack login USER')")
}
