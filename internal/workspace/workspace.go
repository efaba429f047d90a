// Package workspace ties a workspace directory to the in-memory store: it
// loads the snapshot, runs engine operations under the workspace lock, and
// persists and records them on success.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/activity"
	"github.com/twiced-technology-gmbh/bugtrack/internal/config"
	"github.com/twiced-technology-gmbh/bugtrack/internal/filelock"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/session"
	"github.com/twiced-technology-gmbh/bugtrack/internal/snapshot"
	"github.com/twiced-technology-gmbh/bugtrack/internal/store"
)

// LockFileName is the advisory lock taken by mutating operations.
const LockFileName = ".lock"

// Workspace is an opened workspace directory.
type Workspace struct {
	cfg      *config.Config
	accounts *account.Directory
	now      func() time.Time
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithClock sets the time source for task timestamps, sessions and activity.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// Open loads the workspace in dir.
func Open(dir string, opts ...Option) (*Workspace, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg, opts)
}

// Init creates a workspace in dir with a default config and an empty snapshot.
func Init(dir, name string, opts ...Option) (*Workspace, error) {
	cfg, err := config.Init(dir, name)
	if err != nil {
		return nil, err
	}
	w, err := fromConfig(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := snapshot.Save(cfg.SnapshotPath(), store.State{NextID: 1}); err != nil {
		return nil, err
	}
	return w, nil
}

func fromConfig(cfg *config.Config, opts []Option) (*Workspace, error) {
	d, err := cfg.Directory()
	if err != nil {
		return nil, err
	}
	w := &Workspace{cfg: cfg, accounts: d, now: time.Now}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Config returns the effective configuration.
func (w *Workspace) Config() *config.Config { return w.cfg }

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.cfg.Dir() }

// Accounts returns the static account directory.
func (w *Workspace) Accounts() *account.Directory { return w.accounts }

// Location returns the zone used for calendar-day grouping.
func (w *Workspace) Location() *time.Location { return w.cfg.Location() }

// Now returns the workspace clock reading.
func (w *Workspace) Now() time.Time { return w.now() }

// Activity returns the workspace activity log.
func (w *Workspace) Activity() *activity.Log {
	return activity.New(w.Dir(), w.cfg.Activity.MaxEntries)
}

// Login checks credentials and writes a new session.
func (w *Workspace) Login(username, password string) (account.Account, session.Session, error) {
	a, err := w.accounts.Authenticate(username, password)
	if err != nil {
		return account.Account{}, session.Session{}, err
	}
	s := session.New(a.Username, w.now())
	if err := session.Save(w.Dir(), s); err != nil {
		return account.Account{}, session.Session{}, err
	}
	return a, s, nil
}

// Logout clears the session.
func (w *Workspace) Logout() error {
	return session.Clear(w.Dir())
}

// Current returns the logged-in account.
func (w *Workspace) Current() (account.Account, session.Session, error) {
	return session.Resolve(w.Dir(), w.accounts)
}

func (w *Workspace) newStore() *store.Store {
	return store.New(
		store.WithClock(w.now),
		store.WithAssigneeCheck(w.accounts.IsDeveloper),
	)
}

// Load reads the snapshot into a fresh store. The store is a private copy;
// changes to it are not persisted.
func (w *Workspace) Load() (*store.Store, error) {
	st, err := snapshot.Load(w.cfg.SnapshotPath())
	if err != nil {
		return nil, err
	}
	s := w.newStore()
	if err := s.Restore(st); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", filepath.Base(w.cfg.SnapshotPath()), err)
	}
	return s, nil
}

// Update runs fn against an engine over the current snapshot while holding
// the workspace lock. The snapshot is written only if fn succeeds, and each
// event fn produced is appended to the activity log.
func (w *Workspace) Update(ctx context.Context, sess session.Session, fn func(*lifecycle.Engine) error) error {
	unlock, err := filelock.Lock(ctx, filepath.Join(w.Dir(), LockFileName))
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // closing the lock file cannot lose data

	s, err := w.Load()
	if err != nil {
		return err
	}

	var events []lifecycle.Event
	eng := lifecycle.New(s, lifecycle.WithObserver(func(ev lifecycle.Event) {
		events = append(events, ev)
	}))
	if err := fn(eng); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	if err := snapshot.Save(w.cfg.SnapshotPath(), s.State()); err != nil {
		return err
	}
	w.record(sess, events)
	return nil
}

// record appends events to the activity log. Errors are discarded because
// the mutation is already persisted.
func (w *Workspace) record(sess session.Session, events []lifecycle.Event) {
	log := w.Activity()
	for _, ev := range events {
		_ = log.Append(activity.Entry{
			Timestamp: w.now(),
			Session:   sess.ID,
			Actor:     ev.Actor.Username,
			Action:    string(ev.Action),
			TaskID:    ev.TaskID,
			Detail:    ev.Detail,
		})
	}
}

// Watched reports whether a file name inside the workspace directory affects
// what live views display.
func (w *Workspace) Watched(name string) bool {
	switch filepath.Base(name) {
	case filepath.Base(w.cfg.SnapshotPath()), config.ConfigFileName, session.FileName:
		return true
	}
	return false
}
