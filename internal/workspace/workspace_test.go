package workspace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/config"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

func fixedClock() time.Time {
	return time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC)
}

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := Init(filepath.Join(t.TempDir(), config.DefaultDir), "bugs", WithClock(fixedClock))
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return w
}

func TestLoginAndCurrent(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)
	if _, _, err := w.Current(); !clierr.Is(err, clierr.NotLoggedIn) {
		t.Fatalf("Current before login = %v, want NOT_LOGGED_IN", err)
	}
	if _, _, err := w.Login("dev1", "wrong"); !clierr.Is(err, clierr.InvalidCredentials) {
		t.Fatalf("bad login = %v, want INVALID_CREDENTIALS", err)
	}

	a, s, err := w.Login("manager", "mgr123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	cur, cs, err := w.Current()
	if err != nil || cur != a || cs.ID != s.ID {
		t.Errorf("Current = %+v %+v %v", cur, cs, err)
	}

	if err := w.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, _, err := w.Current(); !clierr.Is(err, clierr.NotLoggedIn) {
		t.Errorf("Current after logout = %v", err)
	}
}

func TestUpdatePersistsAndRecords(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)
	actor, sess, err := w.Login("dev1", "dev123")
	if err != nil {
		t.Fatal(err)
	}

	var created task.Task
	err = w.Update(context.Background(), sess, func(e *lifecycle.Engine) error {
		created, err = e.Create(actor, task.Input{Title: "Crash on save", Priority: task.High})
		if err != nil {
			return err
		}
		_, err = e.LogTime(actor, created.ID, 30)
		return err
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reopened, err := Open(w.Dir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := s.Get(created.ID)
	if err != nil || got.TimeSpent != 30 || !got.Created.Equal(fixedClock()) {
		t.Errorf("persisted task = %+v, %v", got, err)
	}

	entries, err := w.Activity().Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Action != "log-time" || entries[1].Action != "create" {
		t.Errorf("activity = %+v", entries)
	}
	if entries[0].Session != sess.ID || entries[0].Actor != "dev1" {
		t.Errorf("entry attribution = %+v", entries[0])
	}
}

func TestFailedUpdateLeavesSnapshotUnchanged(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)
	dev, sess, _ := w.Login("dev1", "dev123")
	err := w.Update(context.Background(), sess, func(e *lifecycle.Engine) error {
		_, err := e.Create(dev, task.Input{Title: "First"})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	before, err := os.ReadFile(w.Config().SnapshotPath())
	if err != nil {
		t.Fatal(err)
	}

	// The create succeeds in memory, then the close by a manager fails.
	mgr, _ := w.Accounts().Resolve("manager")
	err = w.Update(context.Background(), sess, func(e *lifecycle.Engine) error {
		if _, err := e.Create(dev, task.Input{Title: "Second"}); err != nil {
			return err
		}
		_, err := e.Close(mgr, 1)
		return err
	})
	if !clierr.Is(err, clierr.Forbidden) {
		t.Fatalf("Update = %v, want FORBIDDEN", err)
	}

	after, err := os.ReadFile(w.Config().SnapshotPath())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("snapshot changed after failed update")
	}
	entries, _ := w.Activity().Recent(0)
	if len(entries) != 1 {
		t.Errorf("activity has %d entries, want 1", len(entries))
	}
}

func TestWatched(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)
	for name, want := range map[string]bool{
		"tasks.yml":      true,
		"config.yml":     true,
		"session.yml":    true,
		"activity.jsonl": false,
		".lock":          false,
	} {
		if got := w.Watched(filepath.Join(w.Dir(), name)); got != want {
			t.Errorf("Watched(%s) = %v, want %v", name, got, want)
		}
	}
}
