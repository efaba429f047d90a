package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherDebouncesFilteredEvents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32
	fired := make(chan struct{}, 10)

	w, err := New(dir, func(name string) bool {
		return strings.HasSuffix(name, "tasks.yml")
	}, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	// Ignored file.
	if err := os.WriteFile(filepath.Join(dir, "activity.jsonl"), []byte("x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// A burst of writes to the watched file.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "tasks.yml"), []byte("next_id: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	time.Sleep(3 * DefaultDebounce)
	if n := calls.Load(); n != 1 {
		t.Errorf("callback invoked %d times, want 1", n)
	}
}
