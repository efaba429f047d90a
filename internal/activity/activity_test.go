package activity

import (
	"os"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	t.Parallel()

	l := New(t.TempDir(), 100)
	base := time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		e := Entry{Timestamp: base.Add(time.Duration(i) * time.Minute), Actor: "dev1", Action: "create", TaskID: i}
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := l.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 || got[0].TaskID != 3 || got[1].TaskID != 2 {
		t.Errorf("Recent(2) = %+v, want task 3 then 2", got)
	}
}

func TestAppendTruncatesOldest(t *testing.T) {
	t.Parallel()

	l := New(t.TempDir(), 3)
	for i := 1; i <= 5; i++ {
		if err := l.Append(Entry{Action: "log-time", TaskID: i}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	all, err := l.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 3 || all[2].TaskID != 3 {
		t.Errorf("after truncation = %+v, want tasks 5,4,3", all)
	}
}

func TestRecentSkipsMalformedAndMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := New(dir, 10)
	if got, err := l.Recent(5); err != nil || got != nil {
		t.Fatalf("missing log: %v, %v", got, err)
	}

	content := "{\"action\":\"create\",\"task_id\":1}\nnot json\n"
	if err := os.WriteFile(l.Path(), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := l.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 || got[0].TaskID != 1 {
		t.Errorf("Recent = %+v", got)
	}
}
