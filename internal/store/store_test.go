package store

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var fixedNow = time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithAssigneeCheck(func(u string) bool { return u == "dev1" || u == "dev2" }),
	)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	a, err := s.Create(task.Input{Title: "First", Priority: task.High, Assignee: "dev1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := s.Create(task.Input{Title: "Second", Assignee: "dev2"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d; want 1, 2", a.ID, b.ID)
	}
	if a.Status != task.Open || a.TimeSpent != 0 || !a.Created.Equal(fixedNow) {
		t.Errorf("new task = %+v", a)
	}
	if b.Priority != task.Medium {
		t.Errorf("default priority = %s, want medium", b.Priority)
	}

	s.Delete(2)
	c, _ := s.Create(task.Input{Title: "Third", Assignee: "dev1"})
	if c.ID != 3 {
		t.Errorf("id after delete = %d, want 3 (ids are never reused)", c.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   task.Input
	}{
		{"empty title", task.Input{Title: "  ", Assignee: "dev1"}},
		{"unknown assignee", task.Input{Title: "x", Assignee: "ghost"}},
		{"manager assignee", task.Input{Title: "x", Assignee: "manager"}},
		{"bad priority", task.Input{Title: "x", Assignee: "dev1", Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestStore()
			if _, err := s.Create(tt.in); !clierr.Is(err, clierr.Validation) {
				t.Fatalf("Create error = %v, want VALIDATION_ERROR", err)
			}
			if s.Len() != 0 {
				t.Errorf("store has %d tasks after failed create", s.Len())
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	if _, err := s.Get(42); !clierr.Is(err, clierr.TaskNotFound) {
		t.Errorf("Get(42) error = %v, want TASK_NOT_FOUND", err)
	}
	if _, err := s.Update(42, task.Patch{}); !clierr.Is(err, clierr.TaskNotFound) {
		t.Errorf("Update(42) error = %v, want TASK_NOT_FOUND", err)
	}
}

func TestUpdateIsAtomic(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	orig, _ := s.Create(task.Input{Title: "Keep me", Assignee: "dev1"})

	blank := ""
	newPrio := task.High
	_, err := s.Update(orig.ID, task.Patch{Title: &blank, Priority: &newPrio})
	if !clierr.Is(err, clierr.Validation) {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}

	got, _ := s.Get(orig.ID)
	if got.Title != "Keep me" || got.Priority != task.Medium {
		t.Errorf("task changed after failed update: %+v", got)
	}
}

func TestUpdateTimeSpentNeverDecreases(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	tk, _ := s.Create(task.Input{Title: "x", Assignee: "dev1"})

	thirty := 30
	if _, err := s.Update(tk.ID, task.Patch{TimeSpent: &thirty}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	ten := 10
	if _, err := s.Update(tk.ID, task.Patch{TimeSpent: &ten}); !clierr.Is(err, clierr.Validation) {
		t.Fatalf("decreasing time spent: error = %v, want VALIDATION_ERROR", err)
	}
	got, _ := s.Get(tk.ID)
	if got.TimeSpent != 30 {
		t.Errorf("TimeSpent = %d, want 30", got.TimeSpent)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	tk, _ := s.Create(task.Input{Title: "x", Assignee: "dev1"})

	if !s.Delete(tk.ID) {
		t.Error("first Delete should report removal")
	}
	if s.Delete(tk.ID) {
		t.Error("second Delete should be a no-op")
	}
	if s.Delete(999) {
		t.Error("deleting an absent id should be a no-op")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestAllReturnsCopies(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	_, _ = s.Create(task.Input{Title: "a", Assignee: "dev1", Tags: []string{"ui"}})
	_, _ = s.Create(task.Input{Title: "b", Assignee: "dev2"})

	all := s.All()
	all[0].Title = "mutated"
	all[0].Tags[0] = "mutated"

	got, _ := s.Get(1)
	if got.Title != "a" || got.Tags[0] != "ui" {
		t.Errorf("store aliased by All(): %+v", got)
	}

	mine := s.ByAssignee("dev2")
	if len(mine) != 1 || mine[0].Title != "b" {
		t.Errorf("ByAssignee(dev2) = %+v", mine)
	}
}

func TestStateRestore(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	_, _ = s.Create(task.Input{Title: "a", Assignee: "dev1"})
	_, _ = s.Create(task.Input{Title: "b", Assignee: "dev1"})
	s.Delete(2)

	st := s.State()
	if st.NextID != 3 || len(st.Tasks) != 1 {
		t.Fatalf("State = %+v", st)
	}

	r := newTestStore()
	if err := r.Restore(st); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	next, _ := r.Create(task.Input{Title: "c", Assignee: "dev1"})
	if next.ID != 3 {
		t.Errorf("id after restore = %d, want 3", next.ID)
	}

	dup := State{Tasks: []task.Task{st.Tasks[0], st.Tasks[0]}}
	if err := r.Restore(dup); !clierr.Is(err, clierr.Validation) {
		t.Errorf("Restore duplicate ids error = %v, want VALIDATION_ERROR", err)
	}
	if r.Len() != 2 {
		t.Errorf("failed Restore changed the store: Len = %d", r.Len())
	}
}
