// Package store holds the authoritative in-memory task collection.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// Store owns tasks keyed by id, in insertion order. It is not safe for
// concurrent use; callers serialize access.
type Store struct {
	tasks  map[int]*task.Task
	order  []int
	nextID int

	now         func() time.Time
	isDeveloper task.AssigneeCheck
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAssigneeCheck sets the predicate an assignee must satisfy.
// Without it any non-blank assignee is accepted.
func WithAssigneeCheck(fn task.AssigneeCheck) Option {
	return func(s *Store) { s.isDeveloper = fn }
}

// New returns an empty store whose first id is 1.
func New(opts ...Option) *Store {
	s := &Store{
		tasks:  make(map[int]*task.Task),
		nextID: 1,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) assigneeCheck() task.AssigneeCheck {
	if s.isDeveloper != nil {
		return s.isDeveloper
	}
	return func(u string) bool { return strings.TrimSpace(u) != "" }
}

// Create stores a new Open task with the next id and zero time spent.
func (s *Store) Create(in task.Input) (task.Task, error) {
	now := s.now()
	t := task.Task{
		ID:          s.nextID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    in.Priority,
		Status:      task.Open,
		Assignee:    in.Assignee,
		Created:     now,
		Updated:     now,
		Tags:        task.NormalizeTags(in.Tags),
	}
	if t.Priority == "" {
		t.Priority = task.Medium
	}
	if in.Due != nil {
		d := *in.Due
		t.Due = &d
	}
	if err := task.Validate(t, s.assigneeCheck()); err != nil {
		return task.Task{}, err
	}

	s.nextID++
	s.tasks[t.ID] = &t
	s.order = append(s.order, t.ID)
	return t.Clone(), nil
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int) (task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, task.NotFoundError(id)
	}
	return t.Clone(), nil
}

// Update applies patch to the task. The patched task is validated in full
// before anything is committed, and time spent may never decrease.
func (s *Store) Update(id int, patch task.Patch) (task.Task, error) {
	cur, ok := s.tasks[id]
	if !ok {
		return task.Task{}, task.NotFoundError(id)
	}

	next := patch.Apply(*cur)
	next.Title = strings.TrimSpace(next.Title)
	if next.TimeSpent < cur.TimeSpent {
		return task.Task{}, clierr.Newf(clierr.Validation,
			"time spent cannot decrease (%d -> %d)", cur.TimeSpent, next.TimeSpent).
			WithDetails(map[string]any{"id": id, "field": "time_spent"})
	}
	if err := task.Validate(next, s.assigneeCheck()); err != nil {
		return task.Task{}, err
	}

	next.ID = cur.ID
	next.Created = cur.Created
	next.Updated = s.now()
	*cur = next
	return next.Clone(), nil
}

// Delete removes the task. Deleting an absent id is a no-op.
// It reports whether a task was removed.
func (s *Store) Delete(id int) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns copies of every task in insertion order.
func (s *Store) All() []task.Task {
	out := make([]task.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].Clone())
	}
	return out
}

// ByAssignee returns copies of the tasks assigned to username.
func (s *Store) ByAssignee(username string) []task.Task {
	var out []task.Task
	for _, id := range s.order {
		if t := s.tasks[id]; t.Assignee == username {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int { return len(s.order) }

// State is the exportable content of a store.
type State struct {
	NextID int         `yaml:"next_id" json:"next_id"`
	Tasks  []task.Task `yaml:"tasks" json:"tasks"`
}

// State exports the store content for persistence.
func (s *Store) State() State {
	return State{NextID: s.nextID, Tasks: s.All()}
}

// Restore replaces the store content with st. Duplicate ids and tasks that
// fail field validation are rejected and leave the store unchanged. Assignees
// are not checked so that a snapshot survives account table edits.
func (s *Store) Restore(st State) error {
	tasks := make(map[int]*task.Task, len(st.Tasks))
	order := make([]int, 0, len(st.Tasks))
	maxID := 0
	for i := range st.Tasks {
		t := st.Tasks[i].Clone()
		if t.ID <= 0 {
			return clierr.Newf(clierr.Validation, "task at index %d has invalid id %d", i, t.ID)
		}
		if _, dup := tasks[t.ID]; dup {
			return clierr.Newf(clierr.Validation, "duplicate task id %d", t.ID).
				WithDetails(map[string]any{"id": t.ID})
		}
		if err := task.Validate(t, nil); err != nil {
			return fmt.Errorf("task #%d: %w", t.ID, err)
		}
		tasks[t.ID] = &t
		order = append(order, t.ID)
		maxID = max(maxID, t.ID)
	}

	next := st.NextID
	if next <= maxID {
		next = maxID + 1
	}
	s.tasks = tasks
	s.order = order
	s.nextID = next
	return nil
}
