// Package lifecycle applies role-checked actions to tasks held in a store.
package lifecycle

import (
	"fmt"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/store"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// Action names an operation an actor performs on a task.
type Action string

// Actions.
const (
	Create  Action = "create"
	Edit    Action = "edit"
	Delete  Action = "delete"
	Close   Action = "close"
	Approve Action = "approve"
	Reopen  Action = "reopen"
	LogTime Action = "log-time"
)

// TaskActions returns the actions that apply to an existing task, in the
// order the view layer lists them.
func TaskActions() []Action {
	return []Action{Edit, Close, LogTime, Approve, Reopen, Delete}
}

type transitionKey struct {
	from   task.Status
	action Action
}

// transitions is the complete status table. Any pair not listed is invalid.
var transitions = map[transitionKey]task.Status{
	{task.Open, Close}:              task.PendingApproval,
	{task.PendingApproval, Approve}: task.Closed,
	{task.PendingApproval, Reopen}:  task.Open,
}

// Next returns the status an action leads to from the given status.
func Next(from task.Status, action Action) (task.Status, bool) {
	to, ok := transitions[transitionKey{from, action}]
	return to, ok
}

// Event describes a mutation that succeeded.
type Event struct {
	Actor  account.Account
	Action Action
	TaskID int
	Detail string
}

// Observer receives events after each successful mutation.
type Observer func(Event)

// Engine validates and applies lifecycle actions against a store.
type Engine struct {
	store    *store.Store
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers fn to receive events.
func WithObserver(fn Observer) Option {
	return func(e *Engine) { e.observer = fn }
}

// New returns an engine operating on s.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{store: s}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Store returns the underlying store for read access.
func (e *Engine) Store() *store.Store { return e.store }

func (e *Engine) emit(actor account.Account, action Action, id int, detail string) {
	if e.observer != nil {
		e.observer(Event{Actor: actor, Action: action, TaskID: id, Detail: detail})
	}
}

// authorize reports whether actor may perform action on t.
// Developer actions require ownership; approve and reopen require a manager.
func authorize(actor account.Account, action Action, t task.Task) error {
	ok := false
	switch action {
	case Edit, Delete, Close, LogTime:
		ok = actor.IsDeveloper() && t.Assignee == actor.Username
	case Approve, Reopen:
		ok = actor.IsManager()
	}
	if ok {
		return nil
	}
	return clierr.Newf(clierr.Forbidden, "%s may not %s task #%d", actor.Username, action, t.ID).
		WithDetails(map[string]any{
			"id":     t.ID,
			"action": action,
			"actor":  actor.Username,
			"role":   actor.Role,
		})
}

func invalidTransition(t task.Task, action Action) error {
	return clierr.Newf(clierr.InvalidTransition, "cannot %s task #%d in status %s", action, t.ID, t.Status).
		WithDetails(map[string]any{
			"id":     t.ID,
			"status": t.Status,
			"action": action,
		})
}

// Allowed returns the actions actor may currently take on t.
func Allowed(actor account.Account, t task.Task) []Action {
	var out []Action
	for _, a := range TaskActions() {
		if authorize(actor, a, t) != nil {
			continue
		}
		switch a {
		case Close, Approve, Reopen:
			if _, ok := Next(t.Status, a); !ok {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// Create stores a new task on behalf of a developer. An empty assignee
// defaults to the creator.
func (e *Engine) Create(actor account.Account, in task.Input) (task.Task, error) {
	if !actor.IsDeveloper() {
		return task.Task{}, clierr.Newf(clierr.Forbidden, "%s may not create tasks", actor.Username).
			WithDetails(map[string]any{"action": Create, "actor": actor.Username, "role": actor.Role})
	}
	if in.Assignee == "" {
		in.Assignee = actor.Username
	}
	t, err := e.store.Create(in)
	if err != nil {
		return task.Task{}, err
	}
	e.emit(actor, Create, t.ID, t.Title)
	return t, nil
}

// Close moves an Open task to PendingApproval.
func (e *Engine) Close(actor account.Account, id int) (task.Task, error) {
	return e.transition(actor, id, Close)
}

// Approve moves a PendingApproval task to Closed.
func (e *Engine) Approve(actor account.Account, id int) (task.Task, error) {
	return e.transition(actor, id, Approve)
}

// Reopen moves a PendingApproval task back to Open.
func (e *Engine) Reopen(actor account.Account, id int) (task.Task, error) {
	return e.transition(actor, id, Reopen)
}

func (e *Engine) transition(actor account.Account, id int, action Action) (task.Task, error) {
	cur, err := e.store.Get(id)
	if err != nil {
		return task.Task{}, err
	}
	if err := authorize(actor, action, cur); err != nil {
		return task.Task{}, err
	}
	to, ok := Next(cur.Status, action)
	if !ok {
		return task.Task{}, invalidTransition(cur, action)
	}
	t, err := e.store.Update(id, task.Patch{Status: &to})
	if err != nil {
		return task.Task{}, err
	}
	e.emit(actor, action, id, fmt.Sprintf("%s -> %s", cur.Status, to))
	return t, nil
}

// LogTime adds delta minutes to the task's time spent. Status is unaffected.
func (e *Engine) LogTime(actor account.Account, id, delta int) (task.Task, error) {
	if delta < 0 {
		return task.Task{}, clierr.Newf(clierr.Validation, "time delta must not be negative (got %d)", delta).
			WithDetails(map[string]any{"id": id, "field": "delta", "delta": delta})
	}
	cur, err := e.store.Get(id)
	if err != nil {
		return task.Task{}, err
	}
	if err := authorize(actor, LogTime, cur); err != nil {
		return task.Task{}, err
	}
	total := cur.TimeSpent + delta
	t, err := e.store.Update(id, task.Patch{TimeSpent: &total})
	if err != nil {
		return task.Task{}, err
	}
	e.emit(actor, LogTime, id, fmt.Sprintf("+%dm (total %dm)", delta, total))
	return t, nil
}

// Edit applies a patch of non-lifecycle fields. It is allowed in every status.
func (e *Engine) Edit(actor account.Account, id int, patch task.Patch) (task.Task, error) {
	if patch.TouchesLifecycle() {
		return task.Task{}, clierr.New(clierr.Validation, "status and time spent cannot be edited directly").
			WithDetails(map[string]any{"id": id})
	}
	cur, err := e.store.Get(id)
	if err != nil {
		return task.Task{}, err
	}
	if err := authorize(actor, Edit, cur); err != nil {
		return task.Task{}, err
	}
	if patch.IsEmpty() {
		return cur, nil
	}
	t, err := e.store.Update(id, patch)
	if err != nil {
		return task.Task{}, err
	}
	e.emit(actor, Edit, id, t.Title)
	return t, nil
}

// Delete removes a task owned by actor. Deleting an absent id is a no-op and
// reports false.
func (e *Engine) Delete(actor account.Account, id int) (bool, error) {
	cur, err := e.store.Get(id)
	if err != nil {
		if clierr.Is(err, clierr.TaskNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := authorize(actor, Delete, cur); err != nil {
		return false, err
	}
	e.store.Delete(id)
	e.emit(actor, Delete, id, cur.Title)
	return true, nil
}
