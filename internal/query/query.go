// Package query computes role-visible task subsets and aggregates.
package query

import (
	"strings"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// Filter narrows the visible set. Zero-valued fields do not filter.
type Filter struct {
	Priority task.Priority
	Status   task.Status
	Tag      string
	Search   string // case-insensitive substring match across title, description, and tags
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// VisibleTasks returns the tasks viewer may see that match f, in input order.
// Managers see every task; developers see only tasks assigned to them.
func VisibleTasks(tasks []task.Task, viewer account.Account, f Filter) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if !canSee(viewer, t) || !f.matches(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func canSee(viewer account.Account, t task.Task) bool {
	if viewer.IsManager() {
		return true
	}
	return viewer.IsDeveloper() && t.Assignee == viewer.Username
}

func (f Filter) matches(t task.Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	return true
}

func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
