// Package task defines the tracked task and its field vocabularies.
package task

import (
	"slices"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
)

// Task is a bug or work item tracked by the store.
type Task struct {
	ID          int        `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Priority    Priority   `yaml:"priority" json:"priority"`
	Status      Status     `yaml:"status" json:"status"`
	Assignee    string     `yaml:"assignee" json:"assignee"`
	Created     time.Time  `yaml:"created" json:"created"`
	Updated     time.Time  `yaml:"updated" json:"updated"`
	Due         *date.Date `yaml:"due,omitempty" json:"due,omitempty"`
	Tags        []string   `yaml:"tags,omitempty" json:"tags,omitempty"`

	// TimeSpent is the logged effort in minutes.
	TimeSpent int `yaml:"time_spent" json:"time_spent"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	return c
}

// HasTag reports whether the task carries the given tag.
func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// IsOverdue reports whether the task is past due on day and not closed.
func (t Task) IsOverdue(day date.Date) bool {
	return t.Due != nil && t.Due.Before(day) && t.Status != Closed
}

// Input holds the fields a caller supplies when creating a task.
type Input struct {
	Title       string
	Description string
	Priority    Priority
	Assignee    string
	Due         *date.Date
	Tags        []string
}

// Patch describes a partial update. Nil fields are left unchanged.
// Status and TimeSpent are reserved for lifecycle transitions and time logging.
type Patch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Assignee    *string
	Due         *date.Date
	ClearDue    bool
	Tags        *[]string
	AddTags     []string
	RemoveTags  []string

	Status    *Status
	TimeSpent *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Assignee == nil && p.Due == nil && !p.ClearDue && p.Tags == nil &&
		len(p.AddTags) == 0 && len(p.RemoveTags) == 0 &&
		p.Status == nil && p.TimeSpent == nil
}

// TouchesLifecycle reports whether the patch sets status or time spent.
func (p Patch) TouchesLifecycle() bool {
	return p.Status != nil || p.TimeSpent != nil
}

// Apply returns a copy of t with the patch applied. It does not validate.
func (p Patch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Assignee != nil {
		out.Assignee = *p.Assignee
	}
	if p.Due != nil {
		d := *p.Due
		out.Due = &d
	}
	if p.ClearDue {
		out.Due = nil
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	if len(p.AddTags) > 0 {
		out.Tags = NormalizeTags(append(out.Tags, p.AddTags...))
	}
	if len(p.RemoveTags) > 0 {
		out.Tags = slices.DeleteFunc(out.Tags, func(tag string) bool {
			return slices.Contains(p.RemoveTags, tag)
		})
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.TimeSpent != nil {
		out.TimeSpent = *p.TimeSpent
	}
	return out
}
