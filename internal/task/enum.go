package task

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
)

// Status is a lifecycle state.
type Status string

// Statuses.
const (
	Open            Status = "open"
	InProgress      Status = "in-progress"
	PendingApproval Status = "pending-approval"
	Closed          Status = "closed"
)

// Statuses returns all statuses in lifecycle order.
func Statuses() []Status {
	return []Status{Open, InProgress, PendingApproval, Closed}
}

// Priority is a task priority.
type Priority string

// Priorities.
const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// Priorities returns all priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{Low, Medium, High}
}

// enumKey reduces a user-supplied name to a comparison key:
// case-folded, with spaces, hyphens and underscores removed.
func enumKey(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// ParseStatus accepts "pending-approval", "Pending Approval", "PendingApproval"
// and similar spellings.
func ParseStatus(s string) (Status, error) {
	key := enumKey(s)
	for _, st := range Statuses() {
		if enumKey(string(st)) == key {
			return st, nil
		}
	}
	return "", clierr.Newf(clierr.Validation, "invalid status %q", s).
		WithDetails(map[string]any{"status": s, "allowed": Statuses()})
}

// ParsePriority accepts any casing of low, medium, high.
func ParsePriority(s string) (Priority, error) {
	key := enumKey(s)
	for _, p := range Priorities() {
		if enumKey(string(p)) == key {
			return p, nil
		}
	}
	return "", clierr.Newf(clierr.Validation, "invalid priority %q", s).
		WithDetails(map[string]any{"priority": s, "allowed": Priorities()})
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// Label returns the display name, e.g. "Pending Approval".
func (s Status) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "-", " "))
}

// Rank is the position of s in lifecycle order, or -1.
func (s Status) Rank() int {
	for i, st := range Statuses() {
		if s == st {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Label returns the display name, e.g. "High".
func (p Priority) Label() string {
	return cases.Title(language.English).String(string(p))
}

// Rank is 0 for low up to 2 for high, or -1 for unknown.
func (p Priority) Rank() int {
	for i, pr := range Priorities() {
		if p == pr {
			return i
		}
	}
	return -1
}
