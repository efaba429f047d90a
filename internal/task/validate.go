package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
)

// AssigneeCheck reports whether a username may own tasks.
type AssigneeCheck func(username string) bool

// Validate checks the fields every stored task must satisfy.
func Validate(t Task, isDeveloper AssigneeCheck) error {
	if strings.TrimSpace(t.Title) == "" {
		return ValidationError("title", "title is required")
	}
	if !t.Priority.Valid() {
		return clierr.Newf(clierr.Validation, "invalid priority %q", t.Priority).
			WithDetails(map[string]any{"field": "priority", "priority": t.Priority, "allowed": Priorities()})
	}
	if !t.Status.Valid() {
		return clierr.Newf(clierr.Validation, "invalid status %q", t.Status).
			WithDetails(map[string]any{"field": "status", "status": t.Status, "allowed": Statuses()})
	}
	if t.TimeSpent < 0 {
		return ValidationError("time_spent", "time spent cannot be negative")
	}
	if isDeveloper != nil && !isDeveloper(t.Assignee) {
		return clierr.Newf(clierr.Validation, "assignee %q is not a developer", t.Assignee).
			WithDetails(map[string]any{"field": "assignee", "assignee": t.Assignee})
	}
	return nil
}

// ValidationError returns a VALIDATION_ERROR naming the offending field.
func ValidationError(field, msg string) *clierr.Error {
	return clierr.New(clierr.Validation, msg).
		WithDetails(map[string]any{"field": field})
}

// NotFoundError returns a TASK_NOT_FOUND error for id.
func NotFoundError(id int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task #%d not found", id).
		WithDetails(map[string]any{"id": id})
}

// InvalidIDError returns an INVALID_INPUT error for an unparsable id.
func InvalidIDError(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidInput, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NormalizeTags trims tags, drops blanks and duplicates, and keeps first-seen order.
func NormalizeTags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
