package query

import (
	"sort"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// SortFields returns the accepted --sort values.
func SortFields() []string {
	return []string{"id", "priority", "status", "created", "due", "time"}
}

// ValidateSortField rejects unknown sort fields.
func ValidateSortField(field string) error {
	for _, f := range SortFields() {
		if f == field {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidInput, "invalid sort field %q", field).
		WithDetails(map[string]any{"field": field, "allowed": SortFields()})
}

// Sort sorts tasks in place by field. Status and priority use lifecycle and
// severity order rather than alphabetical order. Sorting is stable, so ties
// keep insertion order.
func Sort(tasks []task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b task.Task, field string) bool {
	switch field {
	case "status":
		return a.Status.Rank() < b.Status.Rank()
	case "priority":
		return a.Priority.Rank() < b.Priority.Rank()
	case "created":
		return a.Created.Before(b.Created)
	case "due":
		return compareDue(a, b)
	case "time":
		return a.TimeSpent < b.TimeSpent
	default:
		return a.ID < b.ID
	}
}

// compareDue orders tasks without a due date last.
func compareDue(a, b task.Task) bool {
	if a.Due == nil {
		return false
	}
	if b.Due == nil {
		return true
	}
	return a.Due.Before(*b.Due)
}
