package query

import (
	"sort"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

const (
	fieldAssignee = "assignee"
	fieldTag      = "tag"
	fieldPriority = "priority"
	fieldStatus   = "status"

	untagged = "(untagged)"
)

// Grouped holds tasks grouped by a field.
type Grouped struct {
	Field  string  `json:"field"`
	Groups []Group `json:"groups"`
}

// Group is one group within a grouped view.
type Group struct {
	Key       string        `json:"key"`
	Statuses  []StatusCount `json:"statuses"`
	Total     int           `json:"total"`
	TimeSpent int           `json:"time_spent"`
}

// GroupFields returns the accepted --group-by values.
func GroupFields() []string {
	return []string{fieldAssignee, fieldTag, fieldPriority, fieldStatus}
}

// ValidateGroupField rejects unknown group fields.
func ValidateGroupField(field string) error {
	for _, f := range GroupFields() {
		if f == field {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidInput, "invalid group field %q", field).
		WithDetails(map[string]any{"field": field, "allowed": GroupFields()})
}

// GroupBy groups tasks by field. A task with several tags is counted in each
// of its tag groups.
func GroupBy(tasks []task.Task, field string) Grouped {
	groups := make(map[string][]task.Task)
	for _, t := range tasks {
		for _, key := range groupKeys(t, field) {
			groups[key] = append(groups[key], t)
		}
	}

	out := Grouped{Field: field, Groups: make([]Group, 0, len(groups))}
	for _, key := range sortGroupKeys(groups, field) {
		members := groups[key]
		g := Group{Key: key, Statuses: statusCounts(members), Total: len(members)}
		for _, t := range members {
			g.TimeSpent += t.TimeSpent
		}
		out.Groups = append(out.Groups, g)
	}
	return out
}

func groupKeys(t task.Task, field string) []string {
	switch field {
	case fieldAssignee:
		return []string{t.Assignee}
	case fieldTag:
		if len(t.Tags) == 0 {
			return []string{untagged}
		}
		return t.Tags
	case fieldPriority:
		return []string{string(t.Priority)}
	case fieldStatus:
		return []string{string(t.Status)}
	default:
		return []string{"(all)"}
	}
}

func sortGroupKeys(groups map[string][]task.Task, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case fieldStatus:
		sort.SliceStable(keys, func(i, j int) bool {
			return task.Status(keys[i]).Rank() < task.Status(keys[j]).Rank()
		})
	case fieldPriority:
		// Highest priority first.
		sort.SliceStable(keys, func(i, j int) bool {
			return task.Priority(keys[i]).Rank() > task.Priority(keys[j]).Rank()
		})
	default:
		sort.Slice(keys, func(i, j int) bool {
			// The untagged bucket goes last.
			if (keys[i] == untagged) != (keys[j] == untagged) {
				return keys[j] == untagged
			}
			return keys[i] < keys[j]
		})
	}
	return keys
}

func statusCounts(tasks []task.Task) []StatusCount {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	out := make([]StatusCount, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}
