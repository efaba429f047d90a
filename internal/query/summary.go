package query

import (
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// StatusCount holds metrics for a single status.
type StatusCount struct {
	Status  task.Status `json:"status"`
	Count   int         `json:"count"`
	Overdue int         `json:"overdue"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

// Overview is the aggregate view of a task set.
type Overview struct {
	Title      string          `json:"title"`
	TotalTasks int             `json:"total_tasks"`
	Overdue    int             `json:"overdue"`
	TimeSpent  int             `json:"time_spent"`
	Statuses   []StatusCount   `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
}

// Summary computes per-status and per-priority counts for tasks. A task is
// overdue when its due day is before today in loc and it is not closed.
func Summary(title string, tasks []task.Task, now time.Time, loc *time.Location) Overview {
	today := date.Of(now, loc)

	statusMap := make(map[task.Status]*StatusCount, len(task.Statuses()))
	for _, s := range task.Statuses() {
		statusMap[s] = &StatusCount{Status: s}
	}
	prioMap := make(map[task.Priority]int, len(task.Priorities()))

	ov := Overview{Title: title, TotalTasks: len(tasks)}
	for _, t := range tasks {
		if sc, ok := statusMap[t.Status]; ok {
			sc.Count++
			if t.IsOverdue(today) {
				sc.Overdue++
				ov.Overdue++
			}
		}
		prioMap[t.Priority]++
		ov.TimeSpent += t.TimeSpent
	}

	ov.Statuses = make([]StatusCount, 0, len(statusMap))
	for _, s := range task.Statuses() {
		ov.Statuses = append(ov.Statuses, *statusMap[s])
	}
	ov.Priorities = make([]PriorityCount, 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		ov.Priorities = append(ov.Priorities, PriorityCount{Priority: p, Count: prioMap[p]})
	}
	return ov
}
