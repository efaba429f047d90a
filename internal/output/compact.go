package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/bugtrack/internal/activity"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with its raw description.
func TaskDetailCompact(w io.Writer, t task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))
	fmt.Fprintln(w, "  created:"+t.Created.Format("2006-01-02")+
		" updated:"+t.Updated.Format("2006-01-02")+
		" time:"+FormatMinutes(t.TimeSpent))
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders a summary in compact format.
func OverviewCompact(w io.Writer, ov query.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %s)\n", ov.Title, ov.TotalTasks, FormatMinutes(ov.TimeSpent))
	for _, sc := range ov.Statuses {
		line := "  " + string(sc.Status) + ": " + strconv.Itoa(sc.Count)
		if sc.Overdue > 0 {
			line += " (" + strconv.Itoa(sc.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}
	parts := make([]string, 0, len(ov.Priorities))
	for _, pc := range ov.Priorities {
		parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
}

// TrendCompact renders one "date count" line per day.
func TrendCompact(w io.Writer, points []query.Point) {
	for _, p := range points {
		fmt.Fprintf(w, "%s %d\n", p.Date, p.Count)
	}
}

// GroupedCompact renders one line per group with its non-zero status counts.
func GroupedCompact(w io.Writer, g query.Grouped) {
	for _, grp := range g.Groups {
		parts := []string{grp.Key + ":", strconv.Itoa(grp.Total)}
		for _, sc := range grp.Statuses {
			if sc.Count > 0 {
				parts = append(parts, string(sc.Status)+"="+strconv.Itoa(sc.Count))
			}
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
}

// ActivityCompact renders one line per activity entry.
func ActivityCompact(w io.Writer, entries []activity.Entry) {
	for _, e := range entries {
		line := e.Timestamp.Format("2006-01-02T15:04") + " " + e.Actor + " " + e.Action +
			" #" + strconv.Itoa(e.TaskID)
		if e.Detail != "" {
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func formatTaskLine(t task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + string(t.Status) + "/" + string(t.Priority) + "] " +
		t.Title + " @" + t.Assignee
	if len(t.Tags) > 0 {
		line += " (" + strings.Join(t.Tags, ", ") + ")"
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
	}
	if t.TimeSpent > 0 {
		line += " time:" + FormatMinutes(t.TimeSpent)
	}
	return line
}
