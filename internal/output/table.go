package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/activity"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

const timeLayout = "2006-01-02 15:04"

var (
	colorEnabled = true

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)

	statusStyles = map[task.Status]lipgloss.Style{
		task.Open:            lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.InProgress:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.PendingApproval: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.Closed:          lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// DisableColor strips all styling from table output and markdown rendering.
func DisableColor() {
	colorEnabled = false
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	barStyle = lipgloss.NewStyle()
	tagStyle = lipgloss.NewStyle()
	userStyle = lipgloss.NewStyle()
	statusStyles = map[task.Status]lipgloss.Style{}
	priorityStyles = map[task.Priority]lipgloss.Style{}
}

// StatusStyle returns the display style of a status.
func StatusStyle(s task.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// PriorityStyle returns the display style of a priority.
func PriorityStyle(p task.Priority) lipgloss.Style {
	if st, ok := priorityStyles[p]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, prioW, titleW, userW, tagsW, timeW := 4, 8, 10, 5, 10, 6, 6
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		userW = max(userW, len(t.Assignee)+pad)
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, 30)) //nolint:mnd // max tags column width
		timeW = max(timeW, len(FormatMinutes(t.TimeSpent))+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY", titleW, "TITLE",
		userW, "ASSIGNEE", tagsW, "TAGS", timeW, "TIME", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(tags)
		}
		due := dimStyle.Render("--")
		if t.Due != nil {
			due = t.Due.String()
		}

		row := fmt.Sprintf("%-*d %s %s %s %s %s %s %s",
			idW, t.ID,
			padRight(StatusStyle(t.Status).Render(string(t.Status)), statusW),
			padRight(PriorityStyle(t.Priority).Render(string(t.Priority)), prioW),
			padRight(title, titleW),
			padRight(t.Assignee, userW),
			padRight(tags, tagsW),
			padRight(FormatMinutes(t.TimeSpent), timeW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown wrapped at width.
func TaskDetail(w io.Writer, t task.Task, width int) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", StatusStyle(t.Status).Render(t.Status.Label()))
	printField(w, "Priority", PriorityStyle(t.Priority).Render(t.Priority.Label()))
	printField(w, "Assignee", userStyle.Render(t.Assignee))
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	if t.Due != nil {
		printField(w, "Due", t.Due.String())
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}
	printField(w, "Time spent", FormatMinutes(t.TimeSpent))
	printField(w, "Created", t.Created.Format(timeLayout))
	printField(w, "Updated", t.Updated.Format(timeLayout))

	if md := Markdown(t.Description, width); md != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, md)
	}
}

// OverviewTable renders a task summary as a dashboard.
func OverviewTable(w io.Writer, ov query.Overview) {
	fmt.Fprintln(w, titleStyle.Render(ov.Title))
	fmt.Fprintf(w, "Total: %d tasks, %s logged\n\n", ov.TotalTasks, FormatMinutes(ov.TimeSpent))

	const colW = 18
	header := fmt.Sprintf("%-*s %6s %8s", colW, "STATUS", "COUNT", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, sc := range ov.Statuses {
		fmt.Fprintf(w, "%s %6d %8d\n",
			padRight(StatusStyle(sc.Status).Render(sc.Status.Label()), colW), sc.Count, sc.Overdue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "PRIORITY", "COUNT")))
	for _, pc := range ov.Priorities {
		fmt.Fprintf(w, "%s %6d\n",
			padRight(PriorityStyle(pc.Priority).Render(pc.Priority.Label()), colW), pc.Count)
	}
}

// TrendChart renders one horizontal bar per day. The longest bar spans
// width cells.
func TrendChart(w io.Writer, points []query.Point, width int) {
	if len(points) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Count)
	}
	width = max(width, 1)

	fmt.Fprintln(w, headerStyle.Render("DATE        CREATED"))
	for _, p := range points {
		n := max(1, p.Count*width/peak)
		bar := barStyle.Render(strings.Repeat("█", n))
		fmt.Fprintf(w, "%s  %s %d\n", p.Date, bar, p.Count)
	}
}

// GroupedTable renders a grouped summary with per-group status breakdowns.
func GroupedTable(w io.Writer, g query.Grouped) {
	if len(g.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for i, grp := range g.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks, %s)", groupLabel(g.Field, grp.Key), grp.Total, FormatMinutes(grp.TimeSpent))
		fmt.Fprintln(w, titleStyle.Render(title))

		for _, sc := range grp.Statuses {
			if sc.Count == 0 {
				continue
			}
			const groupStatusW = 18
			fmt.Fprintf(w, "  %s %d\n", padRight(StatusStyle(sc.Status).Render(sc.Status.Label()), groupStatusW), sc.Count)
		}
	}
}

// groupLabel styles a group key by the field it came from.
func groupLabel(field, key string) string {
	switch field {
	case "status":
		return task.Status(key).Label()
	case "priority":
		return task.Priority(key).Label()
	}
	return key
}

// ActivityTable renders activity entries, newest first.
func ActivityTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	header := fmt.Sprintf("%-16s  %-10s %-10s %-6s %s", "TIME", "ACTOR", "ACTION", "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		row := fmt.Sprintf("%-16s  %s %-10s %-6s %s",
			e.Timestamp.Local().Format(timeLayout),
			padRight(userStyle.Render(e.Actor), 10), //nolint:mnd // actor column width
			e.Action, "#"+strconv.Itoa(e.TaskID), e.Detail)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// AccountTable lists accounts, marking the logged-in one.
func AccountTable(w io.Writer, accounts []account.Account, current string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("  %-12s %s", "USERNAME", "ROLE")))
	for _, a := range accounts {
		marker := " "
		name := a.Username
		if a.Username == current {
			marker = "*"
			name = userStyle.Render(name)
		}
		fmt.Fprintf(w, "%s %s %s\n", marker, padRight(name, 12), a.Role) //nolint:mnd // username column width
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatMinutes renders minutes as "45m", "2h" or "1h 30m".
func FormatMinutes(m int) string {
	const perHour = 60
	h, rem := m/perHour, m%perHour
	switch {
	case h == 0:
		return strconv.Itoa(rem) + "m"
	case rem == 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(h) + "h " + strconv.Itoa(rem) + "m"
	}
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
