// Package tui implements the interactive bugtrack dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
	"github.com/twiced-technology-gmbh/bugtrack/internal/session"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewDetail
	viewLogTime
	viewConfirmDelete
)

const (
	listChrome   = 4 // header, filter line, blank line, status bar
	errorChrome  = 1 // extra line when an error is displayed
	tickInterval = 30 * time.Second
	lockTimeout  = 5 * time.Second
)

// Dashboard is the top-level bubbletea model.
type Dashboard struct {
	ctx    context.Context
	wait   time.Duration // longest wait for the workspace lock
	ws     *workspace.Workspace
	actor  account.Account
	sess   session.Session
	keys   keyMap
	input  textinput.Model
	tasks  []task.Task
	filter query.Filter
	cursor int
	offset int
	view   view
	width  int
	height int
	notice string
	err    error
}

// New creates a dashboard for the logged-in account of ws.
func New(ctx context.Context, ws *workspace.Workspace, actor account.Account, sess session.Session) *Dashboard {
	ti := textinput.New()
	ti.Placeholder = "minutes or 1h30m"
	ti.CharLimit = 16

	d := &Dashboard{
		ctx:   ctx,
		wait:  lockTimeout,
		ws:    ws,
		actor: actor,
		sess:  sess,
		keys:  newKeyMap(),
		input: ti,
	}
	d.loadTasks()
	return d
}

// ReloadMsg is sent by the file watcher to trigger a refresh.
type ReloadMsg struct{}

// ErrorMsg reports a background failure, such as the file watcher stopping.
type ErrorMsg struct{ Err error }

// TickMsg is sent periodically so that overdue markers follow the clock.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.handleKey(msg)
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil
	case ReloadMsg:
		d.loadTasks()
		return d, nil
	case TickMsg:
		return d, tickCmd()
	case ErrorMsg:
		d.err = msg.Err
		return d, nil
	}
	return d, nil
}

// View implements tea.Model.
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Loading..."
	}

	switch d.view {
	case viewDetail:
		return d.viewDetail()
	case viewLogTime:
		return d.viewLogTime()
	case viewConfirmDelete:
		return d.viewDeleteConfirm()
	default:
		return d.viewList()
	}
}

// loadTasks re-reads the snapshot and applies the visibility rules and filter.
func (d *Dashboard) loadTasks() {
	s, err := d.ws.Load()
	if err != nil {
		d.err = err
		return
	}
	d.err = nil
	d.tasks = query.VisibleTasks(s.All(), d.actor, d.filter)
	d.clampCursor()
}

func (d *Dashboard) clampCursor() {
	if d.cursor >= len(d.tasks) {
		d.cursor = len(d.tasks) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
	if d.view == viewDetail && len(d.tasks) == 0 {
		d.view = viewList
	}
}

func (d *Dashboard) selectedTask() (task.Task, bool) {
	if d.cursor < 0 || d.cursor >= len(d.tasks) {
		return task.Task{}, false
	}
	return d.tasks[d.cursor], true
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return d, tea.Quit
	}

	switch d.view {
	case viewLogTime:
		return d.handleLogTimeKey(msg)
	case viewConfirmDelete:
		return d.handleDeleteKey(msg)
	case viewDetail:
		if key.Matches(msg, d.keys.Back) {
			d.view = viewList
			return d, nil
		}
	}
	return d.handleListKey(msg)
}

func (d *Dashboard) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Quit):
		return d, tea.Quit
	case key.Matches(msg, d.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, d.keys.Down):
		if d.cursor < len(d.tasks)-1 {
			d.cursor++
		}
	case key.Matches(msg, d.keys.Detail):
		if _, ok := d.selectedTask(); ok {
			d.view = viewDetail
		}
	case key.Matches(msg, d.keys.Close):
		d.runTransition(lifecycle.Close)
	case key.Matches(msg, d.keys.Approve):
		d.runTransition(lifecycle.Approve)
	case key.Matches(msg, d.keys.Reopen):
		d.runTransition(lifecycle.Reopen)
	case key.Matches(msg, d.keys.LogTime):
		return d.startLogTime()
	case key.Matches(msg, d.keys.Delete):
		if _, ok := d.selectedTask(); ok {
			d.view = viewConfirmDelete
		}
	case key.Matches(msg, d.keys.CycleStatus):
		d.filter.Status = cycle(task.Statuses(), d.filter.Status)
		d.loadTasks()
	case key.Matches(msg, d.keys.CyclePriority):
		d.filter.Priority = cycle(task.Priorities(), d.filter.Priority)
		d.loadTasks()
	case key.Matches(msg, d.keys.ClearFilter):
		d.filter = query.Filter{}
		d.loadTasks()
	}
	return d, nil
}

// cycle steps through the zero value followed by each of values.
func cycle[T comparable](values []T, cur T) T {
	var zero T
	if cur == zero {
		return values[0]
	}
	for i, v := range values {
		if v == cur {
			if i == len(values)-1 {
				return zero
			}
			return values[i+1]
		}
	}
	return zero
}

// mutate runs fn through the workspace and refreshes the list. Errors are
// shown in the status bar; the snapshot is untouched when fn fails.
func (d *Dashboard) mutate(fn func(*lifecycle.Engine) (string, error)) {
	ctx, cancel := context.WithTimeout(d.ctx, d.wait)
	defer cancel()

	var notice string
	err := d.ws.Update(ctx, d.sess, func(e *lifecycle.Engine) error {
		var err error
		notice, err = fn(e)
		return err
	})
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("workspace is busy: %w", err)
	}
	d.loadTasks()
	if err != nil {
		d.err = err
		d.notice = ""
		return
	}
	d.notice = notice
}

func (d *Dashboard) runTransition(action lifecycle.Action) {
	t, ok := d.selectedTask()
	if !ok {
		return
	}
	d.mutate(func(e *lifecycle.Engine) (string, error) {
		var (
			updated task.Task
			err     error
		)
		switch action {
		case lifecycle.Close:
			updated, err = e.Close(d.actor, t.ID)
		case lifecycle.Approve:
			updated, err = e.Approve(d.actor, t.ID)
		case lifecycle.Reopen:
			updated, err = e.Reopen(d.actor, t.ID)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Task #%d is now %s", updated.ID, updated.Status.Label()), nil
	})
}

func (d *Dashboard) startLogTime() (tea.Model, tea.Cmd) {
	if _, ok := d.selectedTask(); !ok {
		return d, nil
	}
	d.input.SetValue("")
	d.input.Focus()
	d.view = viewLogTime
	return d, textinput.Blink
}

func (d *Dashboard) handleLogTimeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		d.input.Blur()
		d.view = viewList
		return d, nil
	case tea.KeyEnter:
		d.input.Blur()
		d.view = viewList
		d.submitLogTime(d.input.Value())
		return d, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *Dashboard) submitLogTime(value string) {
	t, ok := d.selectedTask()
	if !ok {
		return
	}
	delta, err := task.ParseMinutes(value)
	if err != nil {
		d.err = err
		return
	}
	d.mutate(func(e *lifecycle.Engine) (string, error) {
		updated, err := e.LogTime(d.actor, t.ID, delta)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Logged %s on #%d (total %s)",
			output.FormatMinutes(delta), updated.ID, output.FormatMinutes(updated.TimeSpent)), nil
	})
}

func (d *Dashboard) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Confirm):
		d.view = viewList
		t, ok := d.selectedTask()
		if !ok {
			return d, nil
		}
		d.mutate(func(e *lifecycle.Engine) (string, error) {
			deleted, err := e.Delete(d.actor, t.ID)
			if err != nil {
				return "", err
			}
			if !deleted {
				return fmt.Sprintf("Task #%d no longer exists", t.ID), nil
			}
			return fmt.Sprintf("Deleted task #%d", t.ID), nil
		})
	case key.Matches(msg, d.keys.Cancel):
		d.view = viewList
	}
	return d, nil
}

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// actionKeys maps lifecycle actions to the key hint shown for them.
var actionKeys = map[lifecycle.Action]string{
	lifecycle.Close:   "c:close",
	lifecycle.Approve: "a:approve",
	lifecycle.Reopen:  "r:reopen",
	lifecycle.LogTime: "t:log",
	lifecycle.Delete:  "d:delete",
}

// --- View rendering ---

func (d *Dashboard) viewList() string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %s (%s)", d.ws.Config().Workspace.Name, d.actor.Username, d.actor.Role)
	b.WriteString(headerStyle.Render(truncate(header, d.width)))
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(truncate(d.filterLine(), d.width)))
	b.WriteByte('\n')

	rows := d.listHeight()
	d.ensureVisible(rows)
	today := date.Of(d.ws.Now(), d.ws.Location())
	if len(d.tasks) == 0 {
		b.WriteString(dimStyle.Render("  No tasks."))
		b.WriteByte('\n')
		rows--
	}
	for i := d.offset; i < len(d.tasks) && i < d.offset+rows; i++ {
		b.WriteString(d.renderRow(d.tasks[i], i == d.cursor, today))
		b.WriteByte('\n')
	}
	shown := min(len(d.tasks)-d.offset, rows)
	if shown < rows {
		b.WriteString(strings.Repeat("\n", rows-max(shown, 0)))
	}

	b.WriteByte('\n')
	b.WriteString(d.renderStatusBar())
	return b.String()
}

func (d *Dashboard) listHeight() int {
	h := d.height - listChrome
	if d.err != nil {
		h -= errorChrome
	}
	return max(h, 1)
}

func (d *Dashboard) ensureVisible(rows int) {
	if d.cursor < d.offset {
		d.offset = d.cursor
	}
	if d.cursor >= d.offset+rows {
		d.offset = d.cursor - rows + 1
	}
	d.offset = max(d.offset, 0)
}

func (d *Dashboard) filterLine() string {
	status, priority := "all", "all"
	if d.filter.Status != "" {
		status = d.filter.Status.Label()
	}
	if d.filter.Priority != "" {
		priority = d.filter.Priority.Label()
	}
	return fmt.Sprintf(" status: %s  priority: %s  (%d shown)", status, priority, len(d.tasks))
}

// rowPrefixWidth is the width of the columns before the title.
const rowPrefixWidth = 2 + 6 + 18 + 8 + 11 + 8

func (d *Dashboard) renderRow(t task.Task, selected bool, today date.Date) string {
	marker := "  "
	if selected {
		marker = selectedStyle.Render("> ")
	}
	title := t.Title
	if t.IsOverdue(today) {
		title += " (overdue)"
	}
	title = truncate(title, d.width-rowPrefixWidth)
	if t.IsOverdue(today) {
		title = overdueStyle.Render(title)
	}
	return marker +
		padRight(fmt.Sprintf("#%d", t.ID), 6) +
		padRight(output.StatusStyle(t.Status).Render(t.Status.Label()), 18) +
		padRight(output.PriorityStyle(t.Priority).Render(t.Priority.Label()), 8) +
		padRight(t.Assignee, 11) +
		padRight(output.FormatMinutes(t.TimeSpent), 8) +
		title
}

func (d *Dashboard) renderStatusBar() string {
	hints := []string{"↑↓:move", "enter:details"}
	if t, ok := d.selectedTask(); ok {
		for _, a := range lifecycle.Allowed(d.actor, t) {
			if h, ok := actionKeys[a]; ok {
				hints = append(hints, h)
			}
		}
	}
	hints = append(hints, "s/p/f:filter", "q:quit")
	status := statusBarStyle.Render(truncate(" "+strings.Join(hints, " "), d.width))

	if d.err != nil {
		return errorStyle.Render(truncate("Error: "+d.err.Error(), d.width)) + "\n" + status
	}
	if d.notice != "" {
		return noticeStyle.Render(truncate(" "+d.notice, d.width)) + "\n" + status
	}
	return status
}

func (d *Dashboard) viewDetail() string {
	t, ok := d.selectedTask()
	if !ok {
		return d.viewList()
	}
	var b strings.Builder
	output.TaskDetail(&b, t, d.ws.Config().TUI.DescriptionWidth)

	var hints []string
	for _, a := range lifecycle.Allowed(d.actor, t) {
		if h, ok := actionKeys[a]; ok {
			hints = append(hints, h)
		}
	}
	hints = append(hints, "esc:back")
	b.WriteString("\n")
	b.WriteString(d.renderMessage())
	b.WriteString(statusBarStyle.Render(" " + strings.Join(hints, " ")))
	return b.String()
}

func (d *Dashboard) renderMessage() string {
	switch {
	case d.err != nil:
		return errorStyle.Render(truncate("Error: "+d.err.Error(), d.width)) + "\n"
	case d.notice != "":
		return noticeStyle.Render(truncate(" "+d.notice, d.width)) + "\n"
	}
	return ""
}

func (d *Dashboard) viewLogTime() string {
	t, _ := d.selectedTask()
	content := fmt.Sprintf("Log time on #%d: %s", t.ID, t.Title) + "\n\n" +
		d.input.View() + "\n\n" +
		dimStyle.Render("enter:save  esc:cancel")
	return dialogStyle.Render(content)
}

func (d *Dashboard) viewDeleteConfirm() string {
	t, _ := d.selectedTask()
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", t.ID, t.Title) + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
