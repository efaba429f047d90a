package query

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var (
	dev1    = account.Account{Username: "dev1", Role: account.Developer}
	manager = account.Account{Username: "manager", Role: account.Manager}
)

func at(day, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Crash on save", Status: task.Open, Priority: task.High, Assignee: "dev1", Created: at(12, 9), Tags: []string{"editor"}},
		{ID: 2, Title: "Typo in footer", Status: task.Closed, Priority: task.Low, Assignee: "dev2", Created: at(12, 15)},
		{ID: 3, Title: "Slow search", Status: task.PendingApproval, Priority: task.High, Assignee: "dev1", Created: at(14, 8), Description: "Index is rebuilt per query"},
		{ID: 4, Title: "Login loop", Status: task.Open, Priority: task.Medium, Assignee: "dev2", Created: at(13, 23)},
	}
}

func ids(tasks []task.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisibleTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		viewer account.Account
		filter Filter
		want   []int
	}{
		{"manager sees all", manager, Filter{}, []int{1, 2, 3, 4}},
		{"manager status open", manager, Filter{Status: task.Open}, []int{1, 4}},
		{"developer sees own", dev1, Filter{}, []int{1, 3}},
		{"developer high", dev1, Filter{Priority: task.High}, []int{1, 3}},
		{"developer high and open", dev1, Filter{Priority: task.High, Status: task.Open}, []int{1}},
		{"developer filter matching only others", dev1, Filter{Priority: task.Low}, nil},
		{"tag", manager, Filter{Tag: "editor"}, []int{1}},
		{"search description", manager, Filter{Search: "INDEX"}, []int{3}},
		{"unknown role sees nothing", account.Account{Username: "dev1"}, Filter{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(VisibleTasks(sampleTasks(), tt.viewer, tt.filter))
			if !equalInts(got, tt.want) {
				t.Errorf("VisibleTasks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleTasksNeverLeaksOtherAssignees(t *testing.T) {
	t.Parallel()

	filters := []Filter{{}, {Status: task.Open}, {Status: task.Closed}, {Priority: task.Low}, {Search: "o"}}
	for _, f := range filters {
		for _, tk := range VisibleTasks(sampleTasks(), dev1, f) {
			if tk.Assignee != "dev1" {
				t.Errorf("filter %+v leaked task #%d of %s", f, tk.ID, tk.Assignee)
			}
		}
	}
}

func TestTrend(t *testing.T) {
	t.Parallel()

	got := Trend(sampleTasks(), nil)
	want := []struct {
		day   string
		count int
	}{
		{"2025-06-12", 2},
		{"2025-06-13", 1},
		{"2025-06-14", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("Trend = %+v", got)
	}
	for i, w := range want {
		if got[i].Date.String() != w.day || got[i].Count != w.count {
			t.Errorf("point %d = %s:%d, want %s:%d", i, got[i].Date, got[i].Count, w.day, w.count)
		}
	}

	// Task 4 was created at 23:00 UTC on the 13th, which is the 14th in UTC+2.
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	shifted := Trend(sampleTasks(), plus2)
	if last := shifted[len(shifted)-1]; last.Date.String() != "2025-06-14" || last.Count != 2 {
		t.Errorf("last point in UTC+2 = %s:%d, want 2025-06-14:2", last.Date, last.Count)
	}

	if len(Trend(nil, nil)) != 0 {
		t.Error("empty input should give empty trend")
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()
	past := date.New(2025, time.June, 1)
	tasks[0].Due = &past
	tasks[1].Due = &past // closed, not overdue
	tasks[0].TimeSpent = 30
	tasks[2].TimeSpent = 15

	ov := Summary("bugs", tasks, at(15, 12), nil)
	if ov.TotalTasks != 4 || ov.Overdue != 1 || ov.TimeSpent != 45 {
		t.Errorf("overview = %+v", ov)
	}
	if ov.Statuses[0].Status != task.Open || ov.Statuses[0].Count != 2 || ov.Statuses[0].Overdue != 1 {
		t.Errorf("open summary = %+v", ov.Statuses[0])
	}
	if ov.Priorities[2].Priority != task.High || ov.Priorities[2].Count != 2 {
		t.Errorf("high summary = %+v", ov.Priorities[2])
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field   string
		reverse bool
		want    []int
	}{
		{"id", false, []int{1, 2, 3, 4}},
		{"priority", true, []int{1, 3, 4, 2}},
		{"status", false, []int{1, 4, 3, 2}},
		{"created", false, []int{1, 2, 4, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()
			tasks := sampleTasks()
			Sort(tasks, tt.field, tt.reverse)
			if got := ids(tasks); !equalInts(got, tt.want) {
				t.Errorf("Sort(%s, %v) = %v, want %v", tt.field, tt.reverse, got, tt.want)
			}
		})
	}

	if err := ValidateSortField("title"); err == nil {
		t.Error("expected error for unknown sort field")
	}
}

func TestGroupBy(t *testing.T) {
	t.Parallel()

	byPriority := GroupBy(sampleTasks(), "priority")
	var keys []string
	for _, g := range byPriority.Groups {
		keys = append(keys, g.Key)
	}
	if len(keys) != 3 || keys[0] != "high" || keys[2] != "low" {
		t.Errorf("priority groups = %v, want high, medium, low", keys)
	}
	if high := byPriority.Groups[0]; high.Total != 2 || high.Statuses[0].Count != 1 {
		t.Errorf("high group = %+v", high)
	}

	byTag := GroupBy(sampleTasks(), "tag")
	if n := len(byTag.Groups); n != 2 || byTag.Groups[0].Key != "editor" || byTag.Groups[1].Key != untagged {
		t.Errorf("tag groups = %+v", byTag.Groups)
	}

	if err := ValidateGroupField("class"); err == nil {
		t.Error("expected error for unknown group field")
	}
}
