package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

func TestDetect(t *testing.T) {
	t.Setenv(EnvVar, "compact")

	if got := Detect(true, false, false); got != FormatJSON {
		t.Errorf("--json = %v, want FormatJSON", got)
	}
	if got := Detect(false, true, false); got != FormatTable {
		t.Errorf("--table = %v, want FormatTable", got)
	}
	if got := Detect(false, false, false); got != FormatCompact {
		t.Errorf("env compact = %v, want FormatCompact", got)
	}
	if got := Detect(true, false, true); got != FormatJSON {
		t.Errorf("--json --compact = %v, want FormatJSON", got)
	}

	t.Setenv(EnvVar, " JSON ")
	if got := Detect(false, false, false); got != FormatJSON {
		t.Errorf("env JSON = %v, want FormatJSON", got)
	}
	t.Setenv(EnvVar, "yaml")
	if got := Detect(false, false, false); got != FormatTable {
		t.Errorf("env yaml = %v, want FormatTable", got)
	}
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"coded", clierr.New(clierr.Forbidden, "not yours").WithDetails(map[string]any{"id": 3}), clierr.Forbidden, 1},
		{"wrapped", fmt.Errorf("closing: %w", clierr.New(clierr.TaskNotFound, "task #9 not found")), clierr.TaskNotFound, 1},
		{"plain", errors.New("disk full"), clierr.InternalError, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if got := JSONError(&buf, tt.err); got != tt.wantExit {
				t.Errorf("exit = %d, want %d", got, tt.wantExit)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
				t.Fatalf("decoding %q: %v", buf.String(), err)
			}
			if resp.Code != tt.wantCode || resp.Error == "" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	tests := map[int]string{0: "0m", 45: "45m", 60: "1h", 90: "1h 30m", 605: "10h 5m"}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTrendChartOneBarPerDay(t *testing.T) {
	t.Parallel()

	points := []query.Point{
		{Date: date.New(2025, time.June, 12), Count: 4},
		{Date: date.New(2025, time.June, 13), Count: 1},
		{Date: date.New(2025, time.June, 14), Count: 2},
	}
	var buf bytes.Buffer
	TrendChart(&buf, points, 20)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 bars:\n%s", len(lines), buf.String())
	}
	if n := strings.Count(lines[1], "█"); n != 20 {
		t.Errorf("peak bar has %d cells, want 20", n)
	}
	if n := strings.Count(lines[2], "█"); n != 5 {
		t.Errorf("bar for count 1 has %d cells, want 5", n)
	}
	if !strings.HasPrefix(lines[3], "2025-06-14") || !strings.HasSuffix(lines[3], " 2") {
		t.Errorf("last line = %q", lines[3])
	}
}

func TestTaskCompact(t *testing.T) {
	t.Parallel()

	due := date.New(2025, time.June, 20)
	var buf bytes.Buffer
	TaskCompact(&buf, []task.Task{{
		ID: 7, Title: "Crash on save", Status: task.PendingApproval, Priority: task.High,
		Assignee: "dev1", Tags: []string{"editor"}, Due: &due, TimeSpent: 90,
	}})

	want := "#7 [pending-approval/high] Crash on save @dev1 (editor) due:2025-06-20 time:1h 30m\n"
	if buf.String() != want {
		t.Errorf("TaskCompact = %q, want %q", buf.String(), want)
	}
}

func TestGroupedRenderers(t *testing.T) {
	t.Parallel()

	g := query.GroupBy([]task.Task{
		{ID: 1, Status: task.Open, Priority: task.High, Assignee: "dev1", TimeSpent: 30},
		{ID: 2, Status: task.Closed, Priority: task.Low, Assignee: "dev1", TimeSpent: 60},
		{ID: 3, Status: task.Open, Priority: task.High, Assignee: "dev2"},
	}, "assignee")

	var table bytes.Buffer
	GroupedTable(&table, g)
	if !strings.Contains(table.String(), "dev1 (2 tasks, 1h 30m)") {
		t.Errorf("grouped table:\n%s", table.String())
	}

	var compact bytes.Buffer
	GroupedCompact(&compact, g)
	want := "dev1: 2 open=1 closed=1\ndev2: 1 open=1\n"
	if compact.String() != want {
		t.Errorf("grouped compact = %q, want %q", compact.String(), want)
	}
}
