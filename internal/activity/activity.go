// Package activity records successful task mutations in an append-only
// JSONL log inside the workspace directory.
package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileName is the activity log file name within the workspace directory.
	FileName = "activity.jsonl"

	fileMode = 0o600
)

// Entry is a single activity log line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session,omitempty"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id"`
	Detail    string    `json:"detail,omitempty"`
}

// Log appends entries to the activity file of one workspace.
type Log struct {
	path       string
	maxEntries int
}

// New returns a Log writing to dir/activity.jsonl that keeps at most
// maxEntries lines.
func New(dir string, maxEntries int) *Log {
	return &Log{path: filepath.Join(dir, FileName), maxEntries: maxEntries}
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Append writes one entry. When the log grows past its bound the oldest
// entries are dropped.
func (l *Log) Append(e Entry) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // path inside workspace dir
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling activity entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing activity entry: %w", err)
	}

	// Truncation is best-effort.
	_ = l.truncateIfNeeded()
	return nil
}

func (l *Log) truncateIfNeeded() error {
	lines, err := readLines(l.path)
	if err != nil {
		return err
	}
	if l.maxEntries <= 0 || len(lines) <= l.maxEntries {
		return nil
	}
	lines = lines[len(lines)-l.maxEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(l.path, []byte(buf.String()), fileMode)
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
// Malformed lines are skipped.
func (l *Log) Recent(limit int) ([]Entry, error) {
	lines, err := readLines(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	var out []Entry
	for i := len(lines) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(lines[i]), &e); err != nil {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path inside workspace dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
