// Package output renders bugtrack results as tables, JSON or compact lines.
package output

import (
	"os"
	"strings"
)

// Format is how command results are written to stdout.
type Format int

// Formats. FormatAuto is never returned by Detect.
const (
	FormatAuto Format = iota
	FormatJSON
	FormatTable
	FormatCompact
)

// EnvVar selects the output format when no flag is given.
const EnvVar = "BUGTRACK_OUTPUT"

// ParseFormat maps a format name to a Format. It accepts any casing and
// "oneline" as a synonym for compact.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	case "compact", "oneline":
		return FormatCompact, true
	}
	return FormatAuto, false
}

// Detect picks the output format. --json wins over --compact, which wins
// over --table. Without a flag, BUGTRACK_OUTPUT decides; an unset or
// unrecognized value means table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvVar)); ok {
		return f
	}
	return FormatTable
}
