package task

import (
	"strconv"
	"strings"
	"time"
)

// ParseMinutes reads a time delta given either as a plain number of minutes
// ("45") or as a duration ("1h30m"). Durations must be whole minutes. The
// sign is preserved so that callers can report negative deltas themselves.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ValidationError("delta", "time delta is required")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, ValidationError("delta", "time delta must be minutes or a duration like 1h30m, got "+strconv.Quote(s))
	}
	if d%time.Minute != 0 {
		return 0, ValidationError("delta", "time delta must be a whole number of minutes, got "+s)
	}
	return int(d / time.Minute), nil
}
