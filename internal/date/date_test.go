package date

import (
	"testing"
	"time"
)

func TestOfUsesLocationCalendarDay(t *testing.T) {
	t.Parallel()

	// 23:30 UTC on June 12 is already June 13 in UTC+2.
	ts := time.Date(2025, time.June, 12, 23, 30, 0, 0, time.UTC)
	plus2 := time.FixedZone("UTC+2", 2*60*60)

	if got := Of(ts, nil).String(); got != "2025-06-12" {
		t.Errorf("Of(ts, nil) = %s, want 2025-06-12", got)
	}
	if got := Of(ts, plus2).String(); got != "2025-06-13" {
		t.Errorf("Of(ts, UTC+2) = %s, want 2025-06-13", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	d, err := Parse("2025-06-14")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !d.Equal(New(2025, time.June, 14)) {
		t.Errorf("Parse = %s, want 2025-06-14", d)
	}
	if _, err := Parse("14/06/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if !New(2025, time.June, 13).Before(d) {
		t.Error("June 13 should be before June 14")
	}
}
