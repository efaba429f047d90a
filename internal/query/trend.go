package query

import (
	"slices"
	"time"

	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

// Point is the number of tasks created on one calendar day.
type Point struct {
	Date  date.Date `json:"date"`
	Count int       `json:"count"`
}

// Trend groups tasks by the calendar day of their creation time in loc and
// returns one point per day, oldest first. A nil loc means UTC.
func Trend(tasks []task.Task, loc *time.Location) []Point {
	byDay := make(map[string]*Point)
	for _, t := range tasks {
		d := date.Of(t.Created, loc)
		p, ok := byDay[d.String()]
		if !ok {
			p = &Point{Date: d}
			byDay[d.String()] = p
		}
		p.Count++
	}

	out := make([]Point, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b Point) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out
}
