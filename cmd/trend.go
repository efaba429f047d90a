package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show how many tasks were created per day",
	Long: `Groups the tasks you can see by the calendar day they were created on
(in the configured timezone) and prints one bar per day, oldest first.
Filters narrow the tasks that are counted.`,
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().String("status", "", "count only tasks with this status")
	trendCmd.Flags().String("priority", "", "count only tasks with this priority")
	trendCmd.Flags().BoolP("watch", "w", false, "live-update the chart on workspace changes")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, _ []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	render := func() error { return renderTrend(filter) }
	if err := render(); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	return watchAndRender(cmd.Context(), ws, render)
}

func renderTrend(filter query.Filter) error {
	ws, actor, _, err := openSession()
	if err != nil {
		return err
	}
	tasks, err := visibleTasks(ws, actor, filter)
	if err != nil {
		return err
	}
	points := query.Trend(tasks, ws.Location())

	switch outputFormat() {
	case output.FormatJSON:
		if points == nil {
			points = []query.Point{}
		}
		return output.JSON(os.Stdout, points)
	case output.FormatCompact:
		output.TrendCompact(os.Stdout, points)
	default:
		output.TrendChart(os.Stdout, points, chartWidth())
	}
	return nil
}

// chartWidth is the longest bar that fits beside the date and count columns.
func chartWidth() int {
	const (
		fallback = 40
		labels   = 20 // date, spacing and count
	)
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= labels {
		return fallback
	}
	return min(w-labels, 2*fallback)
}
