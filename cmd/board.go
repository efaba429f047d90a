package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show a summary of your visible tasks",
	Long: `Displays task counts per status and priority, overdue counts and total
time logged, over the tasks you can see. --group-by splits the counts by
assignee, tag, priority or status.

Use --watch to keep the display live-updating. The summary re-renders
automatically whenever the workspace changes on disk. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().BoolP("watch", "w", false, "live-update the summary on workspace changes")
	boardCmd.Flags().String("group-by", "", "group summary by field ("+strings.Join(query.GroupFields(), ", ")+")")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" {
		if err := query.ValidateGroupField(groupBy); err != nil {
			return err
		}
	}

	render := func() error { return renderBoard(groupBy) }
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

// renderBoard reopens the workspace so that config and session changes are
// picked up between renders.
func renderBoard(groupBy string) error {
	ws, actor, _, err := openSession()
	if err != nil {
		return err
	}
	tasks, err := visibleTasks(ws, actor, query.Filter{})
	if err != nil {
		return err
	}

	if groupBy != "" {
		return renderGroupedBoard(tasks, groupBy)
	}

	title := ws.Config().Workspace.Name + " (" + actor.Username + ")"
	summary := query.Summary(title, tasks, ws.Now(), ws.Location())

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, summary)
	}
	if format == output.FormatCompact {
		output.OverviewCompact(os.Stdout, summary)
		return nil
	}

	output.OverviewTable(os.Stdout, summary)
	return nil
}

func renderGroupedBoard(tasks []task.Task, groupBy string) error {
	grouped := query.GroupBy(tasks, groupBy)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, grouped)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, grouped)
	default:
		output.GroupedTable(os.Stdout, grouped)
	}
	return nil
}
