package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/query"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists the tasks you can see: managers see every task, developers see the
tasks assigned to them. Filters are combined; tasks keep creation order unless
--sort is given.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("status", "", "filter by status")
	listCmd.Flags().String("priority", "", "filter by priority")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title, description, or tags (case-insensitive)")
	listCmd.Flags().Bool("overdue", false, "show only overdue tasks")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(query.SortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	sortBy, _ := cmd.Flags().GetString("sort")
	if sortBy != "" {
		if err := query.ValidateSortField(sortBy); err != nil {
			return err
		}
	}
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	overdue, _ := cmd.Flags().GetBool("overdue")

	ws, actor, _, err := openSession()
	if err != nil {
		return err
	}
	tasks, err := visibleTasks(ws, actor, filter)
	if err != nil {
		return err
	}

	if overdue {
		today := date.Of(ws.Now(), ws.Location())
		kept := tasks[:0]
		for _, t := range tasks {
			if t.IsOverdue(today) {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}
	if sortBy != "" {
		query.Sort(tasks, sortBy, reverse)
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	return outputTaskList(tasks)
}

// filterFromFlags builds a query filter from the shared --status, --priority,
// --tag and --search flags. Flags a command does not define are ignored.
func filterFromFlags(cmd *cobra.Command) (query.Filter, error) {
	var f query.Filter
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		s, err := task.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = s
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			return f, err
		}
		f.Priority = p
	}
	f.Tag, _ = cmd.Flags().GetString("tag")
	f.Search, _ = cmd.Flags().GetString("search")
	return f, nil
}

// visibleTasks loads the snapshot and returns what actor may see through f.
func visibleTasks(ws *workspace.Workspace, actor account.Account, f query.Filter) ([]task.Task, error) {
	s, err := ws.Load()
	if err != nil {
		return nil, err
	}
	return query.VisibleTasks(s.All(), actor, f), nil
}

func outputTaskList(tasks []task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks)
	return nil
}
