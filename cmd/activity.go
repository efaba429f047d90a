package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/activity"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"history"},
	Short:   "Show recent changes",
	Long: `Lists recent successful changes to the workspace, newest first.
Developers see entries for their own actions; managers see everything.`,
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page size
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	ws, actor, _, err := openSession()
	if err != nil {
		return err
	}

	all, err := ws.Activity().Recent(0)
	if err != nil {
		return err
	}
	entries := make([]activity.Entry, 0, len(all))
	for _, e := range all {
		if !actor.IsManager() && e.Actor != actor.Username {
			continue
		}
		entries = append(entries, e)
		if limit > 0 && len(entries) == limit {
			break
		}
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.ActivityCompact(os.Stdout, entries)
	default:
		output.ActivityTable(os.Stdout, entries)
	}
	return nil
}
