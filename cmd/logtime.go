package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var logTimeCmd = &cobra.Command{
	Use:     "log-time ID DELTA",
	Aliases: []string{"log"},
	Short:   "Add time spent to a task",
	Long: `Adds DELTA to the time spent on a task you own. DELTA is a number of
minutes (45) or a duration (1h30m). Time can only be added, never removed.
Flags must come before ID.`,
	Example: `  bugtrack log-time 3 45
  bugtrack log-time 3 1h30m`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id and delta
	RunE: runLogTime,
}

func init() {
	// DELTA may start with "-"; it must reach validation instead of the flag parser.
	logTimeCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(logTimeCmd)
}

func runLogTime(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	delta, err := task.ParseMinutes(args[1])
	if err != nil {
		return err
	}

	ws, actor, sess, err := openSession()
	if err != nil {
		return err
	}

	var t task.Task
	err = update(cmd.Context(), ws, sess, func(e *lifecycle.Engine) error {
		t, err = e.LogTime(actor, id, delta)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Logged %s on task #%d (total %s)",
		output.FormatMinutes(delta), t.ID, output.FormatMinutes(t.TimeSpent))
	return nil
}
