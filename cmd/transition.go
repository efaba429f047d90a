package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var closeCmd = &cobra.Command{
	Use:   "close ID[,ID,...]",
	Short: "Submit a task for approval",
	Long: `Moves an open task you own to pending approval. A manager then approves
or reopens it. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: transitionRunner(lifecycle.Close),
}

var approveCmd = &cobra.Command{
	Use:   "approve ID[,ID,...]",
	Short: "Approve a task pending approval (managers only)",
	Long: `Moves a task from pending approval to closed.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: transitionRunner(lifecycle.Approve),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen ID[,ID,...]",
	Short: "Send a task pending approval back to open (managers only)",
	Long: `Moves a task from pending approval back to open so its assignee can
continue working on it. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: transitionRunner(lifecycle.Reopen),
}

func init() {
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(reopenCmd)
}

// transition returns the engine method performing action.
func transition(e *lifecycle.Engine, action lifecycle.Action) func(account.Account, int) (task.Task, error) {
	switch action {
	case lifecycle.Approve:
		return e.Approve
	case lifecycle.Reopen:
		return e.Reopen
	default:
		return e.Close
	}
}

func transitionRunner(action lifecycle.Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[0])
		if err != nil {
			return err
		}

		ws, actor, sess, err := openSession()
		if err != nil {
			return err
		}

		apply := func(id int) (task.Task, error) {
			var t task.Task
			err := update(cmd.Context(), ws, sess, func(e *lifecycle.Engine) error {
				var err error
				t, err = transition(e, action)(actor, id)
				return err
			})
			return t, err
		}

		if len(ids) > 1 {
			return runBatch(ids, apply)
		}

		t, err := apply(ids[0])
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, t)
		}
		output.Messagef(os.Stdout, "Task #%d is now %s", t.ID, t.Status.Label())
		return nil
	}
}
