package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/session"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Permanently removes a task you own. Prompts for confirmation in interactive mode.
Deleting a task that does not exist is not an error.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationRequired, "batch delete requires --yes")
	}

	ws, actor, sess, err := openSession()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		return deleteSingleTask(cmd.Context(), ws, actor, sess, ids[0], yes)
	}

	return runBatch(ids, func(id int) (task.Task, error) {
		_, err := executeDelete(cmd.Context(), ws, actor, sess, id)
		return task.Task{ID: id, Status: "deleted"}, err
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(ctx context.Context, ws *workspace.Workspace, actor account.Account, sess session.Session, id int, yes bool) error {
	s, err := ws.Load()
	if err != nil {
		return err
	}
	t, err := s.Get(id)
	if err != nil && !clierr.Is(err, clierr.TaskNotFound) {
		return err
	}
	found := err == nil

	// Require confirmation in TTY mode unless --yes.
	if found && !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationRequired,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%d %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	deleted, err := executeDelete(ctx, ws, actor, sess, id)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		status := "deleted"
		if !deleted {
			status = "absent"
		}
		return output.JSON(os.Stdout, map[string]any{
			"status": status,
			"id":     id,
			"title":  t.Title,
		})
	}

	if !deleted {
		output.Messagef(os.Stdout, "Task #%d does not exist; nothing to delete", id)
		return nil
	}
	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Title)
	return nil
}

// executeDelete removes one task through the engine and reports whether it existed.
func executeDelete(ctx context.Context, ws *workspace.Workspace, actor account.Account, sess session.Session, id int) (bool, error) {
	var deleted bool
	err := update(ctx, ws, sess, func(e *lifecycle.Engine) error {
		var err error
		deleted, err = e.Delete(actor, id)
		return err
	})
	return deleted, err
}
