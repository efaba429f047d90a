package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of a task you own. Only specified fields are changed.
Status and time spent are changed with close/approve/reopen and log-time.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("description", "d", "", "new description (replaces the old one)")
	editCmd.Flags().String("priority", "", "new priority")
	editCmd.Flags().String("assignee", "", "reassign to another developer")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-due", false, "clear due date")
	editCmd.Flags().StringSlice("add-tag", nil, "add tags")
	editCmd.Flags().StringSlice("remove-tag", nil, "remove tags")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	patch, err := buildPatch(cmd)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return clierr.New(clierr.InvalidInput, "no changes specified")
	}

	ws, actor, sess, err := openSession()
	if err != nil {
		return err
	}

	var edited task.Task
	err = update(cmd.Context(), ws, sess, func(e *lifecycle.Engine) error {
		edited, err = e.Edit(actor, id, patch)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, edited)
	}
	output.Messagef(os.Stdout, "Updated task #%d: %s", edited.ID, edited.Title)
	return nil
}

// buildPatch collects the changed edit flags into a Patch.
func buildPatch(cmd *cobra.Command) (task.Patch, error) {
	var p task.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		p.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		p.Description = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		pr, err := task.ParsePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if flags.Changed("assignee") {
		v, _ := flags.GetString("assignee")
		v = strings.TrimSpace(v)
		p.Assignee = &v
	}

	clearDue, _ := flags.GetBool("clear-due")
	if flags.Changed("due") {
		if clearDue {
			return p, clierr.New(clierr.InvalidInput, "--due and --clear-due are mutually exclusive")
		}
		v, _ := flags.GetString("due")
		d, err := parseDue(v)
		if err != nil {
			return p, err
		}
		p.Due = &d
	}
	p.ClearDue = clearDue

	p.AddTags, _ = flags.GetStringSlice("add-tag")
	p.RemoveTags, _ = flags.GetStringSlice("remove-tag")
	return p, nil
}
