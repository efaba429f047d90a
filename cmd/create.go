package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/date"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add", "new"},
	Short:   "Create a new task",
	Long: `Creates a new task assigned to you or to another developer.

Title can be provided as a positional argument or via --title flag.
Only developers can create tasks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().StringP("description", "d", "", "task description (markdown)")
	createCmd.Flags().String("priority", "", "task priority: low, medium, high (default from config)")
	createCmd.Flags().String("assignee", "", "developer to assign (default: yourself)")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tag":
			name = "tags"
		case "body":
			name = "description"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	ws, actor, sess, err := openSession()
	if err != nil {
		return err
	}

	in := task.Input{Title: title, Priority: ws.Config().DefaultPriority()}
	if err := applyCreateFlags(cmd, &in); err != nil {
		return err
	}

	var created task.Task
	err = update(cmd.Context(), ws, sess, func(e *lifecycle.Engine) error {
		created, err = e.Create(actor, in)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", created.ID, created.Title)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s | Assignee: %s",
		created.Status.Label(), created.Priority.Label(), created.Assignee)
	if len(created.Tags) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(created.Tags, ", "))
	}
	if created.Due != nil {
		output.Messagef(os.Stdout, "  Due: %s", created.Due)
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", task.ValidationError("title", "title is required: provide it as an argument or with --title")
	}
}

func applyCreateFlags(cmd *cobra.Command, in *task.Input) error {
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		in.Description = v
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			return err
		}
		in.Priority = p
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		in.Assignee = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		d, err := parseDue(v)
		if err != nil {
			return err
		}
		in.Due = &d
	}
	if v, _ := cmd.Flags().GetStringSlice("tags"); len(v) > 0 {
		in.Tags = v
	}
	return nil
}

// parseDue parses a due date flag value.
func parseDue(v string) (date.Date, error) {
	d, err := date.Parse(strings.TrimSpace(v))
	if err != nil {
		return date.Date{}, task.ValidationError("due", err.Error())
	}
	return d, nil
}
