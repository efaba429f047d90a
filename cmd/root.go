// Package cmd implements the bugtrack CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/config"
	"github.com/twiced-technology-gmbh/bugtrack/internal/lifecycle"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/session"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

// version is set at build time via ldflags.
var version = "dev"

// lockTimeout bounds how long a mutating command waits for another one.
const lockTimeout = 5 * time.Second

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "bugtrack",
	Short: "Track bugs and tasks from the terminal",
	Long: `bugtrack is a small bug tracker for a team of developers and managers.
Developers create, edit, close and log time on their own tasks; managers
approve or reopen closed work. Run bugtrack with no arguments to open the
dashboard.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the workspace directory (default: nearest .bugtrack)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	_, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		os.Exit(output.JSONError(os.Stdout, err))
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(2) //nolint:mnd // exit code 2 for internal errors
}

// resolveDir returns the workspace directory from --dir or by searching
// upward from the working directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// openWorkspace finds and opens the workspace.
func openWorkspace() (*workspace.Workspace, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Open(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.Newf(clierr.WorkspaceNotFound, "no bugtrack workspace in %s (run 'bugtrack init')", dir).
			WithDetails(map[string]any{"dir": dir})
	}
	return ws, err
}

// openSession opens the workspace and resolves the logged-in account.
func openSession() (*workspace.Workspace, account.Account, session.Session, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, account.Account{}, session.Session{}, err
	}
	a, s, err := ws.Current()
	if err != nil {
		return nil, account.Account{}, session.Session{}, err
	}
	return ws, a, s, nil
}

// update runs one engine operation against the workspace, waiting at most
// lockTimeout for concurrent commands.
func update(ctx context.Context, ws *workspace.Workspace, sess session.Session, fn func(*lifecycle.Engine) error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	if err := ws.Update(ctx, sess, fn); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("workspace is busy: %w", err)
		}
		return err
	}
	return nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// parseID parses a single task ID argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, task.InvalidIDError(arg)
	}
	return id, nil
}

// parseIDs splits a comma-separated ID string into deduplicated int IDs.
func parseIDs(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		id, err := parseID(p)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidInput, "no valid task IDs provided")
	}
	return ids, nil
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int, fn func(int) (task.Task, error)) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		t, err := fn(id)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
			}
			continue
		}
		results = append(results, output.BatchResult{ID: id, OK: true, Status: string(t.Status)})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
				output.Messagef(os.Stdout, "Task #%d is now %s", r.ID, task.Status(r.Status).Label())
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		if len(ids) > 1 {
			output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
		}
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
