package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/config"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new bugtrack workspace",
	Long: `Creates a .bugtrack directory with config.yml, the default accounts and an
empty task snapshot.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "workspace name (defaults to current directory name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	ws, err := workspace.Init(dir, name)
	if err != nil {
		return err
	}
	cfg := ws.Config()

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":   "initialized",
			"dir":      ws.Dir(),
			"name":     name,
			"config":   cfg.ConfigPath(),
			"snapshot": cfg.SnapshotPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized workspace %q in %s", name, ws.Dir())
	output.Messagef(os.Stdout, "  Config:   %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Snapshot: %s", cfg.SnapshotPath())
	output.Messagef(os.Stdout, "  Hint:     log in with: bugtrack login dev1")
	return nil
}
