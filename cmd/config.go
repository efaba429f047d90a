package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/config"
	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify workspace configuration",
	Long: `View the effective configuration, get a specific key, or set a writable value.

Values shown include BUGTRACK_* environment overrides (for example
BUGTRACK_TIMEZONE); set always writes config.yml itself.`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"workspace.name": {
			get:      func(c *config.Config) any { return c.Workspace.Name },
			set:      func(c *config.Config, v string) error { c.Workspace.Name = v; return nil },
			writable: true,
		},
		"workspace.description": {
			get:      func(c *config.Config) any { return c.Workspace.Description },
			set:      func(c *config.Config, v string) error { c.Workspace.Description = v; return nil },
			writable: true,
		},
		"snapshot_file": {
			get: func(c *config.Config) any { return c.SnapshotFile },
		},
		"timezone": {
			get:      func(c *config.Config) any { return c.Timezone },
			set:      func(c *config.Config, v string) error { c.Timezone = v; return nil },
			writable: true, // validation checks the zone
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				p, err := task.ParsePriority(v)
				if err != nil {
					return err
				}
				c.Defaults.Priority = string(p)
				return nil
			},
			writable: true,
		},
		"activity.max_entries": {
			get: func(c *config.Config) any { return c.Activity.MaxEntries },
			set: func(c *config.Config, v string) error {
				n, err := parseIntValue("activity.max_entries", v)
				c.Activity.MaxEntries = n
				return err
			},
			writable: true,
		},
		"tui.description_width": {
			get: func(c *config.Config) any { return c.TUI.DescriptionWidth },
			set: func(c *config.Config, v string) error {
				n, err := parseIntValue("tui.description_width", v)
				c.TUI.DescriptionWidth = n
				return err
			},
			writable: true,
		},
		"accounts": {
			get: func(c *config.Config) any {
				out := make([]account.Account, len(c.Accounts))
				for i, cred := range c.Accounts {
					out[i] = cred.Account
				}
				return out
			},
		},
	}
}

func parseIntValue(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be an integer", key, v)
	}
	return n, nil
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"workspace.name",
		"workspace.description",
		"snapshot_file",
		"timezone",
		"defaults.priority",
		"activity.max_entries",
		"tui.description_width",
		"accounts",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	cfg := ws.Config()
	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-22s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}
	val := acc.get(ws.Config())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	dir, err := resolveDir()
	if err != nil {
		return err
	}
	// Edit the file as written so that environment overrides are not persisted.
	cfg, err := config.LoadFile(dir)
	if err != nil {
		return err
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error()).WithDetails(map[string]any{"key": key, "value": value})
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func unknownConfigKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []account.Account:
		parts := make([]string, len(v))
		for i, a := range v {
			parts[i] = a.Username + ":" + string(a.Role)
		}
		return strings.Join(parts, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
