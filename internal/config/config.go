package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no bugtrack workspace found (run 'bugtrack init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the workspace configuration.
type Config struct {
	Version      int                  `yaml:"version" mapstructure:"version"`
	Workspace    WorkspaceConfig      `yaml:"workspace" mapstructure:"workspace"`
	SnapshotFile string               `yaml:"snapshot_file" mapstructure:"snapshot_file"`
	Timezone     string               `yaml:"timezone" mapstructure:"timezone"`
	Defaults     DefaultsConfig       `yaml:"defaults" mapstructure:"defaults"`
	Activity     ActivityConfig       `yaml:"activity" mapstructure:"activity"`
	TUI          TUIConfig            `yaml:"tui" mapstructure:"tui"`
	Accounts     []account.Credential `yaml:"accounts" mapstructure:"accounts"`

	// dir is the absolute path to the workspace directory (not serialized).
	dir string `yaml:"-"`
}

// WorkspaceConfig holds workspace metadata.
type WorkspaceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Description string `yaml:"description,omitempty" mapstructure:"description"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Priority string `yaml:"priority" mapstructure:"priority"`
}

// ActivityConfig bounds the activity log.
type ActivityConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// TUIConfig holds dashboard display settings.
type TUIConfig struct {
	DescriptionWidth int `yaml:"description_width" mapstructure:"description_width"`
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:      CurrentVersion,
		Workspace:    WorkspaceConfig{Name: name},
		SnapshotFile: DefaultSnapshotFile,
		Timezone:     DefaultTimezone,
		Defaults:     DefaultsConfig{Priority: DefaultPriority},
		Activity:     ActivityConfig{MaxEntries: DefaultMaxActivity},
		TUI:          TUIConfig{DescriptionWidth: DefaultDescriptionWidth},
		Accounts:     append([]account.Credential{}, DefaultAccounts...),
	}
}

// Dir returns the absolute path to the workspace directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the workspace directory path on the config.
func (c *Config) SetDir(dir string) { c.dir = dir }

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// SnapshotPath returns the absolute path to the task snapshot.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.dir, c.SnapshotFile)
}

// Location returns the configured time zone. It falls back to UTC for an
// unloadable zone; Validate reports that case.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultPriority returns the parsed default priority for new tasks.
func (c *Config) DefaultPriority() task.Priority {
	p, err := task.ParsePriority(c.Defaults.Priority)
	if err != nil {
		return task.Medium
	}
	return p
}

// Directory builds the account directory from the configured accounts.
func (c *Config) Directory() (*account.Directory, error) {
	d, err := account.NewDirectory(c.Accounts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return d, nil
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Workspace.Name == "" {
		return fmt.Errorf("%w: workspace.name is required", ErrInvalid)
	}
	if c.SnapshotFile == "" || filepath.Base(c.SnapshotFile) != c.SnapshotFile {
		return fmt.Errorf("%w: snapshot_file must be a plain file name, got %q", ErrInvalid, c.SnapshotFile)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		return fmt.Errorf("%w: invalid timezone %q", ErrInvalid, c.Timezone)
	}
	if _, err := task.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("%w: default priority %q is not one of low, medium, high", ErrInvalid, c.Defaults.Priority)
	}
	if c.Activity.MaxEntries < 1 {
		return fmt.Errorf("%w: activity.max_entries must be >= 1", ErrInvalid)
	}
	const minWidth, maxWidth = 20, 200
	if c.TUI.DescriptionWidth < minWidth || c.TUI.DescriptionWidth > maxWidth {
		return fmt.Errorf("%w: tui.description_width must be between %d and %d", ErrInvalid, minWidth, maxWidth)
	}
	return c.validateAccounts()
}

func (c *Config) validateAccounts() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("%w: at least one account is required", ErrInvalid)
	}
	d, err := c.Directory()
	if err != nil {
		return err
	}
	if len(d.Developers()) == 0 {
		return fmt.Errorf("%w: at least one developer account is required", ErrInvalid)
	}
	return nil
}

// Init creates a workspace directory holding a default config. It fails with
// WORKSPACE_EXISTS when a config is already present.
func Init(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.WorkspaceExists, "workspace already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating workspace directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// LoadFile reads the config file exactly as written, migrating it forward
// if needed. Environment overrides are not applied; use it before Save.
func LoadFile(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(absDir, ConfigFileName)) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads, migrates, and validates the config in dir, then applies
// BUGTRACK_* environment overrides (BUGTRACK_TIMEZONE,
// BUGTRACK_DEFAULTS_PRIORITY, ...) through viper.
func Load(dir string) (*Config, error) {
	base, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(base.ConfigPath())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.dir = base.dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}
	return &cfg, nil
}

// FindDir walks upward from startDir looking for a workspace directory
// containing config.yml. Returns the absolute path to the workspace directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the workspace directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.WorkspaceNotFound,
				"no bugtrack workspace found (run 'bugtrack init' to create one)")
		}
		dir = parent
	}
}
