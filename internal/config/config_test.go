package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/twiced-technology-gmbh/bugtrack/internal/account"
	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/bugtrack/internal/task"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := NewDefault("bugs")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	d, err := cfg.Directory()
	if err != nil {
		t.Fatalf("Directory failed: %v", err)
	}
	if got := len(d.Developers()); got != 3 {
		t.Errorf("default developers = %d, want 3", got)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"priority", func(c *Config) { c.Defaults.Priority = "urgent" }},
		{"role", func(c *Config) { c.Accounts[0].Role = "admin" }},
		{"duplicate username", func(c *Config) { c.Accounts[1].Username = c.Accounts[0].Username }},
		{"no developers", func(c *Config) {
			c.Accounts = []account.Credential{{Account: account.Account{Username: "m", Role: account.Manager}}}
		}},
		{"snapshot path", func(c *Config) { c.SnapshotFile = "../tasks.yml" }},
		{"max entries", func(c *Config) { c.Activity.MaxEntries = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefault("bugs")
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestInitAndLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), DefaultDir)
	if _, err := Init(dir, "bugs"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := Init(dir, "bugs"); !clierr.Is(err, clierr.WorkspaceExists) {
		t.Errorf("second Init = %v, want WORKSPACE_EXISTS", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Workspace.Name != "bugs" || cfg.Dir() != dir {
		t.Errorf("loaded config = %+v (dir %s)", cfg, cfg.Dir())
	}
	if len(cfg.Accounts) != len(DefaultAccounts) || cfg.Accounts[3].Role != account.Manager {
		t.Errorf("accounts = %+v", cfg.Accounts)
	}
	if cfg.Accounts[0].Password != "dev123" {
		t.Errorf("password not decoded: %+v", cfg.Accounts[0])
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)
	if _, err := Init(dir, "bugs"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	t.Setenv("BUGTRACK_TIMEZONE", "Europe/Berlin")
	t.Setenv("BUGTRACK_DEFAULTS_PRIORITY", "high")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("timezone = %q, want Europe/Berlin", cfg.Timezone)
	}
	if cfg.DefaultPriority() != task.High {
		t.Errorf("default priority = %q, want high", cfg.DefaultPriority())
	}

	raw, err := LoadFile(dir)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if raw.Timezone != DefaultTimezone {
		t.Errorf("LoadFile applied env override: %q", raw.Timezone)
	}
}

func TestLoadMigratesV1(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v1 := `version: 1
workspace:
  name: legacy
snapshot_file: tasks.yml
defaults:
  priority: low
accounts:
  - username: dev1
    role: developer
    password: dev123
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(dir)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Version != CurrentVersion || cfg.Timezone != DefaultTimezone || cfg.Activity.MaxEntries != DefaultMaxActivity {
		t.Errorf("migrated config = %+v", cfg)
	}

	// The migration is persisted.
	again, err := LoadFile(dir)
	if err != nil || again.Version != CurrentVersion {
		t.Errorf("reload after migration = %+v, %v", again, err)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(dir); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadFile = %v, want ErrInvalid", err)
	}
}

func TestFindDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := filepath.Join(root, DefaultDir)
	if _, err := Init(ws, "bugs"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := FindDir(nested)
	if err != nil {
		t.Fatalf("FindDir failed: %v", err)
	}
	if got != ws {
		t.Errorf("FindDir = %s, want %s", got, ws)
	}
}
