package config

import "fmt"

// migrate upgrades a config from its version to CurrentVersion, one step at a
// time. It fails for versions newer than this binary understands.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade bugtrack)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}
	return nil
}

// migrations maps each version to the function that moves it one version
// forward. Each function must increment cfg.Version.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrateV1ToV2 adds the timezone, the activity log bound and the TUI section.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.Activity.MaxEntries == 0 {
		cfg.Activity.MaxEntries = DefaultMaxActivity
	}
	if cfg.TUI.DescriptionWidth == 0 {
		cfg.TUI.DescriptionWidth = DefaultDescriptionWidth
	}
	cfg.Version = 2
	return nil
}
