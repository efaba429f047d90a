// Package config handles bugtrack workspace configuration.
package config

import "github.com/twiced-technology-gmbh/bugtrack/internal/account"

const (
	// DefaultDir is the default workspace directory name.
	DefaultDir = ".bugtrack"
	// DefaultSnapshotFile is the default task snapshot file name.
	DefaultSnapshotFile = "tasks.yml"
	// DefaultPriority is the default priority for new tasks.
	DefaultPriority = "medium"
	// DefaultTimezone is the zone used to bucket the creation trend by day.
	DefaultTimezone = "UTC"
	// DefaultMaxActivity is the activity log size after which the oldest
	// entries are dropped.
	DefaultMaxActivity = 10000
	// DefaultDescriptionWidth is the word-wrap width for rendered descriptions.
	DefaultDescriptionWidth = 80

	// ConfigFileName is the name of the config file within the workspace directory.
	ConfigFileName = "config.yml"

	// EnvPrefix prefixes environment variables that override config keys.
	EnvPrefix = "BUGTRACK"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// DefaultAccounts is the static account table written by init.
var DefaultAccounts = []account.Credential{
	{Account: account.Account{Username: "dev1", Role: account.Developer}, Password: "dev123"},
	{Account: account.Account{Username: "dev2", Role: account.Developer}, Password: "dev234"},
	{Account: account.Account{Username: "dev3", Role: account.Developer}, Password: "dev345"},
	{Account: account.Account{Username: "manager", Role: account.Manager}, Password: "mgr123"},
	{Account: account.Account{Username: "manager2", Role: account.Manager}, Password: "mgr234"},
}
