package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the workspace accounts and their roles",
	Args:  cobra.NoArgs,
	RunE:  runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func runAccounts(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	// Listing works without a session; the current account is highlighted.
	var current string
	if a, _, err := ws.Current(); err == nil {
		current = a.Username
	}

	accounts := ws.Accounts().Accounts()
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, accounts)
	}
	output.AccountTable(os.Stdout, accounts, current)
	return nil
}
