package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	if err := ws.Logout(); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"status": "logged-out"})
	}
	output.Messagef(os.Stdout, "Logged out")
	return nil
}
