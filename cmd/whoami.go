package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(_ *cobra.Command, _ []string) error {
	_, a, s, err := openSession()
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, map[string]any{
			"username": a.Username,
			"role":     a.Role,
			"session":  s.ID,
			"login_at": s.LoginAt,
		})
	case output.FormatCompact:
		output.Messagef(os.Stdout, "%s %s", a.Username, a.Role)
	default:
		output.Messagef(os.Stdout, "%s (%s), logged in %s", a.Username, a.Role, s.LoginAt.Format("2006-01-02 15:04"))
	}
	return nil
}
