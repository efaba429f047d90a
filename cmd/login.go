package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/bugtrack/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login USERNAME",
	Short: "Log in as one of the workspace accounts",
	Long: `Checks the username and password against the accounts in config.yml and
remembers the account for later commands. Without --password the password is
read from the terminal (hidden) or from the first line of stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringP("password", "p", "", "account password")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	password, _ := cmd.Flags().GetString("password")
	if !cmd.Flags().Changed("password") {
		password, err = readPassword()
		if err != nil {
			return err
		}
	}

	a, s, err := ws.Login(strings.TrimSpace(args[0]), password)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"username": a.Username,
			"role":     a.Role,
			"session":  s.ID,
			"login_at": s.LoginAt,
		})
	}
	output.Messagef(os.Stdout, "Logged in as %s (%s)", a.Username, a.Role)
	return nil
}

// readPassword prompts on a terminal without echo, or reads one line when
// stdin is piped.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
