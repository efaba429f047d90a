package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/bugtrack/internal/tui"
	"github.com/twiced-technology-gmbh/bugtrack/internal/watcher"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Long: `Opens a live dashboard of your visible tasks. Tasks can be closed, approved,
reopened, time-logged and deleted from the keyboard; the list refreshes when
other commands change the workspace.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ws, actor, sess, err := openSession()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := tui.New(ctx, ws, actor, sess)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go startTUIWatcher(ctx, ws, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, ws *workspace.Workspace, p *tea.Program) {
	w, err := watcher.New(ws.Dir(), ws.Watched, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		p.Send(tui.ErrorMsg{Err: err}) // non-fatal: the dashboard works without live refresh
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		p.Send(tui.ErrorMsg{Err: err})
	})
}
