package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/twiced-technology-gmbh/bugtrack/internal/watcher"
	"github.com/twiced-technology-gmbh/bugtrack/internal/workspace"
)

// watchAndRender re-runs render whenever the snapshot, config or session of
// ws changes, until ctx is canceled.
func watchAndRender(ctx context.Context, ws *workspace.Workspace, render func() error) error {
	w, err := watcher.New(ws.Dir(), ws.Watched, func() {
		clearScreen()
		if renderErr := render(); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
