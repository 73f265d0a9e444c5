package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Makepad-fr/tada/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *App
}

// NewTuiCmd creates the interactive command. It is the root action rather
// than a registered subcommand.
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Run opens the TUI when stdout is a terminal and prints the list otherwise.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	if !isTerminal(cmd.app.Stdout) {
		if err := cmd.app.hydrate(ctx); err != nil {
			return err
		}
		cmd.app.printList(false)
		return nil
	}

	// hydration happens inside the program so the loading state is visible
	if err := tui.Run(ctx, cmd.app.Tasks, cmd.app.Theme); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
