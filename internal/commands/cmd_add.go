package commands

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
)

type AddCmd struct {
	flags *Flags
	app   *App
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: `tada add <text...>`,
		Description: `Adds a task. Multiple words are joined with spaces, surrounding
whitespace is trimmed. Empty text and text that matches an existing task are rejected.`,
		Action: cmd.run,
	})
	return app
}

// run hands the joined arguments to the controller even when there are none:
// urfave drops blank arguments, and empty text must still fail validation.
func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}

	task, err := cmd.app.Tasks.Add(strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	cmd.app.Theme.OK(cmd.app.Stdout, "added "+task.Text)
	return nil
}
