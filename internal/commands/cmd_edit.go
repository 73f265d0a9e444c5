package commands

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
)

type EditCmd struct {
	flags *Flags
	app   *App
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Replace a task's text",
		UsageText: "tada edit <ref> <text...>",
		Description: `Replaces the text of a task, keeping its id and completion state.
Empty text is rejected. Text matching another task is allowed.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	// blank text arguments are dropped by urfave, so only the ref is required
	// and a missing text is rejected by CommitEdit
	args := c.Args().Slice()
	if len(args) == 0 {
		return usageErrorf("usage: tada edit <ref> <text...>")
	}
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}

	ctrl := cmd.app.Tasks
	task, err := resolveRef(ctrl.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := ctrl.BeginEdit(task.ID); err != nil {
		return err
	}
	ctrl.SetEditBuffer(strings.Join(args[1:], " "))

	updated, err := ctrl.CommitEdit()
	if err != nil {
		ctrl.CancelEdit()
		return err
	}
	cmd.app.Theme.OK(cmd.app.Stdout, "updated "+updated.Text)
	return nil
}
