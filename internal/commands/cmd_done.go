package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

type DoneCmd struct {
	flags *Flags
	app   *App
}

// NewDoneCmd creates a new done command
func NewDoneCmd(flags *Flags, app *App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done command to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "done",
		Usage:     "Toggle a task between done and pending",
		UsageText: "tada done <ref>",
		Action:    cmd.run,
	})
	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	ref, err := singleRef(c.Args().Slice(), "tada done <ref>")
	if err != nil {
		return err
	}
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}

	task, err := resolveRef(cmd.app.Tasks.Tasks(), ref)
	if err != nil {
		return err
	}
	if err := cmd.app.Tasks.ToggleCompletion(task.ID); err != nil {
		return err
	}

	if task.Completed {
		cmd.app.Theme.OK(cmd.app.Stdout, "reopened "+task.Text)
	} else {
		cmd.app.Theme.OK(cmd.app.Stdout, "done "+task.Text)
	}
	return nil
}
