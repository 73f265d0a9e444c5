package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

type RmCmd struct {
	flags *Flags
	app   *App
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Remove a task",
		UsageText: "tada rm <ref>",
		Action:    cmd.run,
	})
	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	ref, err := singleRef(c.Args().Slice(), "tada rm <ref>")
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
	if err := cmd.app.Tasks.Delete(task.ID); err != nil {
		return err
	}
	cmd.app.Theme.OK(cmd.app.Stdout, "removed "+task.Text)
	return nil
}
