package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const maxTextWidth = 80

type LsCmd struct {
	flags *Flags
	app   *App

	// flags
	group      bool
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "tada ls [--group] [--json]",
		Description: `Shows the task list with a done/pending summary and a progress bar.
Indexes shown here are the <ref> values accepted by done, edit and rm.

Use --json to print the stored representation instead.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "group",
				Usage:       "group tasks by pending/done",
				Destination: &cmd.group,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the list as a JSON array",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 0 {
		return usageErrorf("usage: tada ls [--group] [--json]")
	}
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}

	if cmd.jsonOutput {
		out, err := model.Encode(cmd.app.Tasks.Tasks())
		if err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		_, err = fmt.Fprintln(cmd.app.Stdout, out)
		return err
	}

	cmd.app.printList(cmd.group)
	return nil
}

// printList draws the summary panel for the current tasks.
func (a *App) printList(group bool) {
	all := a.Tasks.Tasks()
	done, pending := a.Tasks.Stats()
	th := a.Theme

	lines := []string{
		th.Header(done, pending),
		th.Muted.Render(ui.ProgressBar(done, done+pending, 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(th, all)...)
	} else {
		lines = append(lines, flatLines(th, all, nil)...)
	}
	lines = append(lines, "", th.Muted.Render(`Tip: add with 'tada add "Buy milk"'`))
	th.Panel(a.Stdout, lines)
}

// flatLines renders one line per task selected by keep; nil keeps all.
// Numbering always follows the full list so it stays a valid ref.
func flatLines(th ui.Theme, all []model.Task, keep func(model.Task) bool) []string {
	var out []string
	for i, t := range all {
		if keep != nil && !keep(t) {
			continue
		}
		box := th.Muted.Render(th.Box(false))
		if t.Completed {
			box = th.Success.Render(th.Box(true))
		}
		out = append(out, fmt.Sprintf("%s %s %s", th.Muted.Render(fmt.Sprintf("%2d.", i+1)), box, truncate(t.Text, maxTextWidth)))
	}
	if len(out) == 0 {
		return []string{th.Muted.Render("no tasks")}
	}
	return out
}

func groupLines(th ui.Theme, all []model.Task) []string {
	var lines []string
	lines = append(lines, th.Accent.Render("Pending"))
	lines = append(lines, flatLines(th, all, func(t model.Task) bool { return !t.Completed })...)
	lines = append(lines, "", th.Accent.Render("Done"))
	lines = append(lines, flatLines(th, all, func(t model.Task) bool { return t.Completed })...)
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

