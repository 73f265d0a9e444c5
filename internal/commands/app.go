// Package commands wires the tada command line: global flags, the store and
// controller lifecycle, and one command per task operation.
package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/pkg/logutils"
)

// Version is reported by --version. Set by main.
var Version = "dev"

// defaultDrainTimeout bounds how long shutdown waits for queued writes.
const defaultDrainTimeout = 5 * time.Second

// Run executes the command line in args (args[0] is the program name) and
// returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := &Flags{}
	app := &App{Stdout: stdout, Stderr: stderr, drainTimeout: defaultDrainTimeout}

	root := newRoot(flags, app)
	err := root.Run(ctx, args)
	if err != nil {
		theme := app.Theme
		if theme.Name == "" {
			theme = ui.New("classic", lipgloss.NewRenderer(stderr))
		}
		theme.Fail(stderr, err.Error())
	}
	return exitCode(err)
}

func newRoot(flags *Flags, app *App) *cli.Command {
	root := &cli.Command{
		Name:      "tada",
		Usage:     "A tiny task list for your terminal",
		UsageText: "tada [global options] [command [command options]]",
		Description: `Run 'tada' with no arguments to open the interactive list.
Tasks are referenced by their 1-based position in 'tada ls' or by id.`,
		Version:         Version,
		Writer:          app.Stdout,
		ErrWriter:       app.Stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, disabled)",
				Sources:     cli.EnvVars("TADA_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tada.log)",
				Sources:     cli.EnvVars("TADA_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TADA_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TADA_DATA_DIR"),
				Value:       config.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, app.setup(ctx, flags)
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return app.teardown()
		},
		OnUsageError: func(ctx context.Context, c *cli.Command, err error, isSubcommand bool) error {
			return &exitError{code: ExitUsage, err: err}
		},
		// errors are reported by Run
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	tuiCmd := NewTuiCmd(flags, app)

	root = NewAddCmd(flags, app).Register(root)
	root = NewLsCmd(flags, app).Register(root)
	root = NewDoneCmd(flags, app).Register(root)
	root = NewEditCmd(flags, app).Register(root)
	root = NewRmCmd(flags, app).Register(root)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return usageErrorf("unknown command %q. Run 'tada --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}

// setup runs before any command: logger, config, store, controller.
func (a *App) setup(ctx context.Context, flags *Flags) error {
	logFile := flags.LogFile
	if logFile == "" {
		logFile = filepath.Join(flags.DataDir, "tada.log")
	}
	logger, closer, err := logutils.New(flags.LogLevel, logFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger
	a.closeLog = closer
	a.Log = logger

	cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
	if err != nil {
		return &exitError{code: ExitUsage, err: fmt.Errorf("load config: %w", err)}
	}
	a.Config = cfg
	a.Theme = ui.New(cfg.Theme, lipgloss.NewRenderer(a.Stdout))

	s, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.closeStore = closeStore

	insert := tasks.InsertTop
	if cfg.List.Insert == "bottom" {
		insert = tasks.InsertBottom
	}
	onCorrupt := tasks.CorruptEmpty
	if cfg.Hydration.OnCorrupt == "error" {
		onCorrupt = tasks.CorruptError
	}

	a.Tasks = tasks.New(s,
		tasks.WithKey(cfg.Storage.Key),
		tasks.WithInsert(insert),
		tasks.WithCorruptPolicy(onCorrupt),
		tasks.WithLogger(logger.With().Str("component", "tasks").Logger()),
	)

	logger.Debug().
		Str("backend", cfg.Storage.Backend).
		Str("data_dir", cfg.DataDir).
		Msg("tada started")
	return nil
}

// teardown drains pending writes, then closes the store and the log file.
// The store stays open when the drain timed out: a write may still be using it.
func (a *App) teardown() error {
	var (
		failed  int64
		drained = true
	)
	if a.Tasks != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.drainTimeout)
		defer cancel()
		if err := a.Tasks.Close(ctx); err != nil {
			drained = false
			log.Error().Err(err).Msg("failed to drain pending writes, leaving store open")
		}
		failed = a.Tasks.WriteFailures()
	}

	if a.closeStore != nil && drained {
		if err := a.closeStore(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}

	if a.closeLog != nil {
		a.closeLog()
	}

	if !drained {
		return fmt.Errorf("pending changes were not saved within %s", a.drainTimeout)
	}
	if failed > 0 {
		return fmt.Errorf("%d change(s) could not be saved, see the log file", failed)
	}
	return nil
}

// hydrate loads the task list for one-shot commands.
func (a *App) hydrate(ctx context.Context) error {
	if err := a.Tasks.Hydrate(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		s, err := sqlitestore.Open(ctx, cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendMemory:
		return memstore.New(), noop, nil
	default:
		return jsonstore.New(cfg.DataDir), noop, nil
	}
}
