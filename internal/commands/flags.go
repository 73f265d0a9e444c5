package commands

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Flags are the global options shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
}

// App is populated by the root Before hook. Commands hold a pointer to it
// from registration time.
type App struct {
	Config *config.Config
	Tasks  *tasks.Controller
	Theme  ui.Theme
	Log    zerolog.Logger

	Stdout io.Writer
	Stderr io.Writer

	closeStore   func() error
	closeLog     func()
	drainTimeout time.Duration
}
