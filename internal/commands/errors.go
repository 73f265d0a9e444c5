package commands

import (
	"errors"
	"fmt"

	"github.com/Makepad-fr/tada/internal/tasks"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitError carries a process exit code. It must not implement cli.ExitCoder,
// urfave exits the process on those.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if tasks.IsValidation(err) {
		return ExitUsage
	}
	return ExitError
}
