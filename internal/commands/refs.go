package commands

import (
	"strconv"

	"github.com/Makepad-fr/tada/internal/model"
)

// resolveRef finds a task by 1-based position or by id.
func resolveRef(all []model.Task, ref string) (model.Task, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(all) {
			return model.Task{}, usageErrorf("index out of range: have %d, got %d (run 'tada ls' to see valid indexes)", len(all), n)
		}
		return all[n-1], nil
	}
	for _, t := range all {
		if t.ID == ref {
			return t, nil
		}
	}
	return model.Task{}, usageErrorf("no task with id %q", ref)
}

// singleRef returns the only positional argument.
func singleRef(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", usageErrorf("usage: %s", usage)
	}
	return args[0], nil
}
