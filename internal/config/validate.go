package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/hay-kot/criterio"

	"github.com/Makepad-fr/tada/internal/store"
)

var (
	validBackends   = []string{BackendJSON, BackendSQLite, BackendMemory}
	validInserts    = []string{"top", "bottom"}
	validOnCorrupt  = []string{"empty", "error"}
	validThemeNames = []string{"classic", "neon", "mono"}
)

// Validate checks every field and reports all problems at once as
// criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("storage.backend", c.Storage.Backend, oneOf(validBackends)),
		criterio.Run("storage.key", c.Storage.Key, store.ValidateKey),
		criterio.Run("list.insert", c.List.Insert, oneOf(validInserts)),
		criterio.Run("hydration.on_corrupt", c.Hydration.OnCorrupt, oneOf(validOnCorrupt)),
		criterio.Run("theme", c.Theme, oneOf(validThemeNames)),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func oneOf(allowed []string) func(string) error {
	return func(v string) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("must be one of %v, got %q", allowed, v)
		}
		return nil
	}
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
