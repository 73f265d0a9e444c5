package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, "tasks", cfg.Storage.Key)
	assert.Equal(t, "top", cfg.List.Insert)
	assert.Equal(t, "empty", cfg.Hydration.OnCorrupt)
}

func TestLoad_OverridesAndPartialDefaults(t *testing.T) {
	p := writeConfig(t, `
storage:
  backend: sqlite
list:
  insert: bottom
theme: mono
`)
	cfg, err := Load(p, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "tasks", cfg.Storage.Key, "unset key keeps its default")
	assert.Equal(t, "bottom", cfg.List.Insert)
	assert.Equal(t, "empty", cfg.Hydration.OnCorrupt)
	assert.Equal(t, "mono", cfg.Theme)
}

func TestLoad_DataDirNotFromFile(t *testing.T) {
	p := writeConfig(t, "theme: neon\n")
	dataDir := t.TempDir()

	cfg, err := Load(p, dataDir)
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_MalformedYAML(t *testing.T) {
	p := writeConfig(t, "storage: [unclosed\n")
	_, err := Load(p, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	p := writeConfig(t, `
storage:
  backend: redis
  key: ../etc
list:
  insert: middle
hydration:
  on_corrupt: panic
theme: rainbow
`)
	_, err := Load(p, t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 5)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"storage.backend", "storage.key", "list.insert", "hydration.on_corrupt", "theme",
	}, fields)
}

func TestValidate_DataDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := DefaultConfig()
	cfg.DataDir = file

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.Validate(), &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
}

func TestDefaultPaths_HonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, "/xdg/config/tada/config.yaml", DefaultConfigPath())
	assert.Equal(t, "/xdg/data/tada", DefaultDataDir())
}
