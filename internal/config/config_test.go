package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
project:
  root: ./demo
explorer:
  paths:
    - catalogs/core.yaml
    - catalogs/extra
grapher:
  max_depth: 6
  max_elements: 50
storage:
  path: runs.db
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "./demo", cfg.Project.Root)
	assert.Equal(t, []string{"catalogs/core.yaml", "catalogs/extra"}, cfg.Explorer.Paths)
	assert.Equal(t, 6, cfg.Grapher.MaxDepth)
	assert.Equal(t, 50, cfg.Grapher.MaxElements)
	assert.Equal(t, "runs.db", cfg.Storage.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TYPESCOPE_DB", "override.db")
	t.Setenv("TYPESCOPE_MAX_DEPTH", "3")
	t.Setenv("TYPESCOPE_MAX_ELEMENTS", "25")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "override.db", cfg.Storage.Path)
	assert.Equal(t, 3, cfg.Grapher.MaxDepth)
	assert.Equal(t, 25, cfg.Grapher.MaxElements)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
