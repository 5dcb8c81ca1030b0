package ioconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	result, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults", result.Source)
	assert.Empty(t, result.SourcePath)
	assert.Equal(t, "localhost", result.Config.Database.Host)
	assert.Equal(t, 5432, result.Config.Database.Port)
	assert.Equal(t, 100, result.Config.Import.BatchSize)
}

func TestLoadFromFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	content := `
database:
  host: db.example.org
  database: paleo
import:
  batch_size: 25
`
	path := filepath.Join(tempHome, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", result.Source)
	assert.Equal(t, path, result.SourcePath)
	assert.Equal(t, "db.example.org", result.Config.Database.Host)
	assert.Equal(t, "paleo", result.Config.Database.Database)
	assert.Equal(t, 25, result.Config.Import.BatchSize)

	// Unset values fall back to defaults.
	assert.Equal(t, 5432, result.Config.Database.Port)
	assert.Equal(t, "info", result.Config.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("STRATIVERSE_DATABASE_HOST", "env.example.org")

	result, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "defaults+env", result.Source)
	assert.Equal(t, "env.example.org", result.Config.Database.Host)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	_, err := Load(filepath.Join(tempHome, "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	content := `
database:
  ssl_mode: maybe
`
	path := filepath.Join(tempHome, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
