package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".vtconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestConfigFileCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit path missing", func(t *testing.T) {
		check := &ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nonexistent.yaml")}
		result := check.Run(ctx)
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "not found")
	})

	t.Run("no file falls back to defaults", func(t *testing.T) {
		isolate(t)
		result := (&ConfigFileCheck{}).Run(ctx)
		assert.Equal(t, StatusWarn, result.Status)
		assert.Contains(t, result.Suggestion, "vtconsole init")
	})

	t.Run("found", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		result := (&ConfigFileCheck{ConfigPath: path}).Run(ctx)
		assert.Equal(t, StatusPass, result.Status)
		assert.Equal(t, "Config file: .vtconsole.yaml", result.Message)
	})

	t.Run("name and category", func(t *testing.T) {
		check := &ConfigFileCheck{}
		assert.Equal(t, "config_file", check.Name())
		assert.Equal(t, CategoryConfig, check.Category())
	})
}

func TestConfigSchemaCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		path := writeConfig(t, "version: 1\napi:\n  base_url: http://feeder.local:8000\n")
		result := (&ConfigSchemaCheck{ConfigPath: path}).Run(ctx)
		assert.Equal(t, StatusPass, result.Status, result.Message)
		assert.Contains(t, result.Message, "http://feeder.local:8000")
	})

	t.Run("invalid", func(t *testing.T) {
		path := writeConfig(t, "version: 1\nhistory:\n  size: -1\n")
		result := (&ConfigSchemaCheck{ConfigPath: path}).Run(ctx)
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "history.size")
		assert.NotEmpty(t, result.Suggestion)
	})

	t.Run("defaults are valid", func(t *testing.T) {
		isolate(t)
		result := (&ConfigSchemaCheck{}).Run(ctx)
		assert.Equal(t, StatusPass, result.Status, result.Message)
	})

	t.Run("constructor", func(t *testing.T) {
		checks := NewConfigChecks("x.yaml")
		require.Len(t, checks, 2)
		assert.Equal(t, "config_schema", checks[1].Name())
	})
}
