package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insight init")
}

func TestWriteDefaultAndLoad(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, DefaultConfigDir, DefaultDBFile), cfg.DBPath(dir))
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	require.Error(t, WriteDefault(dir))
}

func TestLoad_ExplicitValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := "sqlite:\n  path: /tmp/custom.db\nlog:\n  level: debug\n  development: true\n"
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath(dir))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	t.Setenv("INSIGHT_DB_PATH", "/tmp/env.db")
	t.Setenv("INSIGHT_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath(dir))
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	cfg.SQLite.Path = "/tmp/moved.db"
	cfg.Log.Level = "debug"
	cfg.Log.Development = true

	require.NoError(t, Write(dir, cfg))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/moved.db", reloaded.DBPath(dir))
	assert.Equal(t, "debug", reloaded.Log.Level)
	assert.True(t, reloaded.Log.Development)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger(LogConfig{Level: "nope"})
	require.Error(t, err)
}
