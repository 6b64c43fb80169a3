package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	loader := NewLoaderWithDir(t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Store.Type)
	assert.Equal(t, 50, cfg.History.Capacity)
	assert.Equal(t, 300*time.Millisecond, cfg.History.RecordDebounce)
	assert.Equal(t, 500*time.Millisecond, cfg.History.SaveDebounce)
	assert.Equal(t, 3, cfg.View.TodayWindowDays)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
[store]
type = "git"
git_dir = "/srv/tasks"

[history]
capacity = 10
record_debounce_ms = 100

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

	cfg, err := NewLoaderWithDir(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "git", cfg.Store.Type)
	assert.Equal(t, "/srv/tasks", cfg.Store.GitDir)
	assert.Equal(t, 10, cfg.History.Capacity)
	assert.Equal(t, 100*time.Millisecond, cfg.History.RecordDebounce)
	// Untouched values keep their defaults.
	assert.Equal(t, 500*time.Millisecond, cfg.History.SaveDebounce)
	assert.Equal(t, 3, cfg.View.TodayWindowDays)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("store = {"), 0o600))

	_, err := NewLoaderWithDir(dir).Load()
	assert.Error(t, err)
}
