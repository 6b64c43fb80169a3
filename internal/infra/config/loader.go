// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ryoseto/quadra/internal/domain"
)

// ConfigFileName is the TOML file read from the config directory.
const ConfigFileName = "config.toml"

// fileConfig is the on-disk TOML shape. Zero values mean "keep default".
type fileConfig struct {
	Store struct {
		Type    string `toml:"type"`
		DataDir string `toml:"data_dir"`
		GitDir  string `toml:"git_dir"`
	} `toml:"store"`
	History struct {
		Capacity         int `toml:"capacity"`
		RecordDebounceMS int `toml:"record_debounce_ms"`
		SaveDebounceMS   int `toml:"save_debounce_ms"`
	} `toml:"history"`
	View struct {
		TodayWindowDays int `toml:"today_window_days"`
	} `toml:"view"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Loader loads configuration from TOML files.
type Loader struct {
	confDir string
}

// NewLoader creates a Loader reading from the default config directory.
func NewLoader() *Loader {
	return &Loader{confDir: defaultConfigDir()}
}

// NewLoaderWithDir creates a Loader with a custom config directory. This is
// useful for testing.
func NewLoaderWithDir(dir string) *Loader {
	return &Loader{confDir: dir}
}

// defaultConfigDir returns $XDG_CONFIG_HOME/quadra, falling back to
// ~/.config/quadra.
func defaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quadra")
}

// Load returns the configuration merged over defaults. A missing file is
// not an error.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if l.confDir == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(filepath.Join(l.confDir, ConfigFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if file.Store.Type != "" {
		cfg.Store.Type = file.Store.Type
	}
	if file.Store.DataDir != "" {
		cfg.Store.DataDir = file.Store.DataDir
	}
	if file.Store.GitDir != "" {
		cfg.Store.GitDir = file.Store.GitDir
	}
	if file.History.Capacity > 0 {
		cfg.History.Capacity = file.History.Capacity
	}
	if file.History.RecordDebounceMS > 0 {
		cfg.History.RecordDebounce = time.Duration(file.History.RecordDebounceMS) * time.Millisecond
	}
	if file.History.SaveDebounceMS > 0 {
		cfg.History.SaveDebounce = time.Duration(file.History.SaveDebounceMS) * time.Millisecond
	}
	if file.View.TodayWindowDays > 0 {
		cfg.View.TodayWindowDays = file.View.TodayWindowDays
	}
	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	return cfg, nil
}
