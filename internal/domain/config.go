package domain

import "time"

// Config represents the application configuration.
type Config struct {
	Store   StoreConfig   // [store] settings
	History HistoryConfig // [history] settings
	View    ViewConfig    // [view] settings
	Log     LogConfig     // [log] settings
}

// StoreConfig holds persistence settings from the [store] section.
type StoreConfig struct {
	Type    string // "json" (default) or "git"
	DataDir string // Override for the data directory
	GitDir  string // Repository path for the git store
}

// HistoryConfig holds undo settings from the [history] section.
type HistoryConfig struct {
	Capacity       int           // Max snapshots kept on each stack
	RecordDebounce time.Duration // Coalescing window for snapshot recording
	SaveDebounce   time.Duration // Coalescing window for persistence writes
}

// ViewConfig holds filter defaults from the [view] section.
type ViewConfig struct {
	TodayWindowDays int // "Due soon" horizon for the Today view
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Type: "json"},
		History: HistoryConfig{
			Capacity:       50,
			RecordDebounce: 300 * time.Millisecond,
			SaveDebounce:   500 * time.Millisecond,
		},
		View: ViewConfig{TodayWindowDays: 3},
		Log:  LogConfig{Level: "info"},
	}
}
