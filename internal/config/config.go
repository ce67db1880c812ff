// Package config loads mirrorpad settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML or
// YAML config file, and MIRRORPAD_* environment variables. Nested keys map to
// variables by replacing dots with underscores, so dispatch.mode is read from
// MIRRORPAD_DISPATCH_MODE.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "MIRRORPAD"

// Config represents the complete mirrorpad configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" toml:"log"`
	Document DocumentConfig `mapstructure:"document" toml:"document"`
	Dispatch DispatchConfig `mapstructure:"dispatch" toml:"dispatch"`
	UI       UIConfig       `mapstructure:"ui" toml:"ui"`
	Storage  StorageConfig  `mapstructure:"storage" toml:"storage"`

	// Panes is the number of editor panes opened at startup.
	// All panes replicate each other's content.
	Panes int `mapstructure:"panes" toml:"panes"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" toml:"level"`
	// Format is text or json.
	Format string `mapstructure:"format" toml:"format"`
}

// DocumentConfig controls the shared document.
type DocumentConfig struct {
	// Lock selects the document guard: "rw" (writer-preference) or "exclusive".
	Lock string `mapstructure:"lock" toml:"lock"`
	// HistorySize caps the undo stack.
	HistorySize int `mapstructure:"history_size" toml:"history_size"`
}

// DispatchConfig controls command dispatch.
type DispatchConfig struct {
	// Mode is "table" or "chain".
	Mode string `mapstructure:"mode" toml:"mode"`
	// Metrics enables per-command statistics.
	Metrics bool `mapstructure:"metrics" toml:"metrics"`
	// RecoverPanics turns handler panics into error results.
	RecoverPanics bool `mapstructure:"recover_panics" toml:"recover_panics"`
}

// UIConfig controls the UI loop.
type UIConfig struct {
	// QueueSize is the number of callbacks that may wait on the loop.
	QueueSize int `mapstructure:"queue_size" toml:"queue_size"`
}

// StorageConfig controls where documents are read and written.
type StorageConfig struct {
	// Root resolves relative resources. Empty means the working directory.
	Root string `mapstructure:"root" toml:"root"`
	// Perm is the octal permission for new files, e.g. "0644".
	Perm string `mapstructure:"perm" toml:"perm"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Document: DocumentConfig{
			Lock:        "rw",
			HistorySize: 1000,
		},
		Dispatch: DispatchConfig{
			Mode:          "table",
			Metrics:       false,
			RecoverPanics: true,
		},
		UI: UIConfig{
			QueueSize: 64,
		},
		Storage: StorageConfig{
			Root: "",
			Perm: "0644",
		},
		Panes: 2,
	}
}

// FileMode parses Storage.Perm.
func (c StorageConfig) FileMode() (os.FileMode, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(c.Perm, "0o"), 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(n), nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mirrorpad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mirrorpad"
	}
	return filepath.Join(home, ".config", "mirrorpad")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}
