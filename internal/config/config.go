// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultRoot      = "~/.jade"
	DefaultDataFile  = "data/jade.txt"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultUI        = UIConsole
	FileName         = "config.toml"
)

const (
	UIConsole = "console"
	UIChat    = "chat"
)

// Config holds the full configuration for jade.
type Config struct {
	// Root is where config.toml, the data file and exports live by default.
	Root string `toml:"-" json:"root"`

	DataFile  string `toml:"data_file" json:"data_file"`
	ExportDir string `toml:"export_dir" json:"export_dir"`
	LogLevel  string `toml:"log_level" json:"log_level"`
	LogFormat string `toml:"log_format" json:"log_format"`
	UI        string `toml:"ui" json:"ui"`
}

// Overrides carries values set by command-line flags; empty fields are unset.
type Overrides struct {
	Root      string
	DataFile  string
	LogLevel  string
	LogFormat string
	UI        string
}

// Load builds the configuration from, in increasing priority:
// 1. Defaults
// 2. <root>/config.toml
// 3. Environment variables (JADE_*)
// 4. Flag overrides
func Load(o Overrides) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// Root decides where the config file is, so resolve it first.
	if v := os.Getenv("JADE_ROOT"); v != "" {
		cfg.Root = v
	}
	if o.Root != "" {
		cfg.Root = o.Root
	}
	cfg.Root = expandHome(cfg.Root)

	path := filepath.Join(cfg.Root, FileName)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	loadFromEnv(cfg)
	applyOverrides(cfg, o)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Root = DefaultRoot
	cfg.DataFile = DefaultDataFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.UI = DefaultUI
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("JADE_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("JADE_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("JADE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("JADE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("JADE_UI"); v != "" {
		cfg.UI = v
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DataFile != "" {
		cfg.DataFile = o.DataFile
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if o.UI != "" {
		cfg.UI = o.UI
	}
}

// finalize resolves relative paths against Root and validates enums.
func finalize(cfg *Config) error {
	cfg.DataFile = resolvePath(cfg.Root, cfg.DataFile)
	if strings.TrimSpace(cfg.ExportDir) == "" {
		cfg.ExportDir = filepath.Join(cfg.Root, "exports")
	} else {
		cfg.ExportDir = resolvePath(cfg.Root, cfg.ExportDir)
	}

	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	switch cfg.UI {
	case UIConsole, UIChat:
	default:
		return fmt.Errorf("invalid ui %q (want console or chat)", cfg.UI)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", cfg.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (want text, json or logfmt)", cfg.LogFormat)
	}
	return nil
}

func resolvePath(root, p string) string {
	p = expandHome(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Path returns the config file location for this configuration.
func (c *Config) Path() string {
	return filepath.Join(c.Root, FileName)
}
