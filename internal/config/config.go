// Package config loads interpreter settings from TOML or YAML files
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "VIMKIT_"

// Duration is a time.Duration that unmarshals from strings like "10s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Std returns the setting as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config carries the interpreter settings.
type Config struct {
	// Shell runs :! filter command lines.
	Shell string `toml:"shell" yaml:"shell"`

	// FilterTimeout bounds a single external filter run.
	FilterTimeout Duration `toml:"filter_timeout" yaml:"filter_timeout"`

	// MaxCommands caps the command batch size of one edit call
	// (0 means unlimited).
	MaxCommands int `toml:"max_commands" yaml:"max_commands"`

	// Backup writes a path~ copy before each save.
	Backup bool `toml:"backup" yaml:"backup"`

	// Watch flags buffers whose backing file changes on disk.
	Watch bool `toml:"watch" yaml:"watch"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Shell:         "/bin/sh",
		FilterTimeout: Duration(10 * time.Second),
		MaxCommands:   0,
		Backup:        false,
		Watch:         true,
		LogLevel:      "info",
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path skips the file and uses
// defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg, os.Getenv)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes path into cfg, choosing the codec by extension.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// applyEnv overlays VIMKIT_* variables onto cfg. Unparseable values
// are ignored in favor of the file/default value.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvPrefix + "SHELL"); v != "" {
		cfg.Shell = v
	}
	if v := getenv(EnvPrefix + "FILTER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FilterTimeout = Duration(d)
		}
	}
	if v := getenv(EnvPrefix + "MAX_COMMANDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxCommands = n
		}
	}
	if v := getenv(EnvPrefix + "BACKUP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Backup = b
		}
	}
	if v := getenv(EnvPrefix + "WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Watch = b
		}
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c Config) validate() error {
	if c.Shell == "" {
		return fmt.Errorf("shell must not be empty")
	}
	if c.FilterTimeout <= 0 {
		return fmt.Errorf("filter_timeout must be positive")
	}
	if c.MaxCommands < 0 {
		return fmt.Errorf("max_commands must not be negative")
	}
	return nil
}
