// Package config loads application configuration from defaults, an optional
// TOML file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
// REVIEWSYNC_OUTPUT_DIR sets output.dir, and so on.
const EnvPrefix = "REVIEWSYNC_"

// DefaultOutputDir is where sync output is written unless configured otherwise.
const DefaultOutputDir = "/tmp/github.com"

// Config holds the application configuration.
type Config struct {
	GitHub struct {
		Token  string `koanf:"token"`
		APIURL string `koanf:"apiurl"`
	} `koanf:"github"`

	Output struct {
		Dir  string `koanf:"dir"`
		HTML bool   `koanf:"html"`
	} `koanf:"output"`

	History struct {
		DB string `koanf:"db"` // Empty disables the ledger.
	} `koanf:"history"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// HasGitHubToken reports whether a token was configured. Commands that talk
// to GitHub refuse to start without one.
func (c *Config) HasGitHubToken() bool {
	return c.GitHub.Token != ""
}

// HistoryEnabled reports whether the local ledger is configured.
func (c *Config) HistoryEnabled() bool {
	return c.History.DB != ""
}

// SlogLevel returns the configured log level. Load has already validated it.
func (c *Config) SlogLevel() slog.Level {
	level, _ := ParseLevel(c.Log.Level)
	return level
}

// DefaultPath returns $HOME/.config/reviewsync/config.toml, or "" when the
// home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "reviewsync", "config.toml")
}

// Load layers defaults, the TOML file at path, and REVIEWSYNC_* environment
// variables, in that order. An empty path loads DefaultPath() if it exists;
// an explicit path must exist. When github.token is still empty, GITHUB_TOKEN
// and then GH_TOKEN are consulted.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"output.dir":  DefaultOutputDir,
		"output.html": false,
		"history.db":  "",
		"log.level":   "info",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if def := DefaultPath(); def != "" {
		if _, err := os.Stat(def); err == nil {
			if err := k.Load(file.Provider(def), toml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", def, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = firstEnv("GITHUB_TOKEN", "GH_TOKEN")
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	return &cfg, nil
}

var errInvalidLevel = errors.New("invalid log level")

// ParseLevel maps debug, info, warn, or error to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w %q (want debug, info, warn, or error)", errInvalidLevel, s)
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
