// Package config loads tunetrace configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName        = "tunetrace"
	configFileName = "config.toml"
)

// Defaults applied when the config file is missing or partial.
const (
	defaultPollIntervalSeconds = 30
	defaultStorageDriver       = "sqlite"
	defaultLogLevel            = "info"
	defaultLogFormat           = "text"
)

type Config struct {
	// Spotify credentials for the streaming API
	Spotify SpotifyConfig `koanf:"spotify"`

	// Poll settings for the session tracker
	Poll PollConfig `koanf:"poll"`

	// Storage selects where the session persists
	Storage StorageConfig `koanf:"storage"`

	// Log controls the structured logger
	Log LogConfig `koanf:"log"`
}

// SpotifyConfig holds the streaming API credentials.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RefreshToken string `koanf:"refresh_token"`

	// AccessToken short-circuits the refresh flow with a fixed token
	// (useful for development; expires after an hour)
	AccessToken string `koanf:"access_token"`
}

// PollConfig holds the observation loop settings.
type PollConfig struct {
	IntervalSeconds int `koanf:"interval_seconds"`
}

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Driver string `koanf:"driver"` // "sqlite", "prefs", or "memory"
	Path   string `koanf:"path"`   // sqlite database path; empty selects the default
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", or "error"
	Format string `koanf:"format"` // "text" or "json"
}

// Load reads configuration from the known locations and applies defaults.
// A missing file is not an error; a file that fails to parse is.
func Load() (*Config, error) {
	return loadPaths(configPaths())
}

func loadPaths(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Poll:    PollConfig{IntervalSeconds: defaultPollIntervalSeconds},
		Storage: StorageConfig{Driver: defaultStorageDriver},
		Log:     LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/tunetrace/config.toml
		filepath.Join(xdg.ConfigHome, appName, configFileName),

		// 2. ./config.toml (pwd, highest priority)
		configFileName,
	}
}

// HasSpotifyConfig returns true if the refresh-token flow is configured.
func (c *Config) HasSpotifyConfig() bool {
	return c.Spotify.ClientID != "" && c.Spotify.RefreshToken != ""
}

// HasStaticToken returns true if a fixed development token was supplied.
func (c *Config) HasStaticToken() bool {
	return c.Spotify.AccessToken != ""
}

// PollInterval returns the poll interval with the default applied.
func (c *Config) PollInterval() time.Duration {
	if c.Poll.IntervalSeconds <= 0 {
		return defaultPollIntervalSeconds * time.Second
	}
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}
