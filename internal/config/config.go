// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the studyhall client.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.studyhall/config.toml
//   - ~/.studyhall/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete studyhall configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// ServerConfig configures the platform API connection.
type ServerConfig struct {
	// BaseURL is the platform API root, e.g. "https://study.example.com".
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`

	// MaxRetries is the retry budget for transient failures.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme selects the color theme ("dark" or "light").
	Theme string `toml:"theme" json:"theme"`

	// RenderMarkdown enables glamour rendering of assistant replies.
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`

	// SuggestedPrompts seed the empty chat view.
	SuggestedPrompts []string `toml:"suggested_prompts" json:"suggested_prompts"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	// TokenPath is the access token file. Empty means the default
	// (~/.studyhall/token).
	TokenPath string `toml:"token_path" json:"token_path"`

	// HistoryPath is the transcript database. Empty means the default
	// (~/.studyhall/history.db).
	HistoryPath string `toml:"history_path" json:"history_path"`

	// HistoryEnabled toggles local transcript archiving.
	HistoryEnabled bool `toml:"history_enabled" json:"history_enabled"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		UI: UIConfig{
			Theme:          "dark",
			RenderMarkdown: true,
			SuggestedPrompts: []string{
				"Explain this topic like I'm a beginner",
				"Quiz me on what I just studied",
				"Summarize the key points of my last note",
			},
		},
		Storage: StorageConfig{
			HistoryEnabled: true,
		},
	}
}

// ConfigDir returns the studyhall configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".studyhall")
	}
	return filepath.Join(home, ".studyhall")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, falling back to defaults, then applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath := filepath.Join(ConfigDir(), "config.toml")
	jsonPath := filepath.Join(ConfigDir(), "config.json")

	if data, err := os.ReadFile(tomlPath); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
	} else if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDYHALL_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("STUDYHALL_TOKEN_PATH"); v != "" {
		cfg.Storage.TokenPath = v
	}
	if v := os.Getenv("STUDYHALL_HISTORY_PATH"); v != "" {
		cfg.Storage.HistoryPath = v
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.Server.BaseURL)
	if base == "" {
		return fmt.Errorf("server.base_url must not be empty")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("server.base_url must start with http:// or https://: %q", base)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be positive, got %d", c.Server.TimeoutSeconds)
	}
	if c.Server.MaxRetries < 1 {
		return fmt.Errorf("server.max_retries must be at least 1, got %d", c.Server.MaxRetries)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// TokenPath returns the configured or default token path.
func (c *Config) TokenPath() string {
	if c.Storage.TokenPath != "" {
		return c.Storage.TokenPath
	}
	return filepath.Join(ConfigDir(), "token")
}

// HistoryPath returns the configured or default history database path.
func (c *Config) HistoryPath() string {
	if c.Storage.HistoryPath != "" {
		return c.Storage.HistoryPath
	}
	return filepath.Join(ConfigDir(), "history.db")
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults so the TUI can still start and
// surface the problem instead of refusing to run.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})
	return globalConfig
}
