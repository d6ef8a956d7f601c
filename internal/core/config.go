package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores client settings. File values come from the global config
// under ~/.config/lantern/; environment variables override them.
type Config struct {
	ServerURL string `json:"server_url" env:"LANTERN_SERVER_URL"`
	Token     string `json:"-" env:"LANTERN_TOKEN"`

	// Reveal cadences in milliseconds; zero means the defaults below.
	LogRevealMS      int `json:"log_reveal_ms,omitempty" env:"LANTERN_LOG_REVEAL_MS"`
	DialogueRevealMS int `json:"dialogue_reveal_ms,omitempty" env:"LANTERN_DIALOGUE_REVEAL_MS"`
}

const (
	defaultServerURL      = "http://localhost:8000"
	defaultLogRevealMS    = 15
	defaultDialogueReveal = 50
)

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lantern", "config.json"), nil
}

// ConfigDir returns the directory holding config, credentials and the
// transcript database, creating it if needed.
func ConfigDir() (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// LoadConfig reads the config file if present and applies env overrides.
func LoadConfig() (Config, error) {
	config := Config{}

	path, err := configPath()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return config, err
	}

	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("read environment: %w", err)
	}

	if config.ServerURL == "" {
		config.ServerURL = defaultServerURL
	}
	if config.LogRevealMS <= 0 {
		config.LogRevealMS = defaultLogRevealMS
	}
	if config.DialogueRevealMS <= 0 {
		config.DialogueRevealMS = defaultDialogueReveal
	}
	return config, nil
}

// SaveConfig writes the config file, creating the directory if needed.
func SaveConfig(config Config) error {
	if _, err := ConfigDir(); err != nil {
		return err
	}
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LogReveal returns the per-rune reveal interval for log entries.
func (c Config) LogReveal() time.Duration {
	return time.Duration(c.LogRevealMS) * time.Millisecond
}

// DialogueReveal returns the per-rune reveal interval for dialogue.
func (c Config) DialogueReveal() time.Duration {
	return time.Duration(c.DialogueRevealMS) * time.Millisecond
}
