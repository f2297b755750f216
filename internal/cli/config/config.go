package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultServerURL matches the backend's default local listen address.
const DefaultServerURL = "http://localhost:8000/api"

type Config struct {
	Version     int               `json:"version"`
	ServerURL   string            `json:"server_url"`
	ConnectedAt string            `json:"connected_at,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".showcase", "config.json"), nil
}

func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{
				Version:   1,
				ServerURL: DefaultServerURL,
				Preferences: map[string]string{
					"default_format": "table",
				},
			}, nil
		}
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return &c, nil
}

func Save(c *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, append(b, '\n'), 0o600)
}

func (c *Config) SetServer(url string) {
	c.ServerURL = url
	c.ConnectedAt = time.Now().UTC().Format(time.RFC3339)
}

func (c *Config) ClearServer() {
	c.ServerURL = ""
	c.ConnectedAt = ""
}
