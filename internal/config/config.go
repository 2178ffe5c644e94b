// Package config loads the optional dfmload.yaml project file that pins a
// data directory to a warehouse. Connection parameters resolved here are
// passed explicitly into the run harness; no component reads global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig mirrors the connection section of dfmload.yaml.
// Passwords never live in the project file; they come from $PGPASSWORD or a
// .pgpass file.
type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode,omitempty"`
	AppName  string `yaml:"application_name,omitempty"`
}

// ProjectConfig is the parsed dfmload.yaml.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`

	// Files optionally restricts a run to these document names within the
	// data directory. Empty means every *.json file.
	Files []string `yaml:"files,omitempty"`

	// Timeout is the global run timeout as a Go duration string ("5m").
	Timeout string `yaml:"timeout,omitempty"`
}

// ConfigFileName is the project file looked up inside the data directory.
const ConfigFileName = "dfmload.yaml"

// Load reads dfmload.yaml from dataDir.
func Load(dataDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dataDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	return &cfg, nil
}

// ParseTimeout resolves the config's timeout string. An empty string means
// no limit.
func (c *ProjectConfig) ParseTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q cannot be negative", c.Timeout)
	}
	return d, nil
}
