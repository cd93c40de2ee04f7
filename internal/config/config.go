// Package config loads the server configuration from a YAML file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the guest registry server.
type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Sync struct {
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
		DefaultFrequency      string `yaml:"default_frequency"`
	} `yaml:"sync"`

	Housekeeping struct {
		DefaultPay float64 `yaml:"default_pay"`
	} `yaml:"housekeeping"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load reads the configuration file at path, expanding ${ENV_VAR}
// placeholders. A missing path falls back to configs/config.yaml; a missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		data = []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8090"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "./static"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/guest-registry.db"
	}
	if c.Sync.RequestTimeoutSeconds <= 0 {
		c.Sync.RequestTimeoutSeconds = 10
	}
	if c.Sync.DefaultFrequency == "" {
		c.Sync.DefaultFrequency = "daily"
	}
	if c.Housekeeping.DefaultPay <= 0 {
		c.Housekeeping.DefaultPay = 20
	}
}

// RequestTimeout returns the bounded timeout for calendar feed fetches.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Sync.RequestTimeoutSeconds) * time.Second
}
