// Package config loads the server configuration from a YAML file, falling
// back to defaults that suit local development.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Costing struct {
		DefaultBusinessID string `yaml:"default_business_id"`
		Seed              bool   `yaml:"seed"`
	} `yaml:"costing"`
}

// Default returns the configuration used when no file overrides it
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Database.Path = "mise.db"
	cfg.Costing.DefaultBusinessID = "default"
	return cfg
}

// Load reads the YAML configuration at path. A missing file is not an
// error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
