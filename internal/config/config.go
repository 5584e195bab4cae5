package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration
type Config struct {
	Nick       string   `yaml:"nick"`
	Alternate  string   `yaml:"alternate"`
	Server     string   `yaml:"server"`
	Port       int      `yaml:"port"`
	ServerPass string   `yaml:"server_pass"`
	RealName   string   `yaml:"real_name"`
	Username   string   `yaml:"username"`
	Channels   []string `yaml:"channels"`
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if cfg.Port == 0 {
		cfg.Port = 6667
	}
	if cfg.Username == "" {
		cfg.Username = cfg.Nick
	}
	if cfg.RealName == "" {
		cfg.RealName = cfg.Nick
	}
	if cfg.Alternate == "" {
		cfg.Alternate = cfg.Nick + "_"
	}

	return &cfg, nil
}
