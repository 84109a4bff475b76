package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig holds defaults read from a YAML file. Command line flags win
// over every field.
type fileConfig struct {
	BatchSize int    `yaml:"batch_size"`
	Variant   string `yaml:"variant"`
	Out       string `yaml:"out"`
	Compress  string `yaml:"compress"`
	History   string `yaml:"history"`
	Verbose   bool   `yaml:"verbose"`
}

// loadConfig reads a YAML config file. An empty path yields the zero config.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.BatchSize < 0 {
		return cfg, fmt.Errorf("config %s: batch_size must not be negative", path)
	}
	return cfg, nil
}
