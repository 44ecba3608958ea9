// Package config loads CLI defaults from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds defaults the CLI applies when the matching flag is not set.
type Config struct {
	Library string `yaml:"library"` // Path to the codec shared library
	Level   int    `yaml:"level"`   // Compression level (1, 9 or 12)
	Workers int    `yaml:"workers"` // Decompression worker hint
}

// Default returns a Config with the CLI's built-in defaults.
func Default() *Config {
	return &Config{
		Library: "libgdeflate.so",
		Level:   9,
		Workers: 1,
	}
}

// Load reads and validates a YAML config file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Library == "" {
		return fmt.Errorf("library is required")
	}

	switch cfg.Level {
	case 1, 9, 12:
	default:
		return fmt.Errorf("level must be 1, 9 or 12, got %d", cfg.Level)
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return nil
}
