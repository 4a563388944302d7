// Package config loads tarsier settings from a YAML file. Flags always
// beat file values; the file only provides defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable knobs of the emulator frontends.
type Config struct {
	// Steps is the per-Eval step budget. Zero keeps the built-in cap.
	Steps int `yaml:"steps"`
	// Verbose enables debug logging and the instruction trace.
	Verbose bool `yaml:"verbose"`
	// Quiet reduces the run command to ROM output only.
	Quiet bool `yaml:"quiet"`
	// TraceLines caps how many trace lines the run command prints.
	TraceLines int `yaml:"trace_lines"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TraceLines: 500,
	}
}

// Path returns the default config file location.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tarsier", "config.yaml")
}

// Load reads a config file. An empty path means the default location; a
// missing file at the default location is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = Path()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
