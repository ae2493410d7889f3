// Package config loads and validates the optional .relay YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultMaxOutput caps captured subprocess output when no limit is configured.
const DefaultMaxOutput = 1 << 20 // 1 MB

// Config holds the parsed .relay configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int      `yaml:"version"`
	Interpreter  []string `yaml:"interpreter"` // e.g. [".venv/bin/python"]; default: python3 from PATH
	Script       string   `yaml:"script"`      // overrides the bundled script path
	RawTimeout   string   `yaml:"timeout"`     // e.g. "5m"; empty means the script runs to completion
	RawMaxOutput int      `yaml:"max_output"`  // bytes
}

// Timeout returns the configured timeout, or zero when the script should
// run to completion.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// Load reads the .relay file from the workspace root. If no .relay file
// exists, a default Config is returned.
func Load(workspace string) (*Config, error) {
	path := filepath.Join(workspace, ".relay")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading .relay: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .relay: %w", err)
	}
	return cfg, nil
}
