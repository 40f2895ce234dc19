// Package config loads the YAML configuration shared by the engine and the
// playout experiments.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"yinsh/game"
)

const (
	// EnvPath overrides the config file location.
	EnvPath = "YINSH_CONFIG"

	cfgFile = "yinsh/config.yaml"
)

// Config holds all settings.
type Config struct {
	Rules      game.Rules       `yaml:"rules"`
	Log        LogConfig        `yaml:"log"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

// LogConfig holds zerolog settings
type LogConfig struct {
	Level   string `yaml:"level"`   // zerolog level name
	Console bool   `yaml:"console"` // human readable output instead of JSON
}

// ExperimentConfig holds random playout settings
type ExperimentConfig struct {
	Name      string        `yaml:"name"`
	Games     int           `yaml:"games"`
	Workers   int           `yaml:"workers"`
	MaxInputs int           `yaml:"max_inputs"` // per game
	Seed      uint64        `yaml:"seed"`       // 0 picks a time based seed
	Timeout   time.Duration `yaml:"timeout"`
	OutputDir string        `yaml:"output_dir"`
}

// Default returns the standard rules with defaults for everything else.
func Default() *Config {
	cfg := &Config{Rules: *game.NewStandardRules()}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Rules: *game.NewStandardRules()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find loads the config named by path, then $YINSH_CONFIG, then the first
// yinsh/config.yaml in the XDG config directories. Without any file the
// defaults are returned.
func Find(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		found, err := xdg.SearchConfigFile(cfgFile)
		if err != nil {
			return Default(), nil
		}
		path = found
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s does not exist: %w", path, err)
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Experiment.Name == "" {
		c.Experiment.Name = "playouts"
	}
	if c.Experiment.Games == 0 {
		c.Experiment.Games = 100
	}
	if c.Experiment.Workers == 0 {
		c.Experiment.Workers = 4
	}
	if c.Experiment.MaxInputs == 0 {
		c.Experiment.MaxInputs = 2000
	}
	if c.Experiment.Timeout == 0 {
		c.Experiment.Timeout = 5 * time.Minute
	}
	if c.Experiment.OutputDir == "" {
		c.Experiment.OutputDir = "experiments"
	}
}

func (c *Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	if c.Experiment.Games < 0 || c.Experiment.Workers < 0 || c.Experiment.MaxInputs < 0 {
		return fmt.Errorf("experiment counts must not be negative: %+v", c.Experiment)
	}
	return nil
}

// Save writes the config to the user's XDG config directory and returns the
// path written.
func (c *Config) Save() (string, error) {
	path, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0664); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
