package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	env "github.com/caarlos0/env/v11"
)

// FileName is the name of the project configuration file
const FileName = "oasgen.json"

// EnvPrefix prefixes every environment override, e.g. OASGEN_OUT_DIR
const EnvPrefix = "OASGEN_"

var (
	// ErrNotFound is returned when no configuration file exists up the directory tree
	ErrNotFound = errors.New("no " + FileName + " found")
	// ErrInvalid is returned when a configuration file violates the config schema
	ErrInvalid = errors.New("invalid configuration")
)

// Config represents the oasgen.json configuration file
type Config struct {
	Document string       `json:"document" env:"DOCUMENT"`
	Target   string       `json:"target" env:"TARGET"`
	Strict   bool         `json:"strict" env:"STRICT"`
	Output   OutputConfig `json:"output" envPrefix:"OUT_"`
	Watch    WatchConfig  `json:"watch" envPrefix:"WATCH_"`
}

// OutputConfig describes where and how generated code is written
type OutputConfig struct {
	// Dir is the output directory, relative to the project root
	Dir string `json:"dir" env:"DIR"`
	// Package is the package name of the router modules and the server
	Package string `json:"package" env:"PACKAGE"`
	// Module is the import path of the output directory. Derived from go.mod when empty.
	Module string `json:"module" env:"MODULE"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Exclude    []string `json:"exclude" env:"EXCLUDE" envSeparator:","`
	DebounceMS int      `json:"debounceMs" env:"DEBOUNCE_MS"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// LoadConfig loads oasgen.json from the current directory or a parent directory.
// It returns the configuration and the directory holding it.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads, validates and defaults a configuration file, then
// applies environment overrides
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyEnv overrides fields from OASGEN_ prefixed environment variables
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Document == "" {
		c.Document = "./openapi.json"
	}
	if c.Target == "" {
		c.Target = "gin"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./server"
	}
	if c.Output.Package == "" {
		c.Output.Package = "server"
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{".git/", "node_modules/", "*.go", "*.src"}
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 200
	}
}

// Marshal encodes the configuration as indented JSON
func (c *Config) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// loadConfigFromDir searches for oasgen.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}
