// Package config loads CLI configuration for receipt generation.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigInvalid  = errors.New("invalid config value")
)

// Defaults applied by Load when fields are unset.
const (
	DefaultTimeoutSeconds = 60
	DefaultOutputDir      = "."
)

// Config holds all configuration for receipt generation.
type Config struct {
	Assets AssetsConfig `yaml:"assets"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
}

// AssetsConfig defines where templates, styles, and product images live.
type AssetsConfig struct {
	BasePath  string `yaml:"basePath"`  // Template/style overrides (empty = embedded only)
	ImagesDir string `yaml:"imagesDir"` // Local dir substituted for __images__/ tokens
	StylesDir string `yaml:"stylesDir"` // Local dir substituted for __styles__/ tokens
}

// OutputConfig defines where generated receipts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Output directory (default ".")
}

// RenderConfig defines rendering behavior.
type RenderConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"` // Browser render timeout (default 60)
}

// Timeout returns the render timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Dir: DefaultOutputDir},
		Render: RenderConfig{TimeoutSeconds: DefaultTimeoutSeconds},
	}
}

// Load reads and parses a YAML config file, applying defaults for unset
// fields. Returns ErrConfigNotFound if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values the renderer cannot work with.
func (c *Config) validate() error {
	if c.Render.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: render.timeoutSeconds must be positive, got %d", ErrConfigInvalid, c.Render.TimeoutSeconds)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	return nil
}
