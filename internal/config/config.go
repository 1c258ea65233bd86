// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/slidepress/internal/imagecheck"
	"github.com/kpauljoseph/slidepress/pkg/models"
)

const DefaultPath = "slidepress.yaml"

type Config struct {
	OutputDir       string `yaml:"output_dir"`
	TempDir         string `yaml:"temp_dir"`
	Scale           int    `yaml:"scale"`
	Pages           string `yaml:"pages"`
	BackgroundColor string `yaml:"background_color"`
	ImageCheck      struct {
		MinRatio float64 `yaml:"min_ratio"`
		MaxRatio float64 `yaml:"max_ratio"`
		MinWidth int     `yaml:"min_width"`
	} `yaml:"image_check"`
	Log struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Scale == 0 {
		c.Scale = int(models.DefaultScale)
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = "#000000"
	}
	if c.ImageCheck.MinRatio == 0 {
		c.ImageCheck.MinRatio = imagecheck.DefaultThresholds.MinRatio
	}
	if c.ImageCheck.MaxRatio == 0 {
		c.ImageCheck.MaxRatio = imagecheck.DefaultThresholds.MaxRatio
	}
	if c.ImageCheck.MinWidth == 0 {
		c.ImageCheck.MinWidth = imagecheck.DefaultThresholds.MinWidth
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
}

func (c *Config) Validate() error {
	if !models.Scale(c.Scale).Valid() {
		return fmt.Errorf("scale must be 1, 2, 3 or 4, got %d", c.Scale)
	}
	if c.ImageCheck.MinRatio > c.ImageCheck.MaxRatio {
		return fmt.Errorf("image_check.min_ratio %.3f is above max_ratio %.3f", c.ImageCheck.MinRatio, c.ImageCheck.MaxRatio)
	}
	return nil
}

func (c *Config) Thresholds() imagecheck.Thresholds {
	return imagecheck.Thresholds{
		MinRatio: c.ImageCheck.MinRatio,
		MaxRatio: c.ImageCheck.MaxRatio,
		MinWidth: c.ImageCheck.MinWidth,
	}
}
