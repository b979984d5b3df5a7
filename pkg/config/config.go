// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/user/kitsune/pkg/ports"
)

// Config represents the full configuration for kitsune.
type Config struct {
	// Input
	Base  string `yaml:"base"`
	Alpha string `yaml:"alpha"`

	// Timing
	FPS       float64 `yaml:"fps"`
	RefreshHz float64 `yaml:"refresh_hz"`
	MaxFrames int     `yaml:"max_frames"`

	// Output
	OutputDir string `yaml:"output_dir"`
	Format    string `yaml:"format"`
	Quality   int    `yaml:"quality"`
	Workers   int    `yaml:"workers"`

	// Preview
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	Checkerboard bool `yaml:"checkerboard"`
	CheckerCell  int  `yaml:"checker_cell"`
	Label        bool `yaml:"label"`
	SideBySide   bool `yaml:"side_by_side"`

	// Decoding
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		FPS:         30,
		RefreshHz:   60,
		Format:      "png",
		Quality:     90,
		CheckerCell: 8,
		LogLevel:    "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs *multierror.Error
	if c.FPS < 0 {
		errs = multierror.Append(errs, fmt.Errorf("fps must not be negative: %v", c.FPS))
	}
	if c.RefreshHz < 0 {
		errs = multierror.Append(errs, fmt.Errorf("refresh_hz must not be negative: %v", c.RefreshHz))
	}
	if c.MaxFrames < 0 {
		errs = multierror.Append(errs, fmt.Errorf("max_frames must not be negative: %d", c.MaxFrames))
	}
	if c.Width < 0 || c.Height < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if c.Quality < 0 || c.Quality > 100 {
		errs = multierror.Append(errs, fmt.Errorf("quality must be within 0-100: %d", c.Quality))
	}
	switch strings.ToLower(c.Format) {
	case "", "png", "jpg", "jpeg":
	default:
		errs = multierror.Append(errs, fmt.Errorf("unsupported format %q", c.Format))
	}
	return errs.ErrorOrNil()
}

// ImageFormat returns the parsed output format, PNG when unset.
func (c Config) ImageFormat() ports.ImageFormat {
	return ports.ParseImageFormat(c.Format)
}
