// Package kitsune provides a high-level API for playing Kitsunebi-style
// videos and writing out the composited frames.
package kitsune

import (
	"github.com/user/kitsune/pkg/adapters/filesink"
	"github.com/user/kitsune/pkg/adapters/ggrenderer"
	"github.com/user/kitsune/pkg/adapters/nullsink"
	"github.com/user/kitsune/pkg/adapters/osfilesystem"
	"github.com/user/kitsune/pkg/config"
	"github.com/user/kitsune/pkg/player"
	"github.com/user/kitsune/pkg/ports"
	"github.com/user/kitsune/pkg/stages/render"
)

// Preset represents a named set of output defaults.
type Preset string

const (
	// PresetExport writes full-size frames with transparency intact.
	PresetExport Preset = "export"
	// PresetPreview writes small labeled JPEG frames over a checkerboard.
	PresetPreview Preset = "preview"
)

// Config represents the configuration for one playback.
type Config struct {
	// Input
	Base  string // Color video or image sequence directory
	Alpha string // Optional matte video or image sequence directory

	// Timing
	FPS       float64 // Decode rate (default: 30)
	RefreshHz float64 // Refresh rate of the pump (default: 60)
	MaxFrames int     // 0 plays to the end

	// Output
	OutputDir string            // Empty disables frame output
	Format    ports.ImageFormat // Output image format
	Quality   int               // JPEG quality (0-100)
	Workers   int               // Render/save workers (0 = NumCPU)

	// Preview
	Width        int // Output width (0 = source width)
	Height       int // Output height (0 = keep aspect ratio)
	Checkerboard bool
	CheckerCell  int
	Label        bool
	SideBySide   bool // Show base, matte and result next to each other

	// Decoding
	FFmpegPath string
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with export preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: exportDefaults()}
}

// NewPreviewConfigBuilder creates a new ConfigBuilder with preview preset defaults.
func NewPreviewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: previewDefaults()}
}

// NewConfigBuilderForPreset creates a ConfigBuilder for the named preset.
// Unknown names fall back to PresetExport.
func NewConfigBuilderForPreset(preset Preset) *ConfigBuilder {
	if preset == PresetPreview {
		return NewPreviewConfigBuilder()
	}
	return NewConfigBuilder()
}

// FromFileConfig creates a ConfigBuilder seeded with a loaded YAML config.
func FromFileConfig(c config.Config) *ConfigBuilder {
	return &ConfigBuilder{config: Config{
		Base:         c.Base,
		Alpha:        c.Alpha,
		FPS:          c.FPS,
		RefreshHz:    c.RefreshHz,
		MaxFrames:    c.MaxFrames,
		OutputDir:    c.OutputDir,
		Format:       c.ImageFormat(),
		Quality:      c.Quality,
		Workers:      c.Workers,
		Width:        c.Width,
		Height:       c.Height,
		Checkerboard: c.Checkerboard,
		CheckerCell:  c.CheckerCell,
		Label:        c.Label,
		SideBySide:   c.SideBySide,
		FFmpegPath:   c.FFmpegPath,
	}}
}

// exportDefaults returns the export preset configuration.
func exportDefaults() Config {
	return Config{
		FPS:         30,
		RefreshHz:   60,
		Format:      ports.ImagePNG,
		Quality:     90,
		CheckerCell: 8,
	}
}

// previewDefaults returns the preview preset configuration.
func previewDefaults() Config {
	return Config{
		FPS:       30,
		RefreshHz: 60,

		// Small JPEGs; JPEG drops alpha so flatten over a checkerboard
		Format:       ports.ImageJPEG,
		Quality:      80,
		Width:        320,
		Checkerboard: true,
		CheckerCell:  8,
		Label:        true,
	}
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.RefreshHz <= 0 {
		cfg.RefreshHz = 60
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 90
	}
	if cfg.CheckerCell <= 0 {
		cfg.CheckerCell = 8
	}
	if cfg.MaxFrames < 0 {
		cfg.MaxFrames = 0
	}

	return cfg
}

// WithBase sets the color source.
func (b *ConfigBuilder) WithBase(path string) *ConfigBuilder {
	b.config.Base = path
	return b
}

// WithAlpha sets the matte source. An empty path plays single-stream.
func (b *ConfigBuilder) WithAlpha(path string) *ConfigBuilder {
	b.config.Alpha = path
	return b
}

// WithFPS sets the decode rate.
func (b *ConfigBuilder) WithFPS(fps float64) *ConfigBuilder {
	b.config.FPS = fps
	return b
}

// WithRefreshHz sets the refresh rate of the pump.
func (b *ConfigBuilder) WithRefreshHz(hz float64) *ConfigBuilder {
	b.config.RefreshHz = hz
	return b
}

// WithMaxFrames stops playback after n frames.
func (b *ConfigBuilder) WithMaxFrames(n int) *ConfigBuilder {
	b.config.MaxFrames = n
	return b
}

// WithOutputDir sets where frames are written.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.config.OutputDir = dir
	return b
}

// WithFormat sets the output image format.
func (b *ConfigBuilder) WithFormat(format ports.ImageFormat) *ConfigBuilder {
	b.config.Format = format
	return b
}

// WithQuality sets the JPEG quality (0-100).
func (b *ConfigBuilder) WithQuality(quality int) *ConfigBuilder {
	b.config.Quality = quality
	return b
}

// WithWorkers sets the number of render/save workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.config.Workers = n
	return b
}

// WithSize sets the output size. A zero height keeps the aspect ratio.
func (b *ConfigBuilder) WithSize(width, height int) *ConfigBuilder {
	b.config.Width = width
	b.config.Height = height
	return b
}

// WithCheckerboard flattens transparency over a checkerboard.
func (b *ConfigBuilder) WithCheckerboard(enabled bool) *ConfigBuilder {
	b.config.Checkerboard = enabled
	return b
}

// WithLabel stamps the frame index on every frame.
func (b *ConfigBuilder) WithLabel(enabled bool) *ConfigBuilder {
	b.config.Label = enabled
	return b
}

// WithSideBySide lays out base, matte and result in one image.
func (b *ConfigBuilder) WithSideBySide(enabled bool) *ConfigBuilder {
	b.config.SideBySide = enabled
	return b
}

// WithFFmpegPath sets the ffmpeg binary used for MP4 sources.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// ToPlayerConfig converts Config to player.Config.
func (c Config) ToPlayerConfig() player.Config {
	return player.Config{
		BasePath:  c.Base,
		AlphaPath: c.Alpha,

		FPS:       c.FPS,
		RefreshHz: c.RefreshHz,
		MaxFrames: c.MaxFrames,

		Render: render.Options{
			Width:        c.Width,
			Height:       c.Height,
			Checkerboard: c.Checkerboard,
			CheckerCell:  c.CheckerCell,
			Label:        c.Label,
			SideBySide:   c.SideBySide,
		},
		Workers: c.Workers,

		FFmpegPath: c.FFmpegPath,
	}
}

// NewPlayer wires a Player on the local file system. Frames are written to
// c.OutputDir, or discarded when it is empty.
func (c Config) NewPlayer(logger ports.Logger) *player.Player {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.FrameSink = nullsink.New()
	if c.OutputDir != "" {
		sink = filesink.New(c.OutputDir, fs, renderer, filesink.Options{
			Format:  c.Format,
			Quality: c.Quality,
		})
	}
	return player.New(fs, sink, renderer, logger)
}
