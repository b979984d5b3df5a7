// Package main provides the CLI entry point for kitsune.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/kitsune/pkg/adapters/codecdetect"
	"github.com/user/kitsune/pkg/adapters/logger"
	"github.com/user/kitsune/pkg/adapters/osfilesystem"
	"github.com/user/kitsune/pkg/config"
	"github.com/user/kitsune/pkg/kitsune"
	"github.com/user/kitsune/pkg/player"
	"github.com/user/kitsune/pkg/ports"
	"github.com/user/kitsune/pkg/summarizer"
)

var version = "dev"

// Exit codes
const (
	exitPlayback = 1 // decode, format or I/O error in a source
	exitOutput   = 2 // frames played but could not all be written
	exitUsage    = 64
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		os.Exit(exitPlayback)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "kitsune",
		Usage:   l10n.T("Play Kitsunebi alpha videos paced to a refresh clock"),
		Version: version,
		Commands: []*cli.Command{
			playCommand(),
			probeCommand(),
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play a video or image sequence and write out the frames"),
		ArgsUsage: "[base]",
		Flags: []cli.Flag{
			// Input
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Category: l10n.T("Input"), Usage: l10n.T("Color video or image sequence directory")},
			&cli.StringFlag{Name: "alpha", Aliases: []string{"a"}, Category: l10n.T("Input"), Usage: l10n.T("Alpha matte video or image sequence directory")},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T("Input"), Usage: l10n.T("YAML configuration file")},

			// Timing
			&cli.Float64Flag{Name: "fps", Category: l10n.T("Timing"), Usage: l10n.T("Decode rate in frames per second (default: 30)")},
			&cli.Float64Flag{Name: "refresh-hz", Category: l10n.T("Timing"), Usage: l10n.T("Refresh rate of the playback clock (default: 60)")},
			&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Category: l10n.T("Timing"), Usage: l10n.T("Stop after this many frames (0 = play to the end)")},

			// Output
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T("Output"), Usage: l10n.T("Directory for rendered frames (omit to discard)")},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Value: string(kitsune.PresetExport), Category: l10n.T("Output"), Usage: l10n.T("Output preset (export, preview)")},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Category: l10n.T("Output"), Usage: l10n.T("Frame image format (png, jpg)")},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Category: l10n.T("Output"), Usage: l10n.T("JPEG quality (0-100)")},
			&cli.IntFlag{Name: "workers", Category: l10n.T("Output"), Usage: l10n.T("Render workers (0 = number of CPUs)")},
			&cli.StringFlag{Name: "summary", Category: l10n.T("Output"), Usage: l10n.T("Write a playback summary to file (.md or .txt)")},

			// Preview
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: l10n.T("Preview"), Usage: l10n.T("Output width in pixels")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: l10n.T("Preview"), Usage: l10n.T("Output height in pixels")},
			&cli.BoolFlag{Name: "checkerboard", Category: l10n.T("Preview"), Usage: l10n.T("Show transparency over a checkerboard")},
			&cli.BoolFlag{Name: "label", Category: l10n.T("Preview"), Usage: l10n.T("Stamp the frame number on each frame")},
			&cli.BoolFlag{Name: "side-by-side", Category: l10n.T("Preview"), Usage: l10n.T("Show base, matte and result next to each other")},

			// Decoding
			&cli.StringFlag{Name: "ffmpeg", Category: l10n.T("Decoding"), EnvVars: []string{"FFMPEG_PATH"}, Usage: l10n.T("Path to the ffmpeg executable")},

			// Logging
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T("Logging"), Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T("Logging"), Usage: l10n.T("Suppress all log output")},
		},
		Action: runPlay,
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show the video track of an MP4 file"),
		ArgsUsage: "<file>",
		Action:    runProbe,
	}
}

// runPlay executes the play command.
func runPlay(c *cli.Context) error {
	fileCfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cli.Exit(l10n.F("Failed to load config: %s", err), exitUsage)
		}
		fileCfg = loaded
	}
	if err := fileCfg.Validate(); err != nil {
		return cli.Exit(l10n.F("Invalid config: %s", err), exitUsage)
	}

	cfg := buildConfig(c, fileCfg)
	if cfg.Base == "" {
		return cli.Exit(l10n.T("A base video is required (--base or first argument)"), exitUsage)
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		level := fileCfg.LogLevel
		if c.IsSet("log-level") {
			level = c.String("log-level")
		}
		log = logger.NewConsole(ports.ParseLogLevel(level))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := cfg.NewPlayer(log).Run(ctx, cfg.ToPlayerConfig())

	if path := c.String("summary"); path != "" {
		if werr := writeSummary(path, cfg, result); werr != nil {
			log.Warn("Failed to write summary: %s", werr)
		} else {
			log.Info("Summary saved to %s", path)
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return cli.Exit(l10n.T("Playback interrupted"), exitPlayback)
		}
		if player.IsPlaybackError(err) {
			return cli.Exit(err, exitPlayback)
		}
		return cli.Exit(err, exitOutput)
	}
	if cfg.OutputDir != "" {
		log.Info("Output saved to %s", cfg.OutputDir)
	}
	return nil
}

// buildConfig creates a Config from the config file or preset and CLI overrides.
func buildConfig(c *cli.Context, fileCfg config.Config) kitsune.Config {
	// Start with the config file, or the preset when none is given
	var builder *kitsune.ConfigBuilder
	if c.IsSet("config") {
		builder = kitsune.FromFileConfig(fileCfg)
	} else {
		builder = kitsune.NewConfigBuilderForPreset(kitsune.Preset(c.String("preset")))
	}

	// Apply input
	if base := c.String("base"); base != "" {
		builder.WithBase(base)
	} else if c.Args().Present() {
		builder.WithBase(c.Args().First())
	}
	if c.IsSet("alpha") {
		builder.WithAlpha(c.String("alpha"))
	}

	// Apply overrides
	if c.IsSet("fps") {
		builder.WithFPS(c.Float64("fps"))
	}
	if c.IsSet("refresh-hz") {
		builder.WithRefreshHz(c.Float64("refresh-hz"))
	}
	if c.IsSet("frames") {
		builder.WithMaxFrames(c.Int("frames"))
	}
	if c.IsSet("output") {
		builder.WithOutputDir(c.String("output"))
	}
	if c.IsSet("format") {
		builder.WithFormat(ports.ParseImageFormat(c.String("format")))
	}
	if c.IsSet("quality") {
		builder.WithQuality(c.Int("quality"))
	}
	if c.IsSet("workers") {
		builder.WithWorkers(c.Int("workers"))
	}
	if c.IsSet("width") || c.IsSet("height") {
		builder.WithSize(c.Int("width"), c.Int("height"))
	}
	if c.IsSet("checkerboard") {
		builder.WithCheckerboard(c.Bool("checkerboard"))
	}
	if c.IsSet("label") {
		builder.WithLabel(c.Bool("label"))
	}
	if c.IsSet("side-by-side") {
		builder.WithSideBySide(c.Bool("side-by-side"))
	}
	if c.IsSet("ffmpeg") {
		builder.WithFFmpegPath(c.String("ffmpeg"))
	}

	return builder.Build()
}

func writeSummary(path string, cfg kitsune.Config, result player.Result) error {
	source := summarizer.SourceInfo{
		Base:   cfg.Base,
		Alpha:  cfg.Alpha,
		Width:  result.Width,
		Height: result.Height,
	}
	if isContainer(cfg.Base) {
		if info, err := codecdetect.ProbeFile(cfg.Base); err == nil {
			source.Codec = string(info.Codec)
		}
	}

	var output summarizer.OutputInfo
	if cfg.OutputDir != "" {
		output = summarizer.OutputInfo{Dir: cfg.OutputDir, Format: cfg.Format.String(), Saved: result.Saved}
	}

	summary := summarizer.NewBuilder().
		WithSource(source).
		WithPlayback(string(result.Outcome), result.Frames, result.Elapsed).
		WithRates(cfg.FPS, cfg.RefreshHz).
		WithError(result.FirstErr).
		WithOutput(output).
		Build()

	formatter := summarizer.ForPath(path, l10n.T, summarizer.WithVersion(version))
	return summarizer.NewWriter(osfilesystem.New(), formatter).Write(path, summary)
}

func isContainer(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	}
	return false
}

// runProbe executes the probe command.
func runProbe(c *cli.Context) error {
	if !c.Args().Present() {
		return cli.Exit(l10n.T("A file argument is required"), exitUsage)
	}
	path := c.Args().First()

	info, err := codecdetect.ProbeFile(path)
	if err != nil {
		return cli.Exit(l10n.F("Failed to probe %s: %s", path, err), exitPlayback)
	}

	fmt.Println(l10n.F("Codec: %s", string(info.Codec)))
	fmt.Println(l10n.F("Size: %dx%d", info.Width, info.Height))
	fmt.Println(l10n.F("Samples: %d (timescale %d)", info.SampleCount, info.Timescale))
	if info.Fragmented {
		fmt.Println(l10n.T("Layout: fragmented"))
	} else {
		fmt.Println(l10n.T("Layout: progressive"))
	}
	if info.Codec != codecdetect.CodecH264 {
		fmt.Println(l10n.T("Warning: only H.264 tracks can be played"))
	}
	return nil
}
