// Package player runs one playback session end to end: it opens the
// readers, drives an engine from a refresh pump and hands every delivered
// frame to the render and save stages.
package player

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/user/kitsune/pkg/adapters/imageseq"
	"github.com/user/kitsune/pkg/adapters/mp4reader"
	"github.com/user/kitsune/pkg/engine"
	"github.com/user/kitsune/pkg/pipeline"
	"github.com/user/kitsune/pkg/ports"
	"github.com/user/kitsune/pkg/refresh"
	"github.com/user/kitsune/pkg/stages/render"
	"github.com/user/kitsune/pkg/stages/save"
)

// Config contains all configuration for a playback session.
type Config struct {
	// Input
	BasePath  string
	AlphaPath string // Optional; enables dual-stream playback

	// Timing
	FPS       float64 // Target decode rate (default: 30)
	RefreshHz float64 // Refresh rate of the internal pump (default: 60)
	MaxFrames int     // Stop after this many frames; 0 plays to the end

	// Output
	Render  render.Options
	Workers int // Render/save workers (default: NumCPU)

	// Decoding
	FFmpegPath string

	// Pump overrides the internally created refresh pump.
	Pump *refresh.Pump
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FPS:       engine.DefaultFPS,
		RefreshHz: refresh.DefaultRefreshHz,
		Render: render.Options{
			CheckerCell: 8,
		},
	}
}

// Outcome describes how a session ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeStopped   Outcome = "stopped"
	OutcomeCanceled  Outcome = "canceled"
)

// Result summarizes a session.
type Result struct {
	Outcome  Outcome
	Frames   int // Frames delivered by the engine
	Saved    int // Frames written by the sink
	Dual     bool
	Elapsed  time.Duration
	Width    int
	Height   int
	FirstErr error // Playback error reported through OnError, if any
}

// Player coordinates readers, engine and output stages.
type Player struct {
	fs       ports.FileSystem
	sink     ports.FrameSink
	renderer ports.Renderer
	logger   ports.Logger
}

// New creates a new Player.
func New(fs ports.FileSystem, sink ports.FrameSink, renderer ports.Renderer, logger ports.Logger) *Player {
	return &Player{
		fs:       fs,
		sink:     sink,
		renderer: renderer,
		logger:   logger,
	}
}

// Run plays one session to its end, until MaxFrames, or until ctx is done.
// The returned error aggregates the playback error and any output errors.
func (p *Player) Run(ctx context.Context, config Config) (Result, error) {
	dual := config.AlphaPath != ""
	p.logger.Info("Playing %s", describeInput(config))

	base, err := p.openReader(config.BasePath, config)
	if err != nil {
		return Result{}, fmt.Errorf("open base: %w", err)
	}
	var alpha ports.AssetReader
	if dual {
		if alpha, err = p.openReader(config.AlphaPath, config); err != nil {
			return Result{}, fmt.Errorf("open alpha: %w", err)
		}
	}

	pump := config.Pump
	if pump == nil {
		pump = refresh.NewPump(refresh.NewTickerSource(config.RefreshHz), p.logger)
		if err := pump.Start(ctx); err != nil {
			return Result{}, fmt.Errorf("start refresh pump: %w", err)
		}
		defer pump.Close()
	}

	outCtx, cancelOut := context.WithCancel(context.Background())
	defer cancelOut()
	var pool *pipeline.Pool[pipeline.Frame, pipeline.Saved]
	if p.sink.Enabled() {
		stage := pipeline.Then[pipeline.Frame, pipeline.Rendered, pipeline.Saved](
			render.NewStage(p.renderer, config.Render),
			save.NewStage(p.sink, p.logger),
		)
		pool = pipeline.NewPool[pipeline.Frame, pipeline.Saved](outCtx, stage, config.Workers, 4)
	}

	s := newSession(pool, config.MaxFrames)
	engineConfig := engine.Config{FPS: config.FPS, Pump: pump, Logger: p.logger}
	var eng *engine.Engine
	if dual {
		eng = engine.NewDual(base, alpha, s, s, engineConfig)
	} else {
		eng = engine.NewSingle(base, s, s, engineConfig)
	}
	s.eng = eng
	defer eng.Close()

	start := time.Now()
	if err := eng.Play(); err != nil {
		p.logger.Error("Failed to start playback: %s", err)
		return Result{Dual: dual}, err
	}

	var outcome Outcome
	select {
	case <-s.finished:
		outcome = s.outcome()
	case <-s.stopped:
		eng.Pause()
		outcome = OutcomeStopped
	case <-ctx.Done():
		p.logger.Warn("Interrupted, stopping playback")
		eng.Pause()
		outcome = OutcomeCanceled
	}
	eng.Close()
	elapsed := time.Since(start)

	result := Result{
		Outcome:  outcome,
		Frames:   s.frames(),
		Dual:     dual,
		Elapsed:  elapsed,
		FirstErr: s.playbackErr(),
	}
	result.Width, result.Height = s.size()

	var errs *multierror.Error
	if playErr := s.playbackErr(); playErr != nil {
		errs = multierror.Append(errs, fmt.Errorf("playback: %w", playErr))
	}
	if outcome == OutcomeCanceled {
		cancelOut()
		errs = multierror.Append(errs, ctx.Err())
	}
	if pool != nil {
		saved, err := pool.Wait()
		result.Saved = saved
		if err != nil && outcome != OutcomeCanceled {
			errs = multierror.Append(errs, fmt.Errorf("output: %w", err))
		}
	}

	p.logger.Info("Playback %s: %d frames in %s", string(outcome), result.Frames, elapsed.Round(time.Millisecond))
	if result.Saved > 0 {
		p.logger.Info("Saved %d frames", result.Saved)
	}
	return result, errs.ErrorOrNil()
}

// openReader picks the reader by path: MP4 containers are decoded with
// ffmpeg, directories are read as image sequences.
func (p *Player) openReader(path string, config Config) (ports.AssetReader, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ports.ErrIO)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return mp4reader.New(path, mp4reader.Options{FFmpegPath: config.FFmpegPath, Logger: p.logger}), nil
	}

	exists, err := p.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrIO, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s does not exist", ports.ErrIO, path)
	}
	return imageseq.New(p.fs, path), nil
}

func describeInput(config Config) string {
	if config.AlphaPath == "" {
		return config.BasePath
	}
	return config.BasePath + " + " + config.AlphaPath
}

// session is the consumer and observer for one engine run. Callbacks
// arrive on the pump goroutine; accessors are read from Run.
type session struct {
	eng       *engine.Engine
	pool      *pipeline.Pool[pipeline.Frame, pipeline.Saved]
	maxFrames int

	finished chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	doneOnce sync.Once

	mu        sync.Mutex
	count     int
	completed bool
	err       error
	width     int
	height    int
}

func newSession(pool *pipeline.Pool[pipeline.Frame, pipeline.Saved], maxFrames int) *session {
	return &session{
		pool:      pool,
		maxFrames: maxFrames,
		finished:  make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

func (s *session) OnFrame(buffer ports.ImageBuffer) {
	s.deliver(buffer, nil)
}

func (s *session) OnFramePair(base, alpha ports.ImageBuffer) {
	s.deliver(base, &alpha)
}

func (s *session) deliver(base ports.ImageBuffer, alpha *ports.ImageBuffer) {
	s.mu.Lock()
	s.count = base.Index
	s.width, s.height = base.Width(), base.Height()
	s.mu.Unlock()

	if s.pool == nil {
		return
	}
	frame := pipeline.Frame{Index: base.Index, Base: base.Clone().Image}
	if alpha != nil {
		frame.Alpha = alpha.Clone().Image
	}
	s.pool.Submit(frame)
}

func (s *session) OnError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *session) OnCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = true
}

func (s *session) OnFrameIndexAdvanced(index int) {
	if s.maxFrames > 0 && index >= s.maxFrames {
		s.eng.Pause()
		s.stopOnce.Do(func() { close(s.stopped) })
	}
}

func (s *session) OnFinishedPlaying() {
	s.doneOnce.Do(func() { close(s.finished) })
}

func (s *session) outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.err != nil:
		return OutcomeFailed
	case s.completed:
		return OutcomeCompleted
	default:
		return OutcomeStopped
	}
}

func (s *session) frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *session) size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *session) playbackErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// IsPlaybackError reports whether err carries a decode or format failure
// from the readers rather than an output or context error.
func IsPlaybackError(err error) bool {
	return errors.Is(err, ports.ErrDecode) || errors.Is(err, ports.ErrFormat) || errors.Is(err, ports.ErrIO)
}

var (
	_ ports.FrameConsumer     = (*session)(nil)
	_ ports.FramePairConsumer = (*session)(nil)
	_ ports.PlaybackObserver  = (*session)(nil)
)
