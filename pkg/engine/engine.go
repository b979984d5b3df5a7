// Package engine implements the display-paced playback engine.
//
// An Engine owns one reader (single-stream) or a base and an alpha reader
// (dual-stream) and advances them in lock-step on refresh ticks accepted by
// a frame-rate governor. Ticks, decoding and consumer callbacks all run on
// the refresh pump goroutine; Play, Pause, Resume and Close may be called
// from any goroutine, including from inside a callback.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/user/kitsune/pkg/adapters/logger"
	"github.com/user/kitsune/pkg/governor"
	"github.com/user/kitsune/pkg/ports"
	"github.com/user/kitsune/pkg/refresh"
)

// DefaultFPS is the target decode rate used when Config.FPS is not positive.
const DefaultFPS = 30

var (
	// ErrSessionActive is returned by Play while a session is playing or paused.
	ErrSessionActive = errors.New("engine: session already active")
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("engine: closed")
)

// Config configures an Engine.
type Config struct {
	FPS    float64       // Target decode frame rate (default: 30)
	Pump   *refresh.Pump // Tick source (default: refresh.Shared())
	Logger ports.Logger  // Optional
}

// delivery forwards decoded frames to the variant's consumer.
type delivery interface {
	frames(buffers []ports.ImageBuffer)
	failed(err error)
	completed()
}

type namedReader struct {
	name   string
	reader ports.AssetReader
}

// Engine drives asset readers from refresh ticks.
type Engine struct {
	readers  []namedReader
	out      delivery
	observer ports.PlaybackObserver
	logger   ports.Logger

	mu       sync.Mutex
	state    State
	index    int
	closed   bool
	governor *governor.Governor
	sub      *refresh.Subscription
}

// NewSingle creates an engine for plain video.
// observer may be nil.
//
// The pump holds engines weakly. Callers must keep the engine reachable
// until OnFinishedPlaying or Close; an engine dropped mid-session is
// collected and its callbacks stop without OnFinishedPlaying.
func NewSingle(reader ports.AssetReader, consumer ports.FrameConsumer, observer ports.PlaybackObserver, cfg Config) *Engine {
	return newEngine([]namedReader{{name: "base", reader: reader}}, singleDelivery{consumer}, observer, cfg)
}

// NewDual creates an engine for alpha-matte video. The base and alpha
// readers are advanced together; when either track ends the whole pair ends.
// observer may be nil. As with NewSingle, callers must keep the engine
// reachable until OnFinishedPlaying or Close.
func NewDual(base, alpha ports.AssetReader, consumer ports.FramePairConsumer, observer ports.PlaybackObserver, cfg Config) *Engine {
	readers := []namedReader{
		{name: "base", reader: base},
		{name: "alpha", reader: alpha},
	}
	return newEngine(readers, pairDelivery{consumer}, observer, cfg)
}

func newEngine(readers []namedReader, out delivery, observer ports.PlaybackObserver, cfg Config) *Engine {
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	pump := cfg.Pump
	if pump == nil {
		pump = refresh.Shared()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	if observer == nil {
		observer = noopObserver{}
	}

	e := &Engine{
		readers:  readers,
		out:      out,
		observer: observer,
		logger:   log.WithComponent("engine"),
		governor: governor.New(fps),
	}
	e.sub = pump.Subscribe(e)
	return e
}

// Play resets every reader to frame 0 and starts consuming refresh ticks.
// If any reader fails to reset, the engine stays idle and is not subscribed.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.state == StatePlaying || e.state == StatePaused {
		return ErrSessionActive
	}

	for i, nr := range e.readers {
		if err := nr.reader.Reset(); err != nil {
			for _, done := range e.readers[:i] {
				done.reader.CancelReading()
			}
			e.state = StateIdle
			e.logger.Warn("Failed to reset %s reader: %s", nr.name, err)
			return fmt.Errorf("reset %s reader: %w", nr.name, err)
		}
	}

	e.index = 0
	e.governor.Clear()
	e.state = StatePlaying
	e.sub.Activate()
	e.logger.Debug("Playback started with %d reader(s)", len(e.readers))
	return nil
}

// Pause stops frame advancement at the next tick boundary.
// It is a no-op unless the engine is playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return
	}
	e.sub.Deactivate()
	e.state = StatePaused
	e.logger.Debug("Playback paused at frame %d", e.index)
}

// Resume continues a paused session. It is a no-op unless the engine is paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePaused {
		return
	}
	e.state = StatePlaying
	e.sub.Activate()
	e.logger.Debug("Playback resumed at frame %d", e.index)
}

// Close unsubscribes from the pump and releases every reader.
// No consumer callbacks are invoked. The engine cannot be played again.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.sub.Cancel()
	for _, nr := range e.readers {
		nr.reader.CancelReading()
	}
	e.state = StateIdle
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentFrameIndex returns the number of frames delivered in this session.
func (e *Engine) CurrentFrameIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// OnRefresh implements refresh.Subscriber.
func (e *Engine) OnRefresh(tick ports.Tick) {
	step := e.advance(tick)
	step.notify(e)
}

// stepResult carries the callbacks owed for one tick. Callbacks run after
// the engine lock is released so consumers may call back into the engine.
type stepResult struct {
	kind    stepKind
	buffers []ports.ImageBuffer
	index   int
	err     error
}

type stepKind int

const (
	stepNone stepKind = iota
	stepFrame
	stepCompleted
	stepFailed
)

func (r stepResult) notify(e *Engine) {
	switch r.kind {
	case stepFrame:
		e.out.frames(r.buffers)
		e.observer.OnFrameIndexAdvanced(r.index)
	case stepCompleted:
		e.out.completed()
		e.observer.OnFinishedPlaying()
	case stepFailed:
		e.out.failed(r.err)
		e.observer.OnFinishedPlaying()
	}
}

func (e *Engine) advance(tick ports.Tick) (result stepResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return stepResult{}
	}
	if !e.governor.Accept(tick.Timestamp) {
		return stepResult{}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: reader panic: %v", ports.ErrDecode, r)
			result = e.finishLocked(StateFailed, err)
		}
	}()

	if state, err := e.precheckLocked(); state.Finished() {
		return e.finishLocked(state, err)
	}

	buffers := make([]ports.ImageBuffer, 0, len(e.readers))
	for _, nr := range e.readers {
		buf, err := nr.reader.CopyNextImageBuffer()
		if err == nil && buf.Image == nil {
			err = fmt.Errorf("%w: %s reader returned an empty buffer", ports.ErrDecode, nr.name)
		}
		if err != nil {
			if errors.Is(err, ports.ErrEndOfStream) {
				e.logger.Debug("%s reader reached end of stream after %d frames", nr.name, e.index)
				return e.finishLocked(StateCompleted, nil)
			}
			e.logger.Error("Failed to decode %s frame %d: %s", nr.name, e.index+1, err)
			return e.finishLocked(StateFailed, err)
		}
		buffers = append(buffers, buf)
	}

	e.index++
	for i := range buffers {
		buffers[i].Index = e.index
	}
	return stepResult{kind: stepFrame, buffers: buffers, index: e.index}
}

// precheckLocked finishes the session when a reader already reports a
// terminal status, without calling CopyNextImageBuffer again.
func (e *Engine) precheckLocked() (State, error) {
	for _, nr := range e.readers {
		switch nr.reader.Status() {
		case ports.StatusCompleted:
			return StateCompleted, nil
		case ports.StatusFailed:
			return StateFailed, fmt.Errorf("%w: %s reader already failed", ports.ErrDecode, nr.name)
		}
	}
	return StatePlaying, nil
}

func (e *Engine) finishLocked(state State, err error) stepResult {
	e.sub.Deactivate()
	e.governor.Clear()
	e.state = state
	if state == StateFailed {
		return stepResult{kind: stepFailed, err: err}
	}
	e.logger.Debug("Playback completed after %d frames", e.index)
	return stepResult{kind: stepCompleted}
}

type singleDelivery struct {
	consumer ports.FrameConsumer
}

func (d singleDelivery) frames(buffers []ports.ImageBuffer) { d.consumer.OnFrame(buffers[0]) }
func (d singleDelivery) failed(err error)                   { d.consumer.OnError(err) }
func (d singleDelivery) completed()                         { d.consumer.OnCompleted() }

type pairDelivery struct {
	consumer ports.FramePairConsumer
}

func (d pairDelivery) frames(buffers []ports.ImageBuffer) {
	d.consumer.OnFramePair(buffers[0], buffers[1])
}
func (d pairDelivery) failed(err error) { d.consumer.OnError(err) }
func (d pairDelivery) completed()       { d.consumer.OnCompleted() }

type noopObserver struct{}

func (noopObserver) OnFrameIndexAdvanced(int) {}
func (noopObserver) OnFinishedPlaying()       {}

var _ refresh.Subscriber = (*Engine)(nil)
