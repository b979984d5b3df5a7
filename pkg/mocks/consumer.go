package mocks

import (
	"sync"

	"github.com/user/kitsune/pkg/ports"
)

// EventKind identifies a recorded consumer callback.
type EventKind string

const (
	EventFrame         EventKind = "frame"
	EventFramePair     EventKind = "frame-pair"
	EventIndexAdvanced EventKind = "index"
	EventError         EventKind = "error"
	EventCompleted     EventKind = "completed"
	EventFinished      EventKind = "finished"
)

// Event records one callback.
type Event struct {
	Kind       EventKind
	Index      int // Frame index (base index for pairs)
	AlphaIndex int // Alpha buffer index for pairs
	Err        error
}

// FrameRecorder implements ports.FrameConsumer, ports.FramePairConsumer and
// ports.PlaybackObserver, recording every callback in order.
type FrameRecorder struct {
	mu     sync.Mutex
	events []Event
	done   chan struct{}

	// Optional hooks invoked after recording.
	OnFrameFunc    func(buffer ports.ImageBuffer)
	OnFinishedFunc func()
}

// NewFrameRecorder creates a new FrameRecorder.
func NewFrameRecorder() *FrameRecorder {
	return &FrameRecorder{done: make(chan struct{})}
}

func (m *FrameRecorder) record(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *FrameRecorder) OnFrame(buffer ports.ImageBuffer) {
	m.record(Event{Kind: EventFrame, Index: buffer.Index})
	if m.OnFrameFunc != nil {
		m.OnFrameFunc(buffer)
	}
}

func (m *FrameRecorder) OnFramePair(base, alpha ports.ImageBuffer) {
	m.record(Event{Kind: EventFramePair, Index: base.Index, AlphaIndex: alpha.Index})
	if m.OnFrameFunc != nil {
		m.OnFrameFunc(base)
	}
}

func (m *FrameRecorder) OnError(err error) {
	m.record(Event{Kind: EventError, Err: err})
}

func (m *FrameRecorder) OnCompleted() {
	m.record(Event{Kind: EventCompleted})
}

func (m *FrameRecorder) OnFrameIndexAdvanced(index int) {
	m.record(Event{Kind: EventIndexAdvanced, Index: index})
}

func (m *FrameRecorder) OnFinishedPlaying() {
	m.record(Event{Kind: EventFinished})
	m.mu.Lock()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.mu.Unlock()
	if m.OnFinishedFunc != nil {
		m.OnFinishedFunc()
	}
}

// Done is closed on the first OnFinishedPlaying call.
func (m *FrameRecorder) Done() <-chan struct{} {
	return m.done
}

// Events returns a copy of the recorded events.
func (m *FrameRecorder) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Event, len(m.events))
	copy(result, m.events)
	return result
}

// Count returns the number of recorded events of the given kind.
func (m *FrameRecorder) Count(kind EventKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

var (
	_ ports.FrameConsumer     = (*FrameRecorder)(nil)
	_ ports.FramePairConsumer = (*FrameRecorder)(nil)
	_ ports.PlaybackObserver  = (*FrameRecorder)(nil)
)
